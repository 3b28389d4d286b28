// Package httpapi exposes the account operations over a JSON HTTP API and
// maps service outcomes onto transport status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avoshkin/authgate/internal/logging"
	"github.com/avoshkin/authgate/internal/server/accounts"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address  string
	accounts *accounts.Service
	logger   logging.Logger
}

func NewServer(address string, l logging.Logger, as *accounts.Service) (*Server, error) {
	return &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: as,
	}, nil
}

// Handler builds the route table. Exposed for handler tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /register", s.handleRegister)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /users/me", s.handleMe)

	return mux
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
