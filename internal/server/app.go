// Package server initializes and runs the AuthGate server: it wires
// configuration, storage, the account service, and the HTTP API, and
// handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avoshkin/authgate/internal/logging"
	"github.com/avoshkin/authgate/internal/server/accounts"
	"github.com/avoshkin/authgate/internal/server/auth"
	"github.com/avoshkin/authgate/internal/server/config"
	"github.com/avoshkin/authgate/internal/server/httpapi"
	"github.com/avoshkin/authgate/internal/server/password"
	"github.com/avoshkin/authgate/internal/server/storage"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	accountService *accounts.Service
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	m, err := storage.NewPostgresManager(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher := password.NewBcryptHasher(0)
	codec := auth.NewCodec([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	as := accounts.NewService(m.Accounts(), hasher, codec)

	return &App{config: c, logger: logger, accountService: as}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.accountService)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
