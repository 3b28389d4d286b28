package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avoshkin/authgate/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/register" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Email != "a@x.com" || req.Username != "alice" || req.Password != "abc12345" {
			t.Errorf("unexpected payload: %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(messageResponse{Message: "User registered successfully"})
	})

	msg, err := c.Register(context.Background(), "a@x.com", "alice", "abc12345")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if msg != "User registered successfully" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"field":"password","message":"must be at least 8 characters long"}]}`))
	})

	_, err := c.Register(context.Background(), "a@x.com", "alice", "short1")
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want common.ErrorValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "password: must be at least 8 characters long") {
		t.Fatalf("expected field detail in error, got %v", err)
	}
}

func TestRegister_Conflict(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"email or username already registered"}`))
	})

	_, err := c.Register(context.Background(), "a@x.com", "alice", "abc12345")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestLogin_SuccessAndUnauthorized(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password == "abc12345" {
			_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: "tok-123", TokenType: "bearer"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid email or password"}`))
	})

	tok, err := c.Login(context.Background(), "a@x.com", "abc12345")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if tok != "tok-123" {
		t.Fatalf("unexpected token: %q", tok)
	}

	_, err = c.Login(context.Background(), "a@x.com", "wrong1234")
	if !errors.Is(err, common.ErrorInvalidCredentials) {
		t.Fatalf("want common.ErrorInvalidCredentials, got %v", err)
	}
}

func TestMe(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"invalid or expired token"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Summary{ID: 1, Email: "a@x.com", Username: "alice"})
	})

	summary, err := c.Me(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("Me error: %v", err)
	}
	if summary.Username != "alice" || summary.ID != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	_, err = c.Me(context.Background(), "bad-token")
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want common.ErrorUnauthorized, got %v", err)
	}
}
