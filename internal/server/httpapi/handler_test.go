package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avoshkin/authgate/internal/logging"
	"github.com/avoshkin/authgate/internal/server/accounts"
	"github.com/avoshkin/authgate/internal/server/auth"
	"github.com/avoshkin/authgate/internal/server/password"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo := accounts.NewInMemoryRepository()
	hasher := password.NewBcryptHasher(bcrypt.MinCost)
	codec := auth.NewCodec([]byte("test-secret"), time.Hour)
	service := accounts.NewService(repo, hasher, codec)

	logger := logging.NewSlogLogger(slog.New(slog.DiscardHandler))

	s, err := NewServer(":0", logger, service)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return s
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler, email, username, pass string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, h, http.MethodPost, "/register", registerRequest{
		Email:    email,
		Username: username,
		Password: pass,
	}, nil)
}

func login(t *testing.T, h http.Handler, email, pass string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, h, http.MethodPost, "/login", loginRequest{Email: email, Password: pass}, nil)
}

func TestHandleRegister_Created(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()

	rec := register(t, h, "a@x.com", "alice", "abc12345")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusCreated, rec.Body)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "User registered successfully" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if !strings.Contains(rec.Body.String(), "alice") {
		t.Fatalf("expected username in detail, got %s", rec.Body)
	}
	if strings.Contains(rec.Body.String(), "abc12345") {
		t.Fatalf("response must not echo the password")
	}
}

func TestHandleRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()

	rec := register(t, h, "a@x.com", "alice", "short1")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusUnprocessableEntity, rec.Body)
	}

	var resp struct {
		Detail []accounts.FieldError `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Detail) == 0 || resp.Detail[0].Field != "password" {
		t.Fatalf("expected password field errors, got %+v", resp.Detail)
	}
}

func TestHandleRegister_Conflict(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()

	if rec := register(t, h, "a@x.com", "alice", "abc12345"); rec.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d; body %s", rec.Code, rec.Body)
	}

	rec := register(t, h, "a@x.com", "bob", "abc12345")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusConflict, rec.Body)
	}
	// One generic message regardless of which field collided.
	if !strings.Contains(rec.Body.String(), "email or username already registered") {
		t.Fatalf("expected the generic conflict message, got: %s", rec.Body)
	}
}

func TestHandleRegister_BadBody(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleLogin_SuccessAndFailure(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()
	register(t, h, "a@x.com", "alice", "abc12345")

	rec := login(t, h, "a@x.com", "abc12345")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body)
	}
	var tok tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tok); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if tok.AccessToken == "" || tok.TokenType != "bearer" {
		t.Fatalf("unexpected token response: %+v", tok)
	}

	wrongPass := login(t, h, "a@x.com", "wrong1234")
	unknown := login(t, h, "nobody@x.com", "abc12345")
	for _, rec := range []*httptest.ResponseRecorder{wrongPass, unknown} {
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusUnauthorized, rec.Body)
		}
		if rec.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("missing WWW-Authenticate header")
		}
	}
	// Identical body for both failure modes.
	if wrongPass.Body.String() != unknown.Body.String() {
		t.Fatalf("login failures must be indistinguishable: %s vs %s", wrongPass.Body, unknown.Body)
	}
}

func TestHandleMe(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()
	register(t, h, "a@x.com", "alice", "abc12345")

	rec := login(t, h, "a@x.com", "abc12345")
	var tok tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		header := http.Header{"Authorization": []string{"Bearer " + tok.AccessToken}}
		rec := doJSON(t, h, http.MethodGet, "/users/me", nil, header)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body %s", rec.Code, http.StatusOK, rec.Body)
		}

		var summary accounts.Summary
		if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
			t.Fatalf("decode summary: %v", err)
		}
		if summary.Email != "a@x.com" || summary.Username != "alice" || summary.ID == 0 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Fatalf("summary must not contain password material: %s", rec.Body)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/users/me", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		header := http.Header{"Authorization": []string{"Bearer " + tok.AccessToken + "x"}}
		rec := doJSON(t, h, http.MethodGet, "/users/me", nil, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		header := http.Header{"Authorization": []string{"Basic dXNlcjpwYXNz"}}
		rec := doJSON(t, h, http.MethodGet, "/users/me", nil, header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestHandleHealthAndIndex(t *testing.T) {
	t.Parallel()

	h := newTestServer(t).Handler()

	rec := doJSON(t, h, http.MethodGet, "/health", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("health: status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodGet, "/", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/register") {
		t.Fatalf("index: status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the listener a moment, then trigger shutdown.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop after context cancel")
	}
}
