// Package api implements a small HTTP client for the AuthGate server API.
// Server outcomes map back onto the shared sentinel errors, so the CLI can
// match them with errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avoshkin/authgate/internal/common"
)

const requestTimeout = 10 * time.Second

// Summary mirrors the account summary returned by the server.
type Summary struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}

// decodeErrorDetail turns an error payload into a printable string. The
// detail field is either a plain string or a list of field errors.
func decodeErrorDetail(resp *http.Response) string {
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return resp.Status
	}

	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}

	var fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Detail, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f.Field+": "+f.Message)
		}
		return strings.Join(parts, "; ")
	}

	return resp.Status
}

// Register creates an account and returns the server's confirmation message.
func (c *Client) Register(ctx context.Context, email, username, password string) (string, error) {
	resp, err := c.postJSON(ctx, "/register", registerRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var m messageResponse
		if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
			return "", err
		}
		return m.Message, nil
	case http.StatusUnprocessableEntity:
		return "", fmt.Errorf("%w: %s", common.ErrorValidation, decodeErrorDetail(resp))
	case http.StatusConflict:
		return "", common.ErrorAlreadyExists
	default:
		return "", fmt.Errorf("unexpected response: %s", resp.Status)
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.postJSON(ctx, "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var tok tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	case http.StatusUnauthorized:
		return "", common.ErrorInvalidCredentials
	default:
		return "", fmt.Errorf("unexpected response: %s", resp.Status)
	}
}

// Me fetches the account summary for the given bearer token.
func (c *Client) Me(ctx context.Context, accessToken string) (*Summary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		summary := &Summary{}
		if err := json.NewDecoder(resp.Body).Decode(summary); err != nil {
			return nil, err
		}
		return summary, nil
	case http.StatusUnauthorized:
		return nil, common.ErrorUnauthorized
	default:
		return nil, fmt.Errorf("unexpected response: %s", resp.Status)
	}
}
