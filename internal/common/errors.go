// Package common defines sentinel errors shared between the client and
// server layers of AuthGate. Callers should use errors.Is to match them.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Login errors. Deliberately the same value for "no such account" and
	// "wrong password" so callers cannot probe for account existence.
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Token errors. Signature problems are reported before expiry or
	// structural problems, so a tampered token never reveals whether its
	// claims would otherwise have been acceptable.
	ErrInvalidToken      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenMalformed    = errors.New("malformed token")
	ErrTokenBadSignature = errors.New("token signature mismatch")

	// ErrInvalidHash signals a corrupt stored password hash. This is an
	// internal fault, never a user-facing credential failure.
	ErrInvalidHash = errors.New("malformed password hash")
)
