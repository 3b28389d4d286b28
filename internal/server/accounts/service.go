package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avoshkin/authgate/internal/common"
	"github.com/avoshkin/authgate/internal/server/auth"
	"github.com/avoshkin/authgate/internal/server/password"
)

// TokenType is the fixed scheme marker returned alongside issued tokens.
const TokenType = "bearer"

// Token is the result of a successful login.
type Token struct {
	AccessToken string
	TokenType   string
}

// Service orchestrates registration, login, and token-based identity
// resolution. It is stateless: all shared state lives in the repository,
// whose Create is atomic, so the service itself needs no locking.
type Service struct {
	repo   Repository
	hasher password.Hasher
	codec  *auth.Codec
}

func NewService(repo Repository, hasher password.Hasher, codec *auth.Codec) *Service {
	return &Service{repo: repo, hasher: hasher, codec: codec}
}

// normalizeEmail lowercases the login key once at the boundary; storage and
// lookups always see the canonical form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the submitted credentials, hashes the password, and
// stores the account. Validation failures return *ValidationError with every
// violated rule. A duplicate email or username surfaces as
// common.ErrorAlreadyExists without saying which field collided.
func (s *Service) Register(ctx context.Context, email, username, plaintext string) (*Summary, error) {

	email = normalizeEmail(email)

	if fieldErrs := ValidateRegistration(email, username, plaintext); len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account, err := s.repo.Create(ctx, &Account{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	summary := account.Summary()
	return &summary, nil
}

// Login checks the email/password pair and issues a bearer token. An unknown
// email and a wrong password return the same common.ErrorInvalidCredentials,
// so callers cannot learn whether an account exists. A corrupt stored hash
// is an internal fault, not a credential failure.
func (s *Service) Login(ctx context.Context, email, plaintext string) (*Token, error) {

	account, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	ok, err := s.hasher.Verify(plaintext, account.PasswordHash)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	accessToken, err := s.codec.Issue(account.Email, account.Username)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &Token{AccessToken: accessToken, TokenType: TokenType}, nil
}

// ResolveIdentity verifies a bearer token and loads the account it names.
// Every token failure, and an account deleted after issuance, map to
// common.ErrorUnauthorized.
func (s *Service) ResolveIdentity(ctx context.Context, accessToken string) (*Summary, error) {

	claims, err := s.codec.Verify(accessToken)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	account, err := s.repo.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	summary := account.Summary()
	return &summary, nil
}
