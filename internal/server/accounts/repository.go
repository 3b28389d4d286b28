package accounts

import (
	"context"
)

// Repository is the persistence boundary for accounts.
//
// Create must be atomic with respect to uniqueness: the check and the write
// happen as one operation against a constraint held by the storage layer,
// and a constraint rejection is reported as common.ErrorAlreadyExists. The
// caller never pre-checks for duplicates; with concurrent creates for the
// same email or username exactly one succeeds.
type Repository interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
}
