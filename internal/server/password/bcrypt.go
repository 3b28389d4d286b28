// Package password provides one-way hashing of account passwords.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/avoshkin/authgate/internal/common"
)

// Hasher hashes plaintext passwords and verifies candidates against stored
// hash records. Implementations must embed a fresh random salt per Hash call
// and compare in constant time.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, record string) (bool, error)
}

// BcryptHasher implements Hasher on bcrypt. The cost factor is adaptive:
// raise it as hardware gets faster, old records stay verifiable because the
// cost is embedded in each record.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost.
// A cost of 0 selects bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	record, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(record), nil
}

// Verify reports whether plaintext matches the stored record. A mismatch is
// (false, nil); an undecodable record is an internal fault and returns
// common.ErrInvalidHash.
func (h *BcryptHasher) Verify(plaintext, record string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(record), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", common.ErrInvalidHash, err)
}
