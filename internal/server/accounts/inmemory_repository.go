package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/avoshkin/authgate/internal/common"
)

// InMemoryRepository keeps accounts in process memory. It is used by tests
// and local development. Create holds one lock across the uniqueness check
// and the insert, giving the same exactly-one-winner guarantee as the SQL
// UNIQUE constraints.
type InMemoryRepository struct {
	mu         sync.Mutex
	nextID     int64
	byEmail    map[string]*Account
	byUsername map[string]*Account
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byEmail:    make(map[string]*Account),
		byUsername: make(map[string]*Account),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, account *Account) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	if _, ok := r.byUsername[account.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	stored := *account
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()

	r.byEmail[stored.Email] = &stored
	r.byUsername[stored.Username] = &stored

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}

	result := *account
	return &result, nil
}

func (r *InMemoryRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}

	result := *account
	return &result, nil
}

// Delete removes an account. Only tests use it, to model an account that
// disappears after a token was issued.
func (r *InMemoryRepository) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byEmail[email]
	if !ok {
		return common.ErrorNotFound
	}

	delete(r.byEmail, account.Email)
	delete(r.byUsername, account.Username)
	return nil
}
