package accounts

import "time"

// Account is a stored credential record. ID and CreatedAt are assigned by
// the store on creation; no field is ever mutated afterwards.
type Account struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Summary is the public projection of an Account. It deliberately has no
// password-hash field, so a hash cannot leak through serialization.
type Summary struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Account) Summary() Summary {
	return Summary{
		ID:        a.ID,
		Email:     a.Email,
		Username:  a.Username,
		CreatedAt: a.CreatedAt,
	}
}
