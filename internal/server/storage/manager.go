// Package storage wires the database connection, schema migrations, and
// repositories together behind one handle.
package storage

import (
	"context"
	"database/sql"

	"github.com/avoshkin/authgate/internal/server/accounts"
)

type Manager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Accounts() accounts.Repository
	Close() error
}
