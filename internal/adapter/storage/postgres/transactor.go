package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor hands out pgx transactions from the pool. Services that span
// multiple repositories in one ledger movement depend on it through the
// ports.DBTransactor interface.
type Transactor struct {
	pool Pool
}

// NewTransactor wraps the connection pool.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a database transaction.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
