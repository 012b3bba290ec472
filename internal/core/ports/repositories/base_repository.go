package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines operations for managing database transactions.
type TransactionManager interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction. Rolling back an already committed
	// transaction is not an error.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
