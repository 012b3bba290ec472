package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/FieldOpsLabs/inspection_tracking_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository holds the shared pgx pool and the transaction helpers every
// Postgres repository builds on.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin opens a transaction on the shared pool.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "could not open transaction", err)
	}
	return tx, nil
}

// Commit finalizes the transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "could not commit transaction", err)
	}
	return nil
}

// Rollback aborts the transaction. A rollback after a successful commit is a
// no-op so it can sit in a deferred cleanup.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "could not rollback transaction", err)
	}
	return nil
}
