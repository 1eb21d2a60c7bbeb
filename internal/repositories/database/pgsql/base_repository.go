package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02" // e.g. a malformed uuid
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewStorageError("failed to rollback transaction", err)
	}
	return nil
}

// WithinTransaction runs fn inside one database transaction. Any error from fn,
// a panic, or a failed commit rolls the transaction back.
func (r *BaseRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow portsrepo.BalanceUnitOfWork) error) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = r.Rollback(context.WithoutCancel(ctx), tx)
			panic(p)
		}
		if err != nil {
			// ctx may already be done; the rollback itself must still reach the server.
			if rbErr := r.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		}
	}()

	if err = fn(ctx, &pgxUnitOfWork{tx: tx}); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return apperrors.NewStorageError("transaction aborted before commit", err)
	}
	return r.Commit(ctx, tx)
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// storageErr wraps a driver failure. Lookups that cannot match any row become apperrors.ErrNotFound.
func storageErr(err error, format string, args ...any) error {
	if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgInvalidTextRepr {
		return apperrors.ErrNotFound
	}
	return apperrors.NewStorageError(fmt.Sprintf(format, args...), err)
}
var _ portsrepo.TransactionManager = (*BaseRepository)(nil)
