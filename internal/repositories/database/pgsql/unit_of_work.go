package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// pgxUnitOfWork runs balance mutations on one pgx transaction. Row locks taken with
// FOR UPDATE are held until the transaction ends.
type pgxUnitOfWork struct {
	tx pgx.Tx
}

var _ portsrepo.BalanceUnitOfWork = (*pgxUnitOfWork)(nil)

func (u *pgxUnitOfWork) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	acc, err := scanAccount(u.tx.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, storageErr(err, "failed to lock account %s", accountID)
	}
	return &acc, nil
}

func (u *pgxUnitOfWork) FindTransactionForUpdate(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`
	txn, err := scanTransaction(u.tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, storageErr(err, "failed to lock transaction %d", transactionID)
	}
	return &txn, nil
}

func (u *pgxUnitOfWork) UpdateAccountBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	cmdTag, err := u.tx.Exec(ctx, query, accountID, newBalance, now, updatedBy)
	if err != nil {
		return storageErr(err, "failed to update balance of account %s", accountID)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// MarkTransactionDecided is a conditional update: it only matches while the row is still expectedPrior.
func (u *pgxUnitOfWork) MarkTransactionDecided(ctx context.Context, transactionID int64, status, expectedPrior domain.TransactionStatus, decidedBy string, now time.Time) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = $2, decided_at = $3, decided_by = $4
		WHERE transaction_id = $1 AND status = $5
		RETURNING ` + transactionColumns + `;
	`
	txn, err := scanTransaction(u.tx.QueryRow(ctx, query, transactionID, string(status), now, decidedBy, string(expectedPrior)))
	if err == nil {
		return &txn, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storageErr(err, "failed to decide transaction %d", transactionID)
	}

	var current string
	err = u.tx.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1;`, transactionID).Scan(&current)
	if err != nil {
		return nil, storageErr(err, "failed to read transaction %d", transactionID)
	}
	return nil, fmt.Errorf("%w: transaction %d is %s", apperrors.ErrConflict, transactionID, current)
}

func (u *pgxUnitOfWork) SaveBalanceAdjustment(ctx context.Context, adj domain.BalanceAdjustment) (*domain.BalanceAdjustment, error) {
	query := `
		INSERT INTO balance_adjustments (account_id, previous_balance, new_balance, delta, reason, adjusted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + adjustmentColumns + `;
	`
	saved, err := scanAdjustment(u.tx.QueryRow(ctx, query,
		adj.AccountID,
		adj.PreviousBalance,
		adj.NewBalance,
		adj.Delta,
		adj.Reason,
		adj.AdjustedBy,
		adj.CreatedAt,
	))
	if err != nil {
		return nil, storageErr(err, "failed to save adjustment for account %s", adj.AccountID)
	}
	return &saved, nil
}
