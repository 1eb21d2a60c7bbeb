package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceUnitOfWork exposes the operations that may run inside one atomic balance mutation.
// Nothing written through it is observable until the enclosing transaction commits.
type BalanceUnitOfWork interface {
	// LockAccount acquires the per-account exclusion and returns the current row.
	// It is held until the unit of work ends.
	LockAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// FindTransactionForUpdate re-reads a transaction inside the unit of work.
	FindTransactionForUpdate(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// UpdateAccountBalance writes the new balance of a locked account.
	UpdateAccountBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, updatedBy string, now time.Time) error

	// MarkTransactionDecided moves a transaction from expectedPrior to status.
	// Returns apperrors.ErrConflict if the row is not currently in expectedPrior.
	MarkTransactionDecided(ctx context.Context, transactionID int64, status, expectedPrior domain.TransactionStatus, decidedBy string, now time.Time) (*domain.Transaction, error)

	// SaveBalanceAdjustment appends an override audit record.
	SaveBalanceAdjustment(ctx context.Context, adj domain.BalanceAdjustment) (*domain.BalanceAdjustment, error)
}

// TransactionManager runs fn atomically: either everything fn wrote commits or nothing does.
// A non-nil error from fn, a storage failure, or ctx ending rolls the whole unit back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow BalanceUnitOfWork) error) error
}
