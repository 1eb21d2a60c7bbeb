package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByEmail retrieves an account by its login identifier (case-insensitive).
	FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts that are not soft-deleted, newest first.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
// Balance is deliberately absent: it only changes through a BalanceUnitOfWork.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate if the email is taken.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountStatus changes the status flag of an account.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, now time.Time) error

	// MarkAccountDeleted soft-deletes an account.
	MarkAccountDeleted(ctx context.Context, accountID string, deletedBy string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
