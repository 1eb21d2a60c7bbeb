package services

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetProfile returns the caller's own account.
	GetProfile(ctx context.Context, caller domain.Caller) (*domain.Account, error)

	// GetAccount retrieves any account by id. Admin only.
	GetAccount(ctx context.Context, caller domain.Caller, accountID string) (*domain.Account, error)

	// ListAccounts returns live accounts newest first. Admin only.
	ListAccounts(ctx context.Context, caller domain.Caller, limit int, offset int) ([]domain.Account, error)
}

// AccountAdminSvc defines administrative writes on accounts
type AccountAdminSvc interface {
	// SetAccountStatus freezes, bans or reactivates an account. Admin only.
	SetAccountStatus(ctx context.Context, caller domain.Caller, accountID string, status domain.AccountStatus) (*domain.Account, error)

	// DeleteAccount soft-deletes an account. Admin only.
	DeleteAccount(ctx context.Context, caller domain.Caller, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountAdminSvc
}
