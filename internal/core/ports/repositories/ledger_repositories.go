package repositories

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// FindTransactionByID retrieves a transaction by id.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactionsByAccount returns an account's transactions newest first using token-based pagination.
	// It returns the page, a token for the next page (nil when exhausted), and an error.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// ListPendingTransactions returns pending transactions oldest first, optionally for one account.
	ListPendingTransactions(ctx context.Context, accountID *string, limit int) ([]domain.Transaction, error)

	// ListDecidedTransactionsByAccount returns every approved or declined transaction of an account.
	ListDecidedTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// LedgerWriter defines write operations for ledger entries outside a balance mutation.
type LedgerWriter interface {
	// InsertPendingTransaction stores txn with status pending, assigning id and createdAt.
	InsertPendingTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
