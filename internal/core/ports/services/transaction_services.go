package services

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/shopspring/decimal"
)

// BalanceMutatorSvc is the only component allowed to change an account balance.
// Every operation that touches a balance runs in a single storage transaction
// and serializes with other mutations of the same account.
type BalanceMutatorSvc interface {
	// Submit stores a pending deposit or withdrawal. No balance effect.
	Submit(ctx context.Context, accountID string, kind domain.TransactionKind, amount decimal.Decimal, aux domain.Auxiliary) (*domain.Transaction, error)

	// Approve applies a pending transaction's effect and marks it approved.
	Approve(ctx context.Context, transactionID int64, adminID string) (*domain.DecisionResult, error)

	// Reject marks a pending transaction declined.
	Reject(ctx context.Context, transactionID int64, adminID string) (*domain.DecisionResult, error)

	// SetBalance overrides an account balance and records the adjustment.
	SetBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, reason string, adminID string) (*domain.BalanceAdjustment, error)
}

// TransactionReaderSvc defines read operations on the ledger
type TransactionReaderSvc interface {
	// GetTransaction returns one transaction to its owner or an admin.
	GetTransaction(ctx context.Context, caller domain.Caller, transactionID int64) (*domain.Transaction, error)

	// ListTransactions pages through the caller's history (admins may name any account).
	ListTransactions(ctx context.Context, caller domain.Caller, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)

	// ListPendingTransactions returns the review queue. Admin only.
	ListPendingTransactions(ctx context.Context, caller domain.Caller, params dto.ListPendingParams) ([]domain.Transaction, error)
}

// TransactionWriterSvc defines the lifecycle operations on transactions
type TransactionWriterSvc interface {
	// SubmitTransaction validates and stores a request on behalf of the caller.
	SubmitTransaction(ctx context.Context, caller domain.Caller, req dto.SubmitTransactionRequest) (*domain.Transaction, error)

	// DecideTransaction approves or rejects a pending transaction. Admin only.
	DecideTransaction(ctx context.Context, caller domain.Caller, transactionID int64, decision domain.Decision) (*domain.DecisionResult, error)
}

// BalanceAdminSvc defines administrative balance operations
type BalanceAdminSvc interface {
	// SetBalance overrides an account balance. Admin only.
	SetBalance(ctx context.Context, caller domain.Caller, accountID string, req dto.SetBalanceRequest) (*domain.BalanceAdjustment, error)

	// ListAdjustments returns the override history of an account. Admin only.
	ListAdjustments(ctx context.Context, caller domain.Caller, accountID string) ([]domain.BalanceAdjustment, error)

	// Reconcile checks balance == approved deposits - approved withdrawals + adjustments. Admin only.
	Reconcile(ctx context.Context, caller domain.Caller, accountID string) (*domain.Reconciliation, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	BalanceAdminSvc
}
