package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind says which direction money moves.
type TransactionKind string

const (
	Deposit    TransactionKind = "deposit"
	Withdrawal TransactionKind = "withdrawal"
)

// IsValid reports whether k is a known kind.
func (k TransactionKind) IsValid() bool {
	return k == Deposit || k == Withdrawal
}

// TransactionStatus is the lifecycle state of a ledger entry.
// pending --approve--> approved, pending --reject--> declined. Both targets are terminal.
type TransactionStatus string

const (
	Pending  TransactionStatus = "pending"
	Approved TransactionStatus = "approved"
	Declined TransactionStatus = "declined"
)

// IsTerminal reports whether no further transition is allowed.
func (s TransactionStatus) IsTerminal() bool {
	return s == Approved || s == Declined
}

// Auxiliary is kind-specific metadata. Opaque to the balance engine.
type Auxiliary struct {
	Coin    string `json:"coin,omitempty"`
	Network string `json:"network,omitempty"`
	Address string `json:"address,omitempty"`
}

// Transaction is a deposit or withdrawal request tracked through its lifecycle.
type Transaction struct {
	TransactionID int64             `json:"transactionID"` // sequence assigned
	AccountID     string            `json:"accountID"`
	Kind          TransactionKind   `json:"kind"`
	Amount        decimal.Decimal   `json:"amount"` // always positive
	Auxiliary     Auxiliary         `json:"auxiliary"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	DecidedAt     *time.Time        `json:"decidedAt,omitempty"` // nil while pending
	DecidedBy     *string           `json:"decidedBy,omitempty"`
}

// BalanceEffect returns the signed change approving t applies to its account.
func (t *Transaction) BalanceEffect() decimal.Decimal {
	if t.Kind == Withdrawal {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Decision is the admin verdict on a pending transaction.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// DecisionResult is what a successful approve/reject produced.
type DecisionResult struct {
	Transaction Transaction
	NewBalance  *decimal.Decimal // set only for approvals
}
