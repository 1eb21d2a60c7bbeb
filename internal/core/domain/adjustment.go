package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceAdjustment is the audit record of an administrative balance override.
// It is not a ledger transaction.
type BalanceAdjustment struct {
	AdjustmentID    int64           `json:"adjustmentID"`
	AccountID       string          `json:"accountID"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	Delta           decimal.Decimal `json:"delta"`
	Reason          string          `json:"reason"`
	AdjustedBy      string          `json:"adjustedBy"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Reconciliation compares an account balance with what its ledger and adjustments imply:
// balance == approved deposits - approved withdrawals + adjustment deltas.
type Reconciliation struct {
	AccountID           string          `json:"accountID"`
	ApprovedDeposits    decimal.Decimal `json:"approvedDeposits"`
	ApprovedWithdrawals decimal.Decimal `json:"approvedWithdrawals"`
	AdjustmentTotal     decimal.Decimal `json:"adjustmentTotal"`
	ExpectedBalance     decimal.Decimal `json:"expectedBalance"`
	ActualBalance       decimal.Decimal `json:"actualBalance"`
	Consistent          bool            `json:"consistent"`
}
