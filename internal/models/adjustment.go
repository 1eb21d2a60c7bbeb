package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceAdjustment is the row shape of the balance_adjustments table.
type BalanceAdjustment struct {
	AdjustmentID    int64           `db:"adjustment_id"`
	AccountID       string          `db:"account_id"`
	PreviousBalance decimal.Decimal `db:"previous_balance"`
	NewBalance      decimal.Decimal `db:"new_balance"`
	Delta           decimal.Decimal `db:"delta"`
	Reason          string          `db:"reason"`
	AdjustedBy      string          `db:"adjusted_by"`
	CreatedAt       time.Time       `db:"created_at"`
}

// BillingMessage is the row shape of the billing_messages table.
type BillingMessage struct {
	MessageID int64     `db:"message_id"`
	AccountID string    `db:"account_id"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}
