package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TransactionID int64           `db:"transaction_id"` // BIGSERIAL
	AccountID     string          `db:"account_id"`
	Kind          string          `db:"kind"`
	Amount        decimal.Decimal `db:"amount"`
	Auxiliary     []byte          `db:"auxiliary"` // JSONB
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	DecidedAt     *time.Time      `db:"decided_at"` // Nullable
	DecidedBy     *string         `db:"decided_by"` // Nullable
}
