package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	Email          string          `db:"email"`
	Name           string          `db:"name"`
	CredentialHash string          `db:"credential_hash"`
	Role           string          `db:"role"`
	Balance        decimal.Decimal `db:"balance"` // NUMERIC(30,8)
	Status         string          `db:"status"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"` // Nullable
}
