package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus gates what an account may do.
type AccountStatus string

const (
	StatusActive AccountStatus = "active"
	StatusFrozen AccountStatus = "frozen" // may log in, may not submit transactions
	StatusBanned AccountStatus = "banned" // may not authenticate
)

// IsValid reports whether s is one of the known statuses.
func (s AccountStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusFrozen, StatusBanned:
		return true
	}
	return false
}

// Account is a registered customer (or administrator) with an authoritative balance.
type Account struct {
	AccountID      string          `json:"accountID"` // UUID
	Email          string          `json:"email"`     // unique login identifier
	Name           string          `json:"name"`
	CredentialHash string          `json:"-"` // bcrypt hash, never serialized
	Role           Role            `json:"role"`
	Balance        decimal.Decimal `json:"balance"`
	Status         AccountStatus   `json:"status"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // soft delete
}

// IsDeleted reports whether the account has been soft-deleted.
func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// CanSubmit reports whether the account may create new transactions.
func (a *Account) CanSubmit() bool {
	return a.Status == StatusActive && !a.IsDeleted()
}

// CanAuthenticate reports whether the account may log in or use a session.
func (a *Account) CanAuthenticate() bool {
	return a.Status != StatusBanned && !a.IsDeleted()
}
