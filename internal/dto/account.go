package dto

import (
	"time"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for an account profile.
// Mirrors domain.Account without the credential hash.
type AccountResponse struct {
	AccountID     string               `json:"accountID"`
	Email         string               `json:"email"`
	Name          string               `json:"name"`
	Role          domain.Role          `json:"role"`
	Balance       decimal.Decimal      `json:"balance"`
	Status        domain.AccountStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
	DeletedAt     *time.Time           `json:"deletedAt,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Email:         acc.Email,
		Name:          acc.Name,
		Role:          acc.Role,
		Balance:       acc.Balance,
		Status:        acc.Status,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
		LastUpdatedBy: acc.LastUpdatedBy,
		DeletedAt:     acc.DeletedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// SetAccountStatusRequest changes whether an account may log in or transact.
type SetAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=active frozen banned"`
}

// SetBalanceRequest is an administrative balance override.
// Balance is required; an absent or null value must not read as zero.
// Its range is validated by the service (non-negative, at most 8 decimals).
type SetBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance" binding:"required"`
	Reason  string          `json:"reason" binding:"required,max=500"`
}

// AccountBalanceResponse defines the data returned after a balance change.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
}

// AdjustmentResponse is one override audit record.
type AdjustmentResponse struct {
	AdjustmentID    int64           `json:"adjustmentID"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	Delta           decimal.Decimal `json:"delta"`
	Reason          string          `json:"reason"`
	AdjustedBy      string          `json:"adjustedBy"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToListAdjustmentResponse converts adjustments to their DTOs
func ToListAdjustmentResponse(adjustments []domain.BalanceAdjustment) []AdjustmentResponse {
	res := make([]AdjustmentResponse, len(adjustments))
	for i, adj := range adjustments {
		res[i] = AdjustmentResponse{
			AdjustmentID:    adj.AdjustmentID,
			PreviousBalance: adj.PreviousBalance,
			NewBalance:      adj.NewBalance,
			Delta:           adj.Delta,
			Reason:          adj.Reason,
			AdjustedBy:      adj.AdjustedBy,
			CreatedAt:       adj.CreatedAt,
		}
	}
	return res
}
