package dto

import (
	"time"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SubmitTransactionRequest defines the data needed to request a deposit or withdrawal.
// Deposits carry Coin and Network; withdrawals carry Address.
type SubmitTransactionRequest struct {
	Kind    domain.TransactionKind `json:"kind" binding:"required,oneof=deposit withdrawal"`
	Amount  decimal.Decimal        `json:"amount"`
	Coin    string                 `json:"coin,omitempty"`
	Network string                 `json:"network,omitempty"`
	Address string                 `json:"address,omitempty"`
}

// SubmitTransactionResponse acknowledges a stored pending request.
type SubmitTransactionResponse struct {
	TransactionID int64                    `json:"transactionID"`
	Status        domain.TransactionStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID int64                    `json:"transactionID"`
	AccountID     string                   `json:"accountID"`
	Kind          domain.TransactionKind   `json:"kind"`
	Amount        decimal.Decimal          `json:"amount"`
	Coin          string                   `json:"coin,omitempty"`
	Network       string                   `json:"network,omitempty"`
	Address       string                   `json:"address,omitempty"`
	Status        domain.TransactionStatus `json:"status"`
	CreatedAt     time.Time                `json:"createdAt"`
	DecidedAt     *time.Time               `json:"decidedAt,omitempty"`
	DecidedBy     *string                  `json:"decidedBy,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Kind:          txn.Kind,
		Amount:        txn.Amount,
		Coin:          txn.Auxiliary.Coin,
		Network:       txn.Auxiliary.Network,
		Address:       txn.Auxiliary.Address,
		Status:        txn.Status,
		CreatedAt:     txn.CreatedAt,
		DecidedAt:     txn.DecidedAt,
		DecidedBy:     txn.DecidedBy,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing transactions.
// AccountID is honoured for admins only; users always see their own history.
type ListTransactionsParams struct {
	AccountID string `form:"accountID"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ListPendingParams defines query parameters for the admin review queue.
type ListPendingParams struct {
	AccountID string `form:"accountID"`
	Limit     int    `form:"limit,default=100" binding:"min=1,max=500"`
}

// DecisionRequest is an admin verdict on a pending transaction.
type DecisionRequest struct {
	Decision domain.Decision `json:"decision" binding:"required,oneof=approve reject"`
}

// DecisionResponse reports the outcome of a decision.
type DecisionResponse struct {
	TransactionID int64                    `json:"transactionID"`
	Status        domain.TransactionStatus `json:"status"`
	NewBalance    *decimal.Decimal         `json:"newBalance,omitempty"`
}

// ToDecisionResponse converts a domain.DecisionResult to DecisionResponse DTO
func ToDecisionResponse(res *domain.DecisionResult) DecisionResponse {
	return DecisionResponse{
		TransactionID: res.Transaction.TransactionID,
		Status:        res.Transaction.Status,
		NewBalance:    res.NewBalance,
	}
}

// ReconciliationResponse mirrors domain.Reconciliation.
type ReconciliationResponse = domain.Reconciliation
