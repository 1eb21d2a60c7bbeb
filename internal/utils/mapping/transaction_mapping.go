package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// Auxiliary metadata is stored as JSONB.
func ToModelTransaction(d domain.Transaction) (models.Transaction, error) {
	aux, err := json.Marshal(d.Auxiliary)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("failed to encode auxiliary data: %w", err)
	}
	return models.Transaction{
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Kind:          string(d.Kind),
		Amount:        d.Amount,
		Auxiliary:     aux,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt,
		DecidedAt:     d.DecidedAt,
		DecidedBy:     d.DecidedBy,
	}, nil
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	var aux domain.Auxiliary
	if len(m.Auxiliary) > 0 {
		if err := json.Unmarshal(m.Auxiliary, &aux); err != nil {
			return domain.Transaction{}, fmt.Errorf("failed to decode auxiliary data of transaction %d: %w", m.TransactionID, err)
		}
	}
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		Kind:          domain.TransactionKind(m.Kind),
		Amount:        m.Amount,
		Auxiliary:     aux,
		Status:        domain.TransactionStatus(m.Status),
		CreatedAt:     m.CreatedAt,
		DecidedAt:     m.DecidedAt,
		DecidedBy:     m.DecidedBy,
	}, nil
}
