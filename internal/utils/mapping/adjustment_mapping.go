package mapping

import (
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/models"
)

// ToDomainBalanceAdjustment converts a model BalanceAdjustment to a domain BalanceAdjustment
func ToDomainBalanceAdjustment(m models.BalanceAdjustment) domain.BalanceAdjustment {
	return domain.BalanceAdjustment{
		AdjustmentID:    m.AdjustmentID,
		AccountID:       m.AccountID,
		PreviousBalance: m.PreviousBalance,
		NewBalance:      m.NewBalance,
		Delta:           m.Delta,
		Reason:          m.Reason,
		AdjustedBy:      m.AdjustedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// ToDomainBillingMessage converts a model BillingMessage to a domain BillingMessage
func ToDomainBillingMessage(m models.BillingMessage) domain.BillingMessage {
	return domain.BillingMessage{
		MessageID: m.MessageID,
		AccountID: m.AccountID,
		Subject:   m.Subject,
		Body:      m.Body,
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
	}
}
