package mapping

import (
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Email:          d.Email,
		Name:           d.Name,
		CredentialHash: d.CredentialHash,
		Role:           string(d.Role),
		Balance:        d.Balance,
		Status:         string(d.Status),
		AuditFields:    ToModelAuditFields(d.AuditFields),
		DeletedAt:      d.DeletedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Email:          m.Email,
		Name:           m.Name,
		CredentialHash: m.CredentialHash,
		Role:           domain.Role(m.Role),
		Balance:        m.Balance,
		Status:         domain.AccountStatus(m.Status),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
}
