package repositories

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
)

// MessageRepositoryFacade stores billing messages.
type MessageRepositoryFacade interface {
	// SaveMessage persists a message and returns it with id assigned.
	SaveMessage(ctx context.Context, msg domain.BillingMessage) (*domain.BillingMessage, error)

	// ListMessagesByAccount returns an account's messages newest first.
	ListMessagesByAccount(ctx context.Context, accountID string, limit int) ([]domain.BillingMessage, error)
}
