package services

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/SscSPs/brokerdesk/internal/dto"
)

// MessageSvcFacade defines billing message operations
type MessageSvcFacade interface {
	// SendBillingMessage stores a message for an account. Admin only.
	SendBillingMessage(ctx context.Context, caller domain.Caller, accountID string, req dto.SendMessageRequest) (*domain.BillingMessage, error)

	// ListMessages returns the caller's own messages, newest first.
	ListMessages(ctx context.Context, caller domain.Caller, limit int) ([]domain.BillingMessage, error)
}
