package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
)

const defaultMessagePageSize = 50

type messageService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	messageRepo portsrepo.MessageRepositoryFacade
}

// NewMessageService creates the billing message service.
func NewMessageService(accountRepo portsrepo.AccountReader, messageRepo portsrepo.MessageRepositoryFacade) portssvc.MessageSvcFacade {
	return &messageService{accountRepo: accountRepo, messageRepo: messageRepo}
}

var _ portssvc.MessageSvcFacade = (*messageService)(nil)

func (s *messageService) SendBillingMessage(ctx context.Context, caller domain.Caller, accountID string, req dto.SendMessageRequest) (*domain.BillingMessage, error) {
	if err := s.RequireAdmin(ctx, caller, "send billing message"); err != nil {
		return nil, err
	}
	subject := strings.TrimSpace(req.Subject)
	body := strings.TrimSpace(req.Body)
	if subject == "" || body == "" {
		return nil, fmt.Errorf("%w: subject and body are required", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}

	msg, err := s.messageRepo.SaveMessage(ctx, domain.BillingMessage{
		AccountID: accountID,
		Subject:   subject,
		Body:      body,
		CreatedBy: caller.AccountID,
		CreatedAt: s.Now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save billing message", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Billing message sent", slog.String("account_id", accountID), slog.Int64("message_id", msg.MessageID))
	return msg, nil
}

func (s *messageService) ListMessages(ctx context.Context, caller domain.Caller, limit int) ([]domain.BillingMessage, error) {
	return s.messageRepo.ListMessagesByAccount(ctx, caller.AccountID, clampLimit(limit, defaultMessagePageSize, maxPageSize))
}
