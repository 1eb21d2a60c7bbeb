package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/platform/analytics"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	events      analytics.Publisher
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountEvents sets the analytics publisher.
func WithAccountEvents(events analytics.Publisher) AccountServiceOption {
	return func(s *accountService) {
		s.events = events
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetProfile(ctx context.Context, caller domain.Caller) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if account.IsDeleted() {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

func (s *accountService) GetAccount(ctx context.Context, caller domain.Caller, accountID string) (*domain.Account, error) {
	if err := s.RequireAdmin(ctx, caller, "get account"); err != nil {
		return nil, err
	}
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, caller domain.Caller, limit int, offset int) ([]domain.Account, error) {
	if err := s.RequireAdmin(ctx, caller, "list accounts"); err != nil {
		return nil, err
	}
	return s.accountRepo.ListAccounts(ctx, clampLimit(limit, defaultPageSize, maxPageSize), offset)
}

func (s *accountService) SetAccountStatus(ctx context.Context, caller domain.Caller, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	if err := s.RequireAdmin(ctx, caller, "set account status"); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status '%s'", apperrors.ErrValidation, status)
	}
	if accountID == caller.AccountID {
		return nil, fmt.Errorf("%w: administrators cannot change their own status", apperrors.ErrForbidden)
	}

	if err := s.accountRepo.UpdateAccountStatus(ctx, accountID, status, caller.AccountID, s.Now()); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Account status changed",
		slog.String("account_id", accountID),
		slog.String("status", string(status)),
		slog.String("changed_by", caller.AccountID))
	if s.events != nil {
		s.events.Enqueue(caller.AccountID, analytics.EventAccountStatusChanged, map[string]any{
			"account_id": accountID,
			"status":     string(status),
		})
	}
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) DeleteAccount(ctx context.Context, caller domain.Caller, accountID string) error {
	if err := s.RequireAdmin(ctx, caller, "delete account"); err != nil {
		return err
	}
	if accountID == caller.AccountID {
		return fmt.Errorf("%w: administrators cannot delete their own account", apperrors.ErrForbidden)
	}
	if err := s.accountRepo.MarkAccountDeleted(ctx, accountID, caller.AccountID, s.Now()); err != nil {
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID), slog.String("deleted_by", caller.AccountID))
	return nil
}
