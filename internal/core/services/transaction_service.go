package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/SscSPs/brokerdesk/internal/platform/analytics"
	"github.com/SscSPs/brokerdesk/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize    = 20
	maxPageSize        = 100
	defaultPendingSize = 100
	maxPendingSize     = 500

	// reconcileAttempts bounds how often Reconcile re-reads when the balance moves underneath it.
	reconcileAttempts = 3
)

var walletAddressPattern = regexp.MustCompile(`^[A-Za-z0-9]{26,90}$`)

// depositDetails and withdrawalDetails are the kind-specific auxiliary shapes.
type depositDetails struct {
	Coin    string `validate:"required,supported_coin"`
	Network string `validate:"required"`
}

type withdrawalDetails struct {
	Address string `validate:"required,wallet_address"`
	Coin    string `validate:"omitempty,supported_coin"`
}

// NewAuxiliaryValidator returns a validator with the wallet_address and supported_coin tags registered.
func NewAuxiliaryValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("wallet_address", func(fl validator.FieldLevel) bool {
		return walletAddressPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("supported_coin", func(fl validator.FieldLevel) bool {
		return domain.IsSupportedCoin(fl.Field().String())
	})
	return v
}

type transactionService struct {
	BaseService
	engine         portssvc.BalanceMutatorSvc
	accountRepo    portsrepo.AccountReader
	ledgerRepo     portsrepo.LedgerReader
	adjustmentRepo portsrepo.AdjustmentReader
	validate       *validator.Validate
	events         analytics.Publisher
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionEvents sets the analytics publisher.
func WithTransactionEvents(events analytics.Publisher) TransactionServiceOption {
	return func(s *transactionService) {
		s.events = events
	}
}

// NewTransactionService creates the transaction lifecycle service.
func NewTransactionService(
	engine portssvc.BalanceMutatorSvc,
	accountRepo portsrepo.AccountReader,
	ledgerRepo portsrepo.LedgerReader,
	adjustmentRepo portsrepo.AdjustmentReader,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		engine:         engine,
		accountRepo:    accountRepo,
		ledgerRepo:     ledgerRepo,
		adjustmentRepo: adjustmentRepo,
		validate:       NewAuxiliaryValidator(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) publish(distinctID, event string, props map[string]any) {
	if s.events != nil {
		s.events.Enqueue(distinctID, event, props)
	}
}

// normalizeAuxiliary validates the kind-specific metadata and returns it in canonical form.
func (s *transactionService) normalizeAuxiliary(req dto.SubmitTransactionRequest) (domain.Auxiliary, error) {
	coin := strings.ToUpper(strings.TrimSpace(req.Coin))
	network := strings.ToLower(strings.TrimSpace(req.Network))
	address := strings.TrimSpace(req.Address)

	switch req.Kind {
	case domain.Deposit:
		if err := s.validate.Struct(depositDetails{Coin: coin, Network: network}); err != nil {
			return domain.Auxiliary{}, fmt.Errorf("%w: deposit requires a supported coin and network: %v", apperrors.ErrValidation, err)
		}
		if !domain.IsSupportedNetwork(coin, network) {
			return domain.Auxiliary{}, fmt.Errorf("%w: network %s is not available for %s", apperrors.ErrValidation, network, coin)
		}
		return domain.Auxiliary{Coin: coin, Network: network}, nil
	case domain.Withdrawal:
		if err := s.validate.Struct(withdrawalDetails{Address: address, Coin: coin}); err != nil {
			return domain.Auxiliary{}, fmt.Errorf("%w: withdrawal requires a valid destination address: %v", apperrors.ErrValidation, err)
		}
		if coin != "" && network != "" && !domain.IsSupportedNetwork(coin, network) {
			return domain.Auxiliary{}, fmt.Errorf("%w: network %s is not available for %s", apperrors.ErrValidation, network, coin)
		}
		return domain.Auxiliary{Coin: coin, Network: network, Address: address}, nil
	default:
		return domain.Auxiliary{}, fmt.Errorf("%w: unknown transaction kind '%s'", apperrors.ErrValidation, req.Kind)
	}
}

func (s *transactionService) SubmitTransaction(ctx context.Context, caller domain.Caller, req dto.SubmitTransactionRequest) (*domain.Transaction, error) {
	aux, err := s.normalizeAuxiliary(req)
	if err != nil {
		return nil, err
	}

	txn, err := s.engine.Submit(ctx, caller.AccountID, req.Kind, req.Amount, aux)
	if err != nil {
		return nil, err
	}

	s.publish(caller.AccountID, analytics.EventTransactionSubmitted, map[string]any{
		"transaction_id": txn.TransactionID,
		"kind":           string(txn.Kind),
		"amount":         txn.Amount.String(),
		"coin":           aux.Coin,
	})
	return txn, nil
}

func (s *transactionService) DecideTransaction(ctx context.Context, caller domain.Caller, transactionID int64, decision domain.Decision) (*domain.DecisionResult, error) {
	if err := s.RequireAdmin(ctx, caller, "decide transaction"); err != nil {
		return nil, err
	}

	var (
		result *domain.DecisionResult
		err    error
	)
	switch decision {
	case domain.DecisionApprove:
		result, err = s.engine.Approve(ctx, transactionID, caller.AccountID)
	case domain.DecisionReject:
		result, err = s.engine.Reject(ctx, transactionID, caller.AccountID)
	default:
		return nil, fmt.Errorf("%w: decision must be approve or reject", apperrors.ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	s.publish(caller.AccountID, analytics.EventTransactionDecided, map[string]any{
		"transaction_id": transactionID,
		"account_id":     result.Transaction.AccountID,
		"kind":           string(result.Transaction.Kind),
		"status":         string(result.Transaction.Status),
	})
	return result, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, caller domain.Caller, transactionID int64) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	// Other users' transactions are reported as missing.
	if !caller.IsAdmin() && txn.AccountID != caller.AccountID {
		s.LogWarn(ctx, "Transaction requested by non-owner",
			slog.Int64("transaction_id", transactionID),
			slog.String("account_id", caller.AccountID))
		return nil, apperrors.ErrNotFound
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, caller domain.Caller, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	accountID := caller.AccountID
	if params.AccountID != "" && params.AccountID != caller.AccountID {
		if err := s.RequireAdmin(ctx, caller, "list another account's transactions"); err != nil {
			return nil, nil, err
		}
		if _, err := s.accountRepo.FindAccountByID(ctx, params.AccountID); err != nil {
			return nil, nil, err
		}
		accountID = params.AccountID
	}

	limit := clampLimit(params.Limit, defaultPageSize, maxPageSize)
	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}
	return s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, limit, nextToken)
}

func (s *transactionService) ListPendingTransactions(ctx context.Context, caller domain.Caller, params dto.ListPendingParams) ([]domain.Transaction, error) {
	if err := s.RequireAdmin(ctx, caller, "list pending transactions"); err != nil {
		return nil, err
	}
	var accountID *string
	if params.AccountID != "" {
		accountID = &params.AccountID
	}
	return s.ledgerRepo.ListPendingTransactions(ctx, accountID, clampLimit(params.Limit, defaultPendingSize, maxPendingSize))
}

func (s *transactionService) SetBalance(ctx context.Context, caller domain.Caller, accountID string, req dto.SetBalanceRequest) (*domain.BalanceAdjustment, error) {
	if err := s.RequireAdmin(ctx, caller, "set balance"); err != nil {
		return nil, err
	}
	if req.Balance == nil {
		return nil, fmt.Errorf("%w: balance is required", apperrors.ErrValidation)
	}
	adj, err := s.engine.SetBalance(ctx, accountID, *req.Balance, req.Reason, caller.AccountID)
	if err != nil {
		return nil, err
	}

	s.publish(caller.AccountID, analytics.EventBalanceOverridden, map[string]any{
		"account_id": accountID,
		"delta":      adj.Delta.String(),
	})
	return adj, nil
}

func (s *transactionService) ListAdjustments(ctx context.Context, caller domain.Caller, accountID string) ([]domain.BalanceAdjustment, error) {
	if err := s.RequireAdmin(ctx, caller, "list adjustments"); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.adjustmentRepo.ListAdjustmentsByAccount(ctx, accountID)
}

// Reconcile reads the ledger and adjustments between two reads of the balance and
// retries when a mutation committed in between.
func (s *transactionService) Reconcile(ctx context.Context, caller domain.Caller, accountID string) (*domain.Reconciliation, error) {
	if err := s.RequireAdmin(ctx, caller, "reconcile account"); err != nil {
		return nil, err
	}

	var rec domain.Reconciliation
	for attempt := 1; attempt <= reconcileAttempts; attempt++ {
		before, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		decided, err := s.ledgerRepo.ListDecidedTransactionsByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		adjustments, err := s.adjustmentRepo.ListAdjustmentsByAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		after, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return nil, err
		}

		rec = accounting.Reconcile(*after, decided, adjustments)
		if rec.Consistent || before.Balance.Equal(after.Balance) {
			break
		}
	}

	if !rec.Consistent {
		s.LogError(ctx, errors.New("balance does not match ledger"), "Reconciliation mismatch",
			slog.String("account_id", accountID),
			slog.String("expected", rec.ExpectedBalance.String()),
			slog.String("actual", rec.ActualBalance.String()))
	}
	return &rec, nil
}

func clampLimit(limit, fallback, ceiling int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > ceiling {
		return ceiling
	}
	return limit
}
