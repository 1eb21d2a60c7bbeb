package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/utils/accounting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Metrics
var (
	transactionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerdesk_transactions_submitted_total",
		Help: "Pending transactions stored, by kind",
	}, []string{"kind"})

	transactionDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerdesk_transaction_decisions_total",
		Help: "Decision attempts on pending transactions, by kind and outcome",
	}, []string{"kind", "outcome"})

	balanceOverrides = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brokerdesk_balance_overrides_total",
		Help: "Administrative balance overrides, by outcome",
	}, []string{"outcome"})

	mutationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brokerdesk_balance_mutation_duration_seconds",
		Help:    "Duration of balance mutation units of work",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})
)

// balanceEngine owns every balance change. Each mutation runs inside one
// TransactionManager unit that first locks the owning account.
type balanceEngine struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	txManager   portsrepo.TransactionManager
}

// EngineOption is a functional option for configuring the balance engine
type EngineOption func(*balanceEngine)

// WithEngineClock overrides the time source used for decision and adjustment stamps.
func WithEngineClock(now func() time.Time) EngineOption {
	return func(e *balanceEngine) {
		e.Clock = now
	}
}

// NewBalanceEngine creates the balance mutation engine.
func NewBalanceEngine(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerRepositoryFacade, txManager portsrepo.TransactionManager, options ...EngineOption) portssvc.BalanceMutatorSvc {
	e := &balanceEngine{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

var _ portssvc.BalanceMutatorSvc = (*balanceEngine)(nil)

// Submit stores a pending request. The funds check for withdrawals is only a hint;
// Approve re-checks against the locked balance.
func (e *balanceEngine) Submit(ctx context.Context, accountID string, kind domain.TransactionKind, amount decimal.Decimal, aux domain.Auxiliary) (*domain.Transaction, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction kind '%s'", apperrors.ErrValidation, kind)
	}
	if err := accounting.ValidateAmount(amount); err != nil {
		return nil, err
	}

	acc, err := e.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			e.LogError(ctx, err, "Failed to load account for submission", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if !acc.CanSubmit() {
		e.LogWarn(ctx, "Submission refused for inactive account",
			slog.String("account_id", accountID),
			slog.String("status", string(acc.Status)))
		return nil, fmt.Errorf("%w: account %s may not submit transactions", apperrors.ErrForbidden, accountID)
	}
	if kind == domain.Withdrawal && amount.GreaterThan(acc.Balance) {
		return nil, fmt.Errorf("%w: withdrawal of %s exceeds balance %s", apperrors.ErrInsufficientFunds, amount, acc.Balance)
	}

	txn, err := e.ledgerRepo.InsertPendingTransaction(ctx, domain.Transaction{
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Auxiliary: aux,
		Status:    domain.Pending,
	})
	if err != nil {
		e.LogError(ctx, err, "Failed to store pending transaction", slog.String("account_id", accountID))
		return nil, err
	}

	transactionsSubmitted.WithLabelValues(string(kind)).Inc()
	e.LogInfo(ctx, "Transaction submitted",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.String("account_id", accountID),
		slog.String("kind", string(kind)),
		slog.String("amount", amount.String()))
	return txn, nil
}

func (e *balanceEngine) Approve(ctx context.Context, transactionID int64, adminID string) (*domain.DecisionResult, error) {
	return e.decide(ctx, transactionID, adminID, domain.Approved)
}

func (e *balanceEngine) Reject(ctx context.Context, transactionID int64, adminID string) (*domain.DecisionResult, error) {
	return e.decide(ctx, transactionID, adminID, domain.Declined)
}

// decide moves a pending transaction to target. For approvals the balance write and the
// status change commit together; the locked re-read makes a second decision a Conflict.
func (e *balanceEngine) decide(ctx context.Context, transactionID int64, adminID string, target domain.TransactionStatus) (*domain.DecisionResult, error) {
	timer := prometheus.NewTimer(mutationLatency.WithLabelValues("decide_" + string(target)))
	defer timer.ObserveDuration()

	// The owning account never changes, so it can be read before locking.
	txn, err := e.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	var result *domain.DecisionResult
	err = e.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.BalanceUnitOfWork) error {
		acc, err := uow.LockAccount(ctx, txn.AccountID)
		if err != nil {
			return err
		}
		current, err := uow.FindTransactionForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if current.Status != domain.Pending {
			return fmt.Errorf("%w: transaction %d is already %s", apperrors.ErrConflict, transactionID, current.Status)
		}

		now := e.Now()
		var newBalance *decimal.Decimal
		if target == domain.Approved {
			balance, err := accounting.ApplyEffect(acc.Balance, *current)
			if err != nil {
				return err
			}
			if err := uow.UpdateAccountBalance(ctx, acc.AccountID, balance, adminID, now); err != nil {
				return err
			}
			newBalance = &balance
		}

		decided, err := uow.MarkTransactionDecided(ctx, transactionID, target, domain.Pending, adminID, now)
		if err != nil {
			return err
		}
		result = &domain.DecisionResult{Transaction: *decided, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		transactionDecisions.WithLabelValues(string(txn.Kind), outcomeLabel(err)).Inc()
		e.logMutationFailure(ctx, err, "Transaction decision failed",
			slog.Int64("transaction_id", transactionID),
			slog.String("target_status", string(target)))
		return nil, err
	}

	transactionDecisions.WithLabelValues(string(txn.Kind), string(target)).Inc()
	e.LogInfo(ctx, "Transaction decided",
		slog.Int64("transaction_id", transactionID),
		slog.String("account_id", txn.AccountID),
		slog.String("status", string(target)),
		slog.String("decided_by", adminID))
	return result, nil
}

// SetBalance overwrites the balance of an account and appends the adjustment record
// in the same unit, so the reconciliation identity keeps holding.
func (e *balanceEngine) SetBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, reason string, adminID string) (*domain.BalanceAdjustment, error) {
	timer := prometheus.NewTimer(mutationLatency.WithLabelValues("set_balance"))
	defer timer.ObserveDuration()

	if err := accounting.ValidateBalance(newBalance); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a reason is required for balance overrides", apperrors.ErrValidation)
	}

	var adjustment *domain.BalanceAdjustment
	err := e.txManager.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.BalanceUnitOfWork) error {
		acc, err := uow.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if acc.IsDeleted() {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}

		now := e.Now()
		if err := uow.UpdateAccountBalance(ctx, accountID, newBalance, adminID, now); err != nil {
			return err
		}
		adjustment, err = uow.SaveBalanceAdjustment(ctx, domain.BalanceAdjustment{
			AccountID:       accountID,
			PreviousBalance: acc.Balance,
			NewBalance:      newBalance,
			Delta:           newBalance.Sub(acc.Balance),
			Reason:          reason,
			AdjustedBy:      adminID,
			CreatedAt:       now,
		})
		return err
	})
	if err != nil {
		balanceOverrides.WithLabelValues(outcomeLabel(err)).Inc()
		e.logMutationFailure(ctx, err, "Balance override failed", slog.String("account_id", accountID))
		return nil, err
	}

	balanceOverrides.WithLabelValues("applied").Inc()
	e.LogInfo(ctx, "Balance overridden",
		slog.String("account_id", accountID),
		slog.String("previous_balance", adjustment.PreviousBalance.String()),
		slog.String("new_balance", adjustment.NewBalance.String()),
		slog.String("adjusted_by", adminID))
	return adjustment, nil
}

// logMutationFailure logs expected business refusals at warn and everything else at error.
func (e *balanceEngine) logMutationFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	switch outcomeLabel(err) {
	case "error", "storage_failure":
		e.LogError(ctx, err, msg, keyvals...)
	default:
		e.LogWarn(ctx, msg, append(keyvals, slog.String("reason", err.Error()))...)
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return "invalid"
	case errors.Is(err, apperrors.ErrStorage):
		return "storage_failure"
	default:
		return "error"
	}
}
