package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/core/services"
	"github.com/SscSPs/brokerdesk/internal/repositories/memory"
	"github.com/SscSPs/brokerdesk/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	testAdminID = "admin-1"
	testUserID  = "user-1"
)

var depositAux = domain.Auxiliary{Coin: "USDT", Network: "trc20"}
var withdrawalAux = domain.Auxiliary{Address: "TQn9Y2khEsLJW1ChVWFMSMeRDow5KcbLSE"}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// failingTxManager injects a fault into MarkTransactionDecided after the balance write.
type failingTxManager struct {
	inner portsrepo.TransactionManager
}

type failingUnitOfWork struct {
	portsrepo.BalanceUnitOfWork
}

func (f failingTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow portsrepo.BalanceUnitOfWork) error) error {
	return f.inner.WithinTransaction(ctx, func(ctx context.Context, uow portsrepo.BalanceUnitOfWork) error {
		return fn(ctx, failingUnitOfWork{BalanceUnitOfWork: uow})
	})
}

func (failingUnitOfWork) MarkTransactionDecided(ctx context.Context, transactionID int64, status, expectedPrior domain.TransactionStatus, decidedBy string, now time.Time) (*domain.Transaction, error) {
	return nil, apperrors.NewStorageError("injected failure", errors.New("connection reset"))
}

type BalanceEngineTestSuite struct {
	suite.Suite
	store  *memory.Store
	engine portssvc.BalanceMutatorSvc
	ctx    context.Context
}

func (suite *BalanceEngineTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.engine = services.NewBalanceEngine(suite.store, suite.store, suite.store)
	suite.seed(testUserID, "user@example.com", domain.StatusActive, "0")
}

func (suite *BalanceEngineTestSuite) seed(id, email string, status domain.AccountStatus, balance string) {
	now := time.Now().UTC()
	suite.Require().NoError(suite.store.SaveAccount(suite.ctx, domain.Account{
		AccountID: id,
		Email:     email,
		Name:      id,
		Role:      domain.RoleUser,
		Balance:   dec(balance),
		Status:    status,
		AuditFields: domain.AuditFields{
			CreatedAt: now, CreatedBy: domain.SystemActor, LastUpdatedAt: now, LastUpdatedBy: domain.SystemActor,
		},
	}))
}

func (suite *BalanceEngineTestSuite) balance(id string) decimal.Decimal {
	acc, err := suite.store.FindAccountByID(suite.ctx, id)
	suite.Require().NoError(err)
	return acc.Balance
}

func (suite *BalanceEngineTestSuite) assertReconciles(id string) {
	acc, err := suite.store.FindAccountByID(suite.ctx, id)
	suite.Require().NoError(err)
	decided, err := suite.store.ListDecidedTransactionsByAccount(suite.ctx, id)
	suite.Require().NoError(err)
	adjustments, err := suite.store.ListAdjustmentsByAccount(suite.ctx, id)
	suite.Require().NoError(err)
	rec := accounting.Reconcile(*acc, decided, adjustments)
	suite.True(rec.Consistent, "expected %s, actual %s", rec.ExpectedBalance, rec.ActualBalance)
}

func (suite *BalanceEngineTestSuite) submit(kind domain.TransactionKind, amount string) *domain.Transaction {
	aux := depositAux
	if kind == domain.Withdrawal {
		aux = withdrawalAux
	}
	txn, err := suite.engine.Submit(suite.ctx, testUserID, kind, dec(amount), aux)
	suite.Require().NoError(err)
	return txn
}

func (suite *BalanceEngineTestSuite) TestSubmit_StoresPendingWithoutBalanceEffect() {
	txn := suite.submit(domain.Deposit, "100")

	suite.Equal(domain.Pending, txn.Status)
	suite.Positive(txn.TransactionID)
	suite.True(suite.balance(testUserID).IsZero())
}

func (suite *BalanceEngineTestSuite) TestSubmit_InvalidAmount() {
	for _, amount := range []string{"0", "-5", "1.123456789"} {
		_, err := suite.engine.Submit(suite.ctx, testUserID, domain.Deposit, dec(amount), depositAux)
		suite.ErrorIs(err, apperrors.ErrInvalidAmount, amount)
	}
	pending, err := suite.store.ListPendingTransactions(suite.ctx, nil, 10)
	suite.Require().NoError(err)
	suite.Empty(pending)
}

func (suite *BalanceEngineTestSuite) TestSubmit_InactiveAccountIsForbidden() {
	suite.seed("frozen-1", "frozen@example.com", domain.StatusFrozen, "50")
	suite.seed("banned-1", "banned@example.com", domain.StatusBanned, "50")
	suite.seed("deleted-1", "deleted@example.com", domain.StatusActive, "50")
	suite.Require().NoError(suite.store.MarkAccountDeleted(suite.ctx, "deleted-1", testAdminID, time.Now().UTC()))

	for _, id := range []string{"frozen-1", "banned-1", "deleted-1"} {
		_, err := suite.engine.Submit(suite.ctx, id, domain.Deposit, dec("10"), depositAux)
		suite.ErrorIs(err, apperrors.ErrForbidden, id)

		_, err = suite.engine.Submit(suite.ctx, id, domain.Withdrawal, dec("10"), withdrawalAux)
		suite.ErrorIs(err, apperrors.ErrForbidden, id)

		txns, _, err := suite.store.ListTransactionsByAccount(suite.ctx, id, 10, nil)
		suite.Require().NoError(err)
		suite.Empty(txns, id)
		suite.True(suite.balance(id).Equal(dec("50")), id)
	}
}

func (suite *BalanceEngineTestSuite) TestSubmit_WithdrawalAboveBalanceRejectedEarly() {
	_, err := suite.engine.Submit(suite.ctx, testUserID, domain.Withdrawal, dec("1"), withdrawalAux)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
}

func (suite *BalanceEngineTestSuite) TestApprove_DepositCreditsBalance() {
	txn := suite.submit(domain.Deposit, "100.5")

	result, err := suite.engine.Approve(suite.ctx, txn.TransactionID, testAdminID)
	suite.Require().NoError(err)
	suite.Equal(domain.Approved, result.Transaction.Status)
	suite.Require().NotNil(result.NewBalance)
	suite.True(result.NewBalance.Equal(dec("100.5")))
	suite.Require().NotNil(result.Transaction.DecidedBy)
	suite.Equal(testAdminID, *result.Transaction.DecidedBy)
	suite.True(suite.balance(testUserID).Equal(dec("100.5")))
	suite.assertReconciles(testUserID)
}

func (suite *BalanceEngineTestSuite) TestReject_LeavesBalanceUntouched() {
	txn := suite.submit(domain.Deposit, "40")

	result, err := suite.engine.Reject(suite.ctx, txn.TransactionID, testAdminID)
	suite.Require().NoError(err)
	suite.Equal(domain.Declined, result.Transaction.Status)
	suite.Nil(result.NewBalance)
	suite.True(suite.balance(testUserID).IsZero())
}

func (suite *BalanceEngineTestSuite) TestDecide_SecondDecisionIsConflict() {
	txn := suite.submit(domain.Deposit, "10")
	_, err := suite.engine.Approve(suite.ctx, txn.TransactionID, testAdminID)
	suite.Require().NoError(err)

	_, err = suite.engine.Approve(suite.ctx, txn.TransactionID, testAdminID)
	suite.ErrorIs(err, apperrors.ErrConflict)
	_, err = suite.engine.Reject(suite.ctx, txn.TransactionID, testAdminID)
	suite.ErrorIs(err, apperrors.ErrConflict)

	suite.True(suite.balance(testUserID).Equal(dec("10")))
	suite.assertReconciles(testUserID)
}

func (suite *BalanceEngineTestSuite) TestDecide_UnknownTransaction() {
	_, err := suite.engine.Approve(suite.ctx, 9999, testAdminID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// Deposit 100, request withdrawals of 60 and 50, approve both: the second must fail.
func (suite *BalanceEngineTestSuite) TestApprove_WithdrawalCannotOverdraw() {
	deposit := suite.submit(domain.Deposit, "100")
	_, err := suite.engine.Approve(suite.ctx, deposit.TransactionID, testAdminID)
	suite.Require().NoError(err)

	first := suite.submit(domain.Withdrawal, "60")
	second := suite.submit(domain.Withdrawal, "50")

	_, err = suite.engine.Approve(suite.ctx, first.TransactionID, testAdminID)
	suite.Require().NoError(err)
	_, err = suite.engine.Approve(suite.ctx, second.TransactionID, testAdminID)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	suite.True(suite.balance(testUserID).Equal(dec("40")))
	still, err := suite.store.FindTransactionByID(suite.ctx, second.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.Pending, still.Status)

	_, err = suite.engine.Reject(suite.ctx, second.TransactionID, testAdminID)
	suite.Require().NoError(err)
	suite.assertReconciles(testUserID)
}

func (suite *BalanceEngineTestSuite) TestApprove_ConcurrentWithdrawalsOnlyOneSucceeds() {
	deposit := suite.submit(domain.Deposit, "100")
	_, err := suite.engine.Approve(suite.ctx, deposit.TransactionID, testAdminID)
	suite.Require().NoError(err)

	a := suite.submit(domain.Withdrawal, "70")
	b := suite.submit(domain.Withdrawal, "70")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []int64{a.TransactionID, b.TransactionID} {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = suite.engine.Approve(suite.ctx, id, testAdminID)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
		}
	}
	suite.Equal(1, succeeded)
	suite.True(suite.balance(testUserID).Equal(dec("30")))
	suite.assertReconciles(testUserID)
}

func (suite *BalanceEngineTestSuite) TestApprove_ConcurrentApprovalsOfSameTransaction() {
	txn := suite.submit(domain.Deposit, "25")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.engine.Approve(suite.ctx, txn.TransactionID, testAdminID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, apperrors.ErrConflict)
	}
	suite.Equal(1, succeeded)
	suite.True(suite.balance(testUserID).Equal(dec("25")))
}

func (suite *BalanceEngineTestSuite) TestApprove_FaultAfterBalanceWriteRollsBack() {
	txn := suite.submit(domain.Deposit, "100")
	faulty := services.NewBalanceEngine(suite.store, suite.store, failingTxManager{inner: suite.store})

	_, err := faulty.Approve(suite.ctx, txn.TransactionID, testAdminID)
	suite.ErrorIs(err, apperrors.ErrStorage)

	suite.True(suite.balance(testUserID).IsZero())
	stored, err := suite.store.FindTransactionByID(suite.ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.Pending, stored.Status)

	// The lock was released, so a healthy engine can still decide it.
	_, err = suite.engine.Approve(suite.ctx, txn.TransactionID, testAdminID)
	suite.Require().NoError(err)
	suite.assertReconciles(testUserID)
}

func (suite *BalanceEngineTestSuite) TestApprove_CancelledContextRollsBack() {
	txn := suite.submit(domain.Deposit, "100")
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	_, err := suite.engine.Approve(ctx, txn.TransactionID, testAdminID)
	suite.Require().Error(err)

	suite.True(suite.balance(testUserID).IsZero())
	stored, err := suite.store.FindTransactionByID(suite.ctx, txn.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.Pending, stored.Status)
}

func (suite *BalanceEngineTestSuite) TestSetBalance_RecordsAdjustment() {
	deposit := suite.submit(domain.Deposit, "30")
	_, err := suite.engine.Approve(suite.ctx, deposit.TransactionID, testAdminID)
	suite.Require().NoError(err)

	adj, err := suite.engine.SetBalance(suite.ctx, testUserID, dec("12.5"), "  chargeback  ", testAdminID)
	suite.Require().NoError(err)
	suite.True(adj.PreviousBalance.Equal(dec("30")))
	suite.True(adj.NewBalance.Equal(dec("12.5")))
	suite.True(adj.Delta.Equal(dec("-17.5")))
	suite.Equal("chargeback", adj.Reason)
	suite.Equal(testAdminID, adj.AdjustedBy)

	suite.True(suite.balance(testUserID).Equal(dec("12.5")))
	adjustments, err := suite.store.ListAdjustmentsByAccount(suite.ctx, testUserID)
	suite.Require().NoError(err)
	suite.Len(adjustments, 1)
	suite.assertReconciles(testUserID)
}

func (suite *BalanceEngineTestSuite) TestSetBalance_RejectsNegativeAndMissingReason() {
	_, err := suite.engine.SetBalance(suite.ctx, testUserID, dec("-1"), "oops", testAdminID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.engine.SetBalance(suite.ctx, testUserID, dec("5"), "   ", testAdminID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.True(suite.balance(testUserID).IsZero())
}

func (suite *BalanceEngineTestSuite) TestSetBalance_UnknownAccount() {
	_, err := suite.engine.SetBalance(suite.ctx, "missing", dec("5"), "test", testAdminID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// Random-ish interleaving of every mutation kind keeps the ledger identity intact.
func (suite *BalanceEngineTestSuite) TestMixedMutations_KeepBalanceReconciled() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := domain.Deposit
			aux := depositAux
			if i%3 == 0 {
				kind = domain.Withdrawal
				aux = withdrawalAux
			}
			txn, err := suite.store.InsertPendingTransaction(suite.ctx, domain.Transaction{
				AccountID: testUserID, Kind: kind, Amount: decimal.NewFromInt(int64(i + 1)), Auxiliary: aux, Status: domain.Pending,
			})
			if err != nil {
				return
			}
			if i%4 == 0 {
				_, _ = suite.engine.Reject(suite.ctx, txn.TransactionID, testAdminID)
				return
			}
			_, _ = suite.engine.Approve(suite.ctx, txn.TransactionID, testAdminID)
			if i%7 == 0 {
				_, _ = suite.engine.SetBalance(suite.ctx, testUserID, decimal.NewFromInt(int64(i*10)), "correction", testAdminID)
			}
		}(i)
	}
	wg.Wait()

	suite.False(suite.balance(testUserID).IsNegative())
	suite.assertReconciles(testUserID)
}

func TestBalanceEngineTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceEngineTestSuite))
}
