package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type balanceWrite struct {
	balance   decimal.Decimal
	updatedBy string
	at        time.Time
}

type decisionWrite struct {
	txn           domain.Transaction
	expectedPrior domain.TransactionStatus
}

// unitOfWork stages writes against a Store. Nothing reaches the Store until commit.
type unitOfWork struct {
	store *Store

	locked      []string
	lockedSet   map[string]struct{}
	balances    map[string]balanceWrite
	decisions   map[int64]decisionWrite
	adjustments []domain.BalanceAdjustment
}

var _ portsrepo.BalanceUnitOfWork = (*unitOfWork)(nil)

// WithinTransaction implements portsrepo.TransactionManager.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, uow portsrepo.BalanceUnitOfWork) error) error {
	uow := &unitOfWork{
		store:     s,
		lockedSet: make(map[string]struct{}),
		balances:  make(map[string]balanceWrite),
		decisions: make(map[int64]decisionWrite),
	}
	defer uow.releaseLocks()

	if err := ctx.Err(); err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	if err := fn(ctx, uow); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewStorageError("transaction aborted before commit", err)
	}
	return uow.commit()
}

func (u *unitOfWork) releaseLocks() {
	for i := len(u.locked) - 1; i >= 0; i-- {
		u.store.locks.release(u.locked[i])
	}
	u.locked = nil
}

func (u *unitOfWork) isLocked(accountID string) bool {
	_, ok := u.lockedSet[accountID]
	return ok
}

// LockAccount acquires the account's lock for the rest of the unit of work and returns its staged view.
func (u *unitOfWork) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	if !u.isLocked(accountID) {
		if err := u.store.locks.acquire(ctx, accountID); err != nil {
			return nil, apperrors.NewStorageError("failed to lock account", err)
		}
		u.locked = append(u.locked, accountID)
		u.lockedSet[accountID] = struct{}{}
	}

	acc, err := u.store.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if w, ok := u.balances[accountID]; ok {
		acc.Balance = w.balance
		acc.LastUpdatedAt = w.at
		acc.LastUpdatedBy = w.updatedBy
	}
	return acc, nil
}

// FindTransactionForUpdate reads a transaction; its owning account must already be locked.
func (u *unitOfWork) FindTransactionForUpdate(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	if d, ok := u.decisions[transactionID]; ok {
		txn := d.txn
		return &txn, nil
	}
	return u.store.FindTransactionByID(ctx, transactionID)
}

// UpdateAccountBalance stages a balance write on a locked account.
func (u *unitOfWork) UpdateAccountBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, updatedBy string, now time.Time) error {
	if !u.isLocked(accountID) {
		return fmt.Errorf("balance update on account %s without holding its lock", accountID)
	}
	u.balances[accountID] = balanceWrite{balance: newBalance, updatedBy: updatedBy, at: now}
	return nil
}

// MarkTransactionDecided stages a decision. ErrConflict if the transaction is not in expectedPrior.
func (u *unitOfWork) MarkTransactionDecided(ctx context.Context, transactionID int64, status, expectedPrior domain.TransactionStatus, decidedBy string, now time.Time) (*domain.Transaction, error) {
	current, err := u.FindTransactionForUpdate(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !u.isLocked(current.AccountID) {
		return nil, fmt.Errorf("decision on transaction %d without holding the account lock", transactionID)
	}
	if current.Status != expectedPrior {
		return nil, fmt.Errorf("%w: transaction %d is %s", apperrors.ErrConflict, transactionID, current.Status)
	}

	prior := expectedPrior
	if d, ok := u.decisions[transactionID]; ok {
		prior = d.expectedPrior
	}
	decidedAt := now
	by := decidedBy
	current.Status = status
	current.DecidedAt = &decidedAt
	current.DecidedBy = &by
	u.decisions[transactionID] = decisionWrite{txn: *current, expectedPrior: prior}

	out := *current
	return &out, nil
}

// SaveBalanceAdjustment stages an override audit record.
func (u *unitOfWork) SaveBalanceAdjustment(ctx context.Context, adj domain.BalanceAdjustment) (*domain.BalanceAdjustment, error) {
	if !u.isLocked(adj.AccountID) {
		return nil, fmt.Errorf("adjustment on account %s without holding its lock", adj.AccountID)
	}
	u.store.mu.Lock()
	u.store.nextAdjID++
	adj.AdjustmentID = u.store.nextAdjID
	u.store.mu.Unlock()

	u.adjustments = append(u.adjustments, adj)
	return &adj, nil
}

// commit re-checks every staged decision against the committed state, then applies all writes at once.
func (u *unitOfWork) commit() error {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range u.decisions {
		committed, ok := s.transactions[id]
		if !ok {
			return fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, id)
		}
		if committed.Status != d.expectedPrior {
			return fmt.Errorf("%w: transaction %d is %s", apperrors.ErrConflict, id, committed.Status)
		}
	}
	for id := range u.balances {
		if _, ok := s.accounts[id]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}

	for id, w := range u.balances {
		acc := s.accounts[id]
		acc.Balance = w.balance
		acc.LastUpdatedAt = w.at
		acc.LastUpdatedBy = w.updatedBy
		s.accounts[id] = acc
	}
	for id, d := range u.decisions {
		s.transactions[id] = d.txn
	}
	s.adjustments = append(s.adjustments, u.adjustments...)
	return nil
}
