// Package memory is an in-process implementation of the account and ledger stores.
// Balance mutations serialize on a per-account lock and stage their writes until commit,
// so a failed or cancelled unit of work leaves no trace.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/brokerdesk/internal/apperrors"
	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/brokerdesk/internal/core/ports/repositories"
	"github.com/SscSPs/brokerdesk/internal/utils/pagination"
)

// Store keeps accounts, transactions, adjustments and messages in memory.
type Store struct {
	mu           sync.RWMutex
	accounts     map[string]domain.Account
	emails       map[string]string // lower(email) -> account id
	transactions map[int64]domain.Transaction
	adjustments  []domain.BalanceAdjustment
	messages     []domain.BillingMessage
	nextTxnID    int64
	nextAdjID    int64
	nextMsgID    int64

	locks *accountLocks
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		accounts:     make(map[string]domain.Account),
		emails:       make(map[string]string),
		transactions: make(map[int64]domain.Transaction),
		locks:        newAccountLocks(),
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewRepositoryProvider exposes a Store through the repository ports.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    s,
		LedgerRepo:     s,
		AdjustmentRepo: s,
		MessageRepo:    s,
		TxManager:      s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*Store)(nil)
	_ portsrepo.AdjustmentReader        = (*Store)(nil)
	_ portsrepo.MessageRepositoryFacade = (*Store)(nil)
	_ portsrepo.TransactionManager      = (*Store)(nil)
)

// --- accounts ---

// SaveAccount creates an account; emails are unique case-insensitively.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(account.Email)
	if _, taken := s.emails[key]; taken {
		return fmt.Errorf("%w: account with email %s already exists", apperrors.ErrDuplicate, account.Email)
	}
	if _, taken := s.accounts[account.AccountID]; taken {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	s.emails[key] = account.AccountID
	return nil
}

// FindAccountByID returns the account including soft-deleted ones.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

// FindAccountByEmail looks an account up by its login identifier, ignoring case.
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	acc := s.accounts[id]
	return &acc, nil
}

// ListAccounts returns non-deleted accounts, newest first.
func (s *Store) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		if !acc.IsDeleted() {
			accounts = append(accounts, acc)
		}
	}
	s.mu.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].AccountID < accounts[j].AccountID
		}
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})

	if offset >= len(accounts) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(accounts) {
		end = len(accounts)
	}
	return accounts[offset:end], nil
}

// UpdateAccountStatus sets the status of a non-deleted account.
func (s *Store) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok || acc.IsDeleted() {
		return apperrors.ErrNotFound
	}
	acc.Status = status
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = updatedBy
	s.accounts[accountID] = acc
	return nil
}

// MarkAccountDeleted soft-deletes an account. Deleting twice is ErrNotFound.
func (s *Store) MarkAccountDeleted(ctx context.Context, accountID string, deletedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok || acc.IsDeleted() {
		return apperrors.ErrNotFound
	}
	acc.DeletedAt = &now
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = deletedBy
	s.accounts[accountID] = acc
	return nil
}

// --- ledger ---

// InsertPendingTransaction assigns the next id and stores txn as pending.
func (s *Store) InsertPendingTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[txn.AccountID]; !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, txn.AccountID)
	}
	s.nextTxnID++
	txn.TransactionID = s.nextTxnID
	txn.Status = domain.Pending
	txn.CreatedAt = s.now()
	txn.DecidedAt = nil
	txn.DecidedBy = nil
	s.transactions[txn.TransactionID] = txn
	return &txn, nil
}

// FindTransactionByID returns a transaction or ErrNotFound.
func (s *Store) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

// ListTransactionsByAccount pages an account's transactions newest first using a cursor token.
func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		cursorAt  time.Time
		cursorID  int64
		hasCursor bool
	)
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursorAt, cursorID, hasCursor = at, id, true
	}

	s.mu.RLock()
	page := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.AccountID != accountID {
			continue
		}
		if hasCursor && !pagination.IsBefore(txn.CreatedAt, txn.TransactionID, cursorAt, cursorID) {
			continue
		}
		page = append(page, txn)
	}
	s.mu.RUnlock()

	sortNewestFirst(page)

	var next *string
	if len(page) > limit {
		page = page[:limit]
		last := page[len(page)-1]
		token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		next = &token
	}
	return page, next, nil
}

// ListPendingTransactions returns the pending queue oldest first, optionally for one account.
func (s *Store) ListPendingTransactions(ctx context.Context, accountID *string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	pending := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.Status != domain.Pending {
			continue
		}
		if accountID != nil && txn.AccountID != *accountID {
			continue
		}
		pending = append(pending, txn)
	}
	s.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].TransactionID < pending[j].TransactionID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// ListDecidedTransactionsByAccount returns approved and declined transactions for an account.
func (s *Store) ListDecidedTransactionsByAccount(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	decided := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.AccountID == accountID && txn.Status.IsTerminal() {
			decided = append(decided, txn)
		}
	}
	sortNewestFirst(decided)
	return decided, nil
}

// --- adjustments ---

// ListAdjustmentsByAccount returns the balance overrides of an account, newest first.
func (s *Store) ListAdjustmentsByAccount(ctx context.Context, accountID string) ([]domain.BalanceAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BalanceAdjustment, 0)
	for i := len(s.adjustments) - 1; i >= 0; i-- {
		if s.adjustments[i].AccountID == accountID {
			out = append(out, s.adjustments[i])
		}
	}
	return out, nil
}

// --- messages ---

// SaveMessage stores a billing message for an existing account.
func (s *Store) SaveMessage(ctx context.Context, msg domain.BillingMessage) (*domain.BillingMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[msg.AccountID]; !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, msg.AccountID)
	}
	s.nextMsgID++
	msg.MessageID = s.nextMsgID
	s.messages = append(s.messages, msg)
	return &msg, nil
}

// ListMessagesByAccount returns up to limit messages for an account, newest first.
func (s *Store) ListMessagesByAccount(ctx context.Context, accountID string, limit int) ([]domain.BillingMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BillingMessage, 0)
	for i := len(s.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if s.messages[i].AccountID == accountID {
			out = append(out, s.messages[i])
		}
	}
	return out, nil
}

func sortNewestFirst(txns []domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		return pagination.IsBefore(txns[j].CreatedAt, txns[j].TransactionID, txns[i].CreatedAt, txns[i].TransactionID)
	})
}
