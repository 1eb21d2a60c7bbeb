package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, now time.Time) error {
	args := m.Called(ctx, accountID, status, updatedBy, now)
	return args.Error(0)
}

func (m *MockAccountRepository) MarkAccountDeleted(ctx context.Context, accountID string, deletedBy string, now time.Time) error {
	args := m.Called(ctx, accountID, deletedBy, now)
	return args.Error(0)
}

// MockBalanceMutator is a mock type for the BalanceMutatorSvc interface
type MockBalanceMutator struct {
	mock.Mock
}

func (m *MockBalanceMutator) Submit(ctx context.Context, accountID string, kind domain.TransactionKind, amount decimal.Decimal, aux domain.Auxiliary) (*domain.Transaction, error) {
	args := m.Called(ctx, accountID, kind, amount, aux)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockBalanceMutator) Approve(ctx context.Context, transactionID int64, adminID string) (*domain.DecisionResult, error) {
	args := m.Called(ctx, transactionID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecisionResult), args.Error(1)
}

func (m *MockBalanceMutator) Reject(ctx context.Context, transactionID int64, adminID string) (*domain.DecisionResult, error) {
	args := m.Called(ctx, transactionID, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecisionResult), args.Error(1)
}

func (m *MockBalanceMutator) SetBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, reason string, adminID string) (*domain.BalanceAdjustment, error) {
	args := m.Called(ctx, accountID, newBalance, reason, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceAdjustment), args.Error(1)
}

// MockPublisher is a mock type for the analytics Publisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}
