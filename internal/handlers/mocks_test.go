package handlers_test

import (
	"context"

	"github.com/SscSPs/brokerdesk/internal/core/domain"
	portssvc "github.com/SscSPs/brokerdesk/internal/core/ports/services"
	"github.com/SscSPs/brokerdesk/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AuthService ---
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.Caller, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Caller), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*domain.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) GetProfile(ctx context.Context, caller domain.Caller) (*domain.Account, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, caller domain.Caller, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, caller domain.Caller, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, caller, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) SetAccountStatus(ctx context.Context, caller domain.Caller, accountID string, status domain.AccountStatus) (*domain.Account, error) {
	args := m.Called(ctx, caller, accountID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, caller domain.Caller, accountID string) error {
	return m.Called(ctx, caller, accountID).Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, caller domain.Caller, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, caller, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, caller domain.Caller, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, caller, params)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionService) ListPendingTransactions(ctx context.Context, caller domain.Caller, params dto.ListPendingParams) ([]domain.Transaction, error) {
	args := m.Called(ctx, caller, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) SubmitTransaction(ctx context.Context, caller domain.Caller, req dto.SubmitTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) DecideTransaction(ctx context.Context, caller domain.Caller, transactionID int64, decision domain.Decision) (*domain.DecisionResult, error) {
	args := m.Called(ctx, caller, transactionID, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecisionResult), args.Error(1)
}

func (m *MockTransactionService) SetBalance(ctx context.Context, caller domain.Caller, accountID string, req dto.SetBalanceRequest) (*domain.BalanceAdjustment, error) {
	args := m.Called(ctx, caller, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceAdjustment), args.Error(1)
}

func (m *MockTransactionService) ListAdjustments(ctx context.Context, caller domain.Caller, accountID string) ([]domain.BalanceAdjustment, error) {
	args := m.Called(ctx, caller, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceAdjustment), args.Error(1)
}

func (m *MockTransactionService) Reconcile(ctx context.Context, caller domain.Caller, accountID string) (*domain.Reconciliation, error) {
	args := m.Called(ctx, caller, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock MessageService ---
type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) SendBillingMessage(ctx context.Context, caller domain.Caller, accountID string, req dto.SendMessageRequest) (*domain.BillingMessage, error) {
	args := m.Called(ctx, caller, accountID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillingMessage), args.Error(1)
}

func (m *MockMessageService) ListMessages(ctx context.Context, caller domain.Caller, limit int) ([]domain.BillingMessage, error) {
	args := m.Called(ctx, caller, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillingMessage), args.Error(1)
}

var _ portssvc.MessageSvcFacade = (*MockMessageService)(nil)
