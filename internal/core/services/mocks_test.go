package services_test

import (
	"context"
	"time"

	"github.com/nucash/nucash_backend/internal/core/domain"
	portsrepo "github.com/nucash/nucash_backend/internal/core/ports/repositories"
	portssvc "github.com/nucash/nucash_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

// Ensure MockAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByRFID(ctx context.Context, rfid string) (*domain.Account, error) {
	args := m.Called(ctx, rfid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountBySchoolID(ctx context.Context, schoolID string) (*domain.Account, error) {
	args := m.Called(ctx, schoolID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID string, newBalance decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, accountID, newBalance, now)
	return args.Error(0)
}

func (m *MockAccountRepository) ActivateAccount(ctx context.Context, accountID string, pinHash string, now time.Time) error {
	args := m.Called(ctx, accountID, pinHash, now)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateRFID(ctx context.Context, accountID string, newRFID string, now time.Time) error {
	args := m.Called(ctx, accountID, newRFID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

// Ensure MockTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) MarkRefunded(ctx context.Context, transactionID string, now time.Time) error {
	args := m.Called(ctx, transactionID, now)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Transaction), returnedNextToken, args.Error(2)
}

func (m *MockTransactionRepository) FindAllByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Mock FareRepository ---
type MockFareRepository struct {
	mock.Mock
}

// Ensure MockFareRepository implements portsrepo.FareRepositoryFacade
var _ portsrepo.FareRepositoryFacade = (*MockFareRepository)(nil)

func (m *MockFareRepository) GetSettings(ctx context.Context) (*domain.FareSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FareSettings), args.Error(1)
}

func (m *MockFareRepository) SaveSettings(ctx context.Context, settings domain.FareSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockFareRepository) FindRouteByID(ctx context.Context, routeID string) (*domain.ShuttleRoute, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShuttleRoute), args.Error(1)
}

func (m *MockFareRepository) UpsertRoute(ctx context.Context, route domain.ShuttleRoute) error {
	args := m.Called(ctx, route)
	return args.Error(0)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

var _ portssvc.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendReceipt(ctx context.Context, receipt portssvc.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}
