package testhelpers

import (
	"context"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ProcessDeposit(ctx context.Context, accountID int64, gross decimal.Decimal, reference string) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, gross, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ProcessWithdrawal(ctx context.Context, accountID int64, gross decimal.Decimal) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, gross)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ProcessGameOutcome(ctx context.Context, outcome entities.GameOutcome) (*entities.GameOutcomeResult, error) {
	args := m.Called(ctx, outcome)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameOutcomeResult), args.Error(1)
}

func (m *MockLedgerService) ProcessReferralBonus(ctx context.Context, referrerAccountID int64, invitedPublicID string) (*entities.ReferralResult, error) {
	args := m.Called(ctx, referrerAccountID, invitedPublicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ReferralResult), args.Error(1)
}

func (m *MockLedgerService) ProcessShopPurchase(ctx context.Context, accountID int64, item entities.ShopItem) (*entities.Account, error) {
	args := m.Called(ctx, accountID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

// MockNotificationSink is a mock implementation of NotificationSink
type MockNotificationSink struct {
	mock.Mock
}

func (m *MockNotificationSink) Enqueue(ctx context.Context, accountID int64, message string) error {
	args := m.Called(ctx, accountID, message)
	return args.Error(0)
}

// MockCredentialVerifier is a mock implementation of CredentialVerifier
type MockCredentialVerifier struct {
	mock.Mock
}

func (m *MockCredentialVerifier) Verify(ctx context.Context, username, password string) (int64, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionIssuer is a mock implementation of SessionIssuer
type MockSessionIssuer struct {
	mock.Mock
}

func (m *MockSessionIssuer) Issue(account *entities.Account) (string, time.Time, error) {
	args := m.Called(account)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockSessionIssuer) Parse(token string) (*entities.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

// MockAlertSink is a mock implementation of AlertSink
type MockAlertSink struct {
	mock.Mock
}

func (m *MockAlertSink) Alert(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// Compile-time interface checks
var (
	_ interfaces.LedgerService      = (*MockLedgerService)(nil)
	_ interfaces.NotificationSink   = (*MockNotificationSink)(nil)
	_ interfaces.CredentialVerifier = (*MockCredentialVerifier)(nil)
	_ interfaces.SessionIssuer      = (*MockSessionIssuer)(nil)
	_ interfaces.AlertSink          = (*MockAlertSink)(nil)
)
