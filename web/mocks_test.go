package web

import (
	"context"
	"io"

	"arcade/application"
	"arcade/domain/entities"
	"arcade/domain/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockAccounts struct {
	mock.Mock
}

func (m *mockAccounts) Register(ctx context.Context, registration interfaces.Registration) (*entities.Account, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccounts) Login(ctx context.Context, username, password string) (*application.Login, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.Login), args.Error(1)
}

func (m *mockAccounts) Authenticate(token string) (*entities.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *mockAccounts) Get(ctx context.Context, accountID int64) (*entities.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccounts) Profile(ctx context.Context, publicID string) (*entities.Account, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccounts) UpdateProfile(ctx context.Context, accountID int64, update interfaces.ProfileUpdate) (*entities.Account, error) {
	args := m.Called(ctx, accountID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAccounts) Upload(ctx context.Context, accountID int64, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, accountID, filename, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *mockAccounts) Leaderboard(ctx context.Context) ([]*entities.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *mockAccounts) Search(ctx context.Context, query string) ([]*entities.Account, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *mockAccounts) Referrals(ctx context.Context, accountID int64) ([]*entities.Referral, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Referral), args.Error(1)
}

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Deposit(ctx context.Context, accountID int64, gross decimal.Decimal, reference string) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, gross, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *mockLedger) Withdraw(ctx context.Context, accountID int64, gross decimal.Decimal) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, gross)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *mockLedger) PlayCoinFlip(ctx context.Context, accountID int64) (*entities.GameOutcomeResult, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GameOutcomeResult), args.Error(1)
}

func (m *mockLedger) Purchase(ctx context.Context, accountID int64, item entities.ShopItem) (*entities.Account, error) {
	args := m.Called(ctx, accountID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockLedger) Entries(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *mockLedger) BalanceHistory(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BalanceHistory), args.Error(1)
}

func (m *mockLedger) GameHistory(ctx context.Context, accountID int64, limit int) ([]*entities.GameOutcomeRecord, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameOutcomeRecord), args.Error(1)
}

type mockAdmin struct {
	mock.Mock
}

func (m *mockAdmin) ToggleBan(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64) (*entities.Account, error) {
	args := m.Called(ctx, actor, targetAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAdmin) OverrideBalance(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64, balance decimal.Decimal) (*entities.Account, error) {
	args := m.Called(ctx, actor, targetAccountID, balance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAdmin) ApproveEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, actor, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *mockAdmin) RejectEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error) {
	args := m.Called(ctx, actor, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LedgerEntry), args.Error(1)
}

func (m *mockAdmin) DeleteChatMessage(ctx context.Context, actor interfaces.AdminActor, messageID int64) error {
	args := m.Called(ctx, actor, messageID)
	return args.Error(0)
}

func (m *mockAdmin) Accounts(ctx context.Context, actor interfaces.AdminActor, limit, offset int) ([]*entities.Account, error) {
	args := m.Called(ctx, actor, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

func (m *mockAdmin) FindAccount(ctx context.Context, actor interfaces.AdminActor, publicID string) (*entities.Account, error) {
	args := m.Called(ctx, actor, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *mockAdmin) PendingEntries(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *mockAdmin) AccountEntries(ctx context.Context, actor interfaces.AdminActor, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, actor, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *mockAdmin) Chats(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.ChatMessage, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChatMessage), args.Error(1)
}

func (m *mockAdmin) GameOutcomes(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.GameOutcomeRecord, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GameOutcomeRecord), args.Error(1)
}

func (m *mockAdmin) AuditTrail(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.AuditRecord, error) {
	args := m.Called(ctx, actor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AuditRecord), args.Error(1)
}

type mockChat struct {
	mock.Mock
}

func (m *mockChat) Send(ctx context.Context, senderAccountID int64, recipientPublicID, text, mediaKey string) (*entities.ChatMessage, error) {
	args := m.Called(ctx, senderAccountID, recipientPublicID, text, mediaKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ChatMessage), args.Error(1)
}

func (m *mockChat) History(ctx context.Context, accountID int64, otherPublicID string, limit int) ([]*entities.ChatMessage, error) {
	args := m.Called(ctx, accountID, otherPublicID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ChatMessage), args.Error(1)
}

type mockNotifications struct {
	mock.Mock
}

func (m *mockNotifications) List(ctx context.Context, accountID int64, limit int) ([]*entities.Notification, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Notification), args.Error(1)
}

func (m *mockNotifications) UnreadCount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ AccountFlows      = (*mockAccounts)(nil)
	_ LedgerFlows       = (*mockLedger)(nil)
	_ AdminFlows        = (*mockAdmin)(nil)
	_ ChatFlows         = (*mockChat)(nil)
	_ NotificationFlows = (*mockNotifications)(nil)
)
