package services

import (
	"fmt"
	"sync"
	"testing"

	"arcade/domain/entities"
	"arcade/domain/events"
	"arcade/domain/interfaces"
	"arcade/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Test constants for consistent test data
const (
	testAccountID   = int64(100)
	testAdminID     = int64(1)
	testReferrerID  = int64(200)
	testRecipientID = int64(300)
	testEntryID     = int64(42)
)

// testMocks aggregates all repository mocks for testing
type testMocks struct {
	AccountRepo        *testhelpers.MockAccountRepository
	LedgerRepo         *testhelpers.MockLedgerEntryRepository
	BalanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	GameOutcomeRepo    *testhelpers.MockGameOutcomeRepository
	ReferralRepo       *testhelpers.MockReferralRepository
	NotificationRepo   *testhelpers.MockNotificationRepository
	AuditRepo          *testhelpers.MockAuditRepository
	ChatRepo           *testhelpers.MockChatRepository
	EventPublisher     *testhelpers.MockEventPublisher
	Strikes            *testhelpers.MockStrikeCounter
	Hasher             *testhelpers.MockPasswordHasher
}

func newTestMocks() *testMocks {
	return &testMocks{
		AccountRepo:        &testhelpers.MockAccountRepository{},
		LedgerRepo:         &testhelpers.MockLedgerEntryRepository{},
		BalanceHistoryRepo: &testhelpers.MockBalanceHistoryRepository{},
		GameOutcomeRepo:    &testhelpers.MockGameOutcomeRepository{},
		ReferralRepo:       &testhelpers.MockReferralRepository{},
		NotificationRepo:   &testhelpers.MockNotificationRepository{},
		AuditRepo:          &testhelpers.MockAuditRepository{},
		ChatRepo:           &testhelpers.MockChatRepository{},
		EventPublisher:     &testhelpers.MockEventPublisher{},
		Strikes:            &testhelpers.MockStrikeCounter{},
		Hasher:             &testhelpers.MockPasswordHasher{},
	}
}

// assertAllExpectations verifies all mock expectations were met
func (m *testMocks) assertAllExpectations(t *testing.T) {
	m.AccountRepo.AssertExpectations(t)
	m.LedgerRepo.AssertExpectations(t)
	m.BalanceHistoryRepo.AssertExpectations(t)
	m.GameOutcomeRepo.AssertExpectations(t)
	m.ReferralRepo.AssertExpectations(t)
	m.NotificationRepo.AssertExpectations(t)
	m.AuditRepo.AssertExpectations(t)
	m.ChatRepo.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
	m.Strikes.AssertExpectations(t)
	m.Hasher.AssertExpectations(t)
}

func (m *testMocks) ledgerService(reward int64) interfaces.LedgerService {
	return NewLedgerService(
		m.AccountRepo,
		m.LedgerRepo,
		m.BalanceHistoryRepo,
		m.GameOutcomeRepo,
		m.ReferralRepo,
		m.EventPublisher,
		testhelpers.FixedRewardSource{Reward: reward},
	)
}

func (m *testMocks) reconciliationService() interfaces.ReconciliationService {
	return NewReconciliationService(m.AccountRepo, m.LedgerRepo, m.BalanceHistoryRepo, m.EventPublisher)
}

func (m *testMocks) adminService() interfaces.AdminService {
	return NewAdminService(m.AccountRepo, m.LedgerRepo, m.BalanceHistoryRepo, m.AuditRepo, m.ChatRepo, m.EventPublisher)
}

// expectBalanceChange sets up one AdjustBalance call and the history row it produces
func (m *testMocks) expectBalanceChange(accountID int64, delta string, allowNegative bool, newBalance string, transactionType entities.TransactionType) {
	want := money(delta)
	m.AccountRepo.On("AdjustBalance", mock.Anything, accountID, decimalEq(delta), allowNegative).
		Return(money(newBalance), nil).Once()
	m.BalanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
		return h.AccountID == accountID &&
			h.TransactionType == transactionType &&
			h.ChangeAmount.Equal(want) &&
			h.BalanceAfter.Equal(money(newBalance)) &&
			h.BalanceBefore.Equal(money(newBalance).Sub(want))
	})).Return(nil).Once()
}

// captureEvents accepts every published event and records it
func (m *testMocks) captureEvents() *eventLog {
	log := &eventLog{}
	m.EventPublisher.On("Publish", mock.Anything).Run(func(args mock.Arguments) {
		log.mu.Lock()
		defer log.mu.Unlock()
		log.events = append(log.events, args.Get(0).(events.Event))
	}).Return(nil).Maybe()
	return log
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) ofType(eventType events.EventType) []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var matched []events.Event
	for _, event := range l.events {
		if event.Type() == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func (l *eventLog) notifications() []string {
	var messages []string
	for _, event := range l.ofType(events.EventTypeNotificationRequested) {
		messages = append(messages, event.(events.NotificationRequestedEvent).Message)
	}
	return messages
}

func money(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// decimalEq matches a decimal argument by numeric value rather than representation
func decimalEq(value string) any {
	want := money(value)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

func newTestAccount(id int64, balance string) *entities.Account {
	return &entities.Account{
		ID:       id,
		PublicID: fmt.Sprintf("USER_%d", 100000+id),
		Username: fmt.Sprintf("player%d", id),
		Email:    fmt.Sprintf("player%d@example.com", id),
		Balance:  money(balance),
		Level:    1,
	}
}
