package application

import (
	"context"
	"sync/atomic"

	"arcade/domain/interfaces"
	"arcade/domain/testhelpers"
)

// fakeUnitOfWork hands out shared repository mocks and counts commits
type fakeUnitOfWork struct {
	factory *fakeUnitOfWorkFactory
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }

func (u *fakeUnitOfWork) Commit() error {
	u.factory.commits.Add(1)
	return nil
}

func (u *fakeUnitOfWork) Rollback() error { return nil }

func (u *fakeUnitOfWork) AccountRepository() interfaces.AccountRepository {
	return u.factory.Accounts
}

func (u *fakeUnitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	return u.factory.Entries
}

func (u *fakeUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.factory.History
}

func (u *fakeUnitOfWork) GameOutcomeRepository() interfaces.GameOutcomeRepository {
	return u.factory.Outcomes
}

func (u *fakeUnitOfWork) ReferralRepository() interfaces.ReferralRepository {
	return u.factory.Referrals
}

func (u *fakeUnitOfWork) NotificationRepository() interfaces.NotificationRepository {
	return u.factory.Notifications
}

func (u *fakeUnitOfWork) AuditRepository() interfaces.AuditRepository {
	return u.factory.Audit
}

func (u *fakeUnitOfWork) ChatRepository() interfaces.ChatRepository {
	return u.factory.Chats
}

func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher {
	return u.factory.Events
}

type fakeUnitOfWorkFactory struct {
	Accounts      *testhelpers.MockAccountRepository
	Entries       *testhelpers.MockLedgerEntryRepository
	History       *testhelpers.MockBalanceHistoryRepository
	Outcomes      *testhelpers.MockGameOutcomeRepository
	Referrals     *testhelpers.MockReferralRepository
	Notifications *testhelpers.MockNotificationRepository
	Audit         *testhelpers.MockAuditRepository
	Chats         *testhelpers.MockChatRepository
	Events        *testhelpers.MockEventPublisher

	created atomic.Int64
	commits atomic.Int64
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	return &fakeUnitOfWorkFactory{
		Accounts:      new(testhelpers.MockAccountRepository),
		Entries:       new(testhelpers.MockLedgerEntryRepository),
		History:       new(testhelpers.MockBalanceHistoryRepository),
		Outcomes:      new(testhelpers.MockGameOutcomeRepository),
		Referrals:     new(testhelpers.MockReferralRepository),
		Notifications: new(testhelpers.MockNotificationRepository),
		Audit:         new(testhelpers.MockAuditRepository),
		Chats:         new(testhelpers.MockChatRepository),
		Events:        new(testhelpers.MockEventPublisher),
	}
}

func (f *fakeUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	f.created.Add(1)
	return &fakeUnitOfWork{factory: f}
}
