package interfaces

import "context"

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	LedgerEntryRepository() LedgerEntryRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	GameOutcomeRepository() GameOutcomeRepository
	ReferralRepository() ReferralRepository
	NotificationRepository() NotificationRepository
	AuditRepository() AuditRepository
	ChatRepository() ChatRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
