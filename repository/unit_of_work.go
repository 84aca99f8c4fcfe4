package repository

import (
	"context"
	"fmt"

	"arcade/database"
	"arcade/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	accountRepo            interfaces.AccountRepository
	ledgerEntryRepo        interfaces.LedgerEntryRepository
	balanceHistoryRepo     interfaces.BalanceHistoryRepository
	gameOutcomeRepo        interfaces.GameOutcomeRepository
	referralRepo           interfaces.ReferralRepository
	notificationRepo       interfaces.NotificationRepository
	auditRepo              interfaces.AuditRepository
	chatRepo               interfaces.ChatRepository
}

// PublisherFactory builds the per-transaction event buffer for a new unit of work
type PublisherFactory func() interfaces.TransactionalEventPublisher

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, newPublisher PublisherFactory) *unitOfWorkFactory {
	return &unitOfWorkFactory{
		db:           db,
		newPublisher: newPublisher,
	}
}

type unitOfWorkFactory struct {
	db           *database.DB
	newPublisher PublisherFactory
}

// Create creates a new UnitOfWork with a fresh transactional publisher
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return f.CreateWithPublisher(f.newPublisher())
}

// CreateWithPublisher creates a new UnitOfWork with a specific transactional publisher
func (f *unitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) interfaces.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepositoryWithTx(tx)
	u.ledgerEntryRepo = newLedgerEntryRepositoryWithTx(tx)
	u.balanceHistoryRepo = newBalanceHistoryRepositoryWithTx(tx)
	u.gameOutcomeRepo = newGameOutcomeRepositoryWithTx(tx)
	u.referralRepo = newReferralRepositoryWithTx(tx)
	u.notificationRepo = newNotificationRepositoryWithTx(tx)
	u.auditRepo = newAuditRepositoryWithTx(tx)
	u.chatRepo = newChatRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and then flushes the events buffered during it
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// The transaction is durable at this point, a failed flush only loses events
	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithError(err).Error("failed to flush events after commit")
		}
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// LedgerEntryRepository returns the ledger entry repository for this unit of work
func (u *unitOfWork) LedgerEntryRepository() interfaces.LedgerEntryRepository {
	if u.ledgerEntryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ledgerEntryRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistoryRepo
}

// GameOutcomeRepository returns the game outcome repository for this unit of work
func (u *unitOfWork) GameOutcomeRepository() interfaces.GameOutcomeRepository {
	if u.gameOutcomeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameOutcomeRepo
}

// ReferralRepository returns the referral repository for this unit of work
func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	if u.referralRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.referralRepo
}

// NotificationRepository returns the notification repository for this unit of work
func (u *unitOfWork) NotificationRepository() interfaces.NotificationRepository {
	if u.notificationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.notificationRepo
}

// AuditRepository returns the audit repository for this unit of work
func (u *unitOfWork) AuditRepository() interfaces.AuditRepository {
	if u.auditRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.auditRepo
}

// ChatRepository returns the chat repository for this unit of work
func (u *unitOfWork) ChatRepository() interfaces.ChatRepository {
	if u.chatRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.chatRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
