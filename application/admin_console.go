package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/infrastructure/observability"

	"github.com/shopspring/decimal"
)

// AdminConsole runs privileged operations for the HTTP console and the CLI.
// Operations touching a balance hold the target account's lock.
type AdminConsole struct {
	uowFactory interfaces.UnitOfWorkFactory
	locker     *AccountLocker
	timeout    time.Duration
}

// NewAdminConsole creates the admin console
func NewAdminConsole(uowFactory interfaces.UnitOfWorkFactory, locker *AccountLocker, timeout time.Duration) *AdminConsole {
	return &AdminConsole{
		uowFactory: uowFactory,
		locker:     locker,
		timeout:    timeout,
	}
}

// ActorByUsername resolves and authorizes the admin behind a username
func (c *AdminConsole) ActorByUsername(ctx context.Context, username string, source entities.AuditSource) (interfaces.AdminActor, error) {
	var actor interfaces.AdminActor
	err := withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		account, err := uow.AccountRepository().GetByUsername(ctx, strings.TrimSpace(username))
		if err != nil {
			return fmt.Errorf("failed to get admin account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("%w: %s", entities.ErrAccountNotFound, username)
		}
		actor = interfaces.AdminActor{AccountID: account.ID, Source: source}
		_, err = adminServiceFor(uow).Authorize(ctx, actor)
		return err
	})
	return actor, err
}

// ToggleBan flips the banned flag of an account
func (c *AdminConsole) ToggleBan(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64) (*entities.Account, error) {
	unlock := c.locker.Lock(targetAccountID)
	defer unlock()

	var account *entities.Account
	err := withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = adminServiceFor(uow).ToggleBan(ctx, actor, targetAccountID)
		return err
	})
	return account, err
}

// SystemBan bans an account for automated moderation
func (c *AdminConsole) SystemBan(ctx context.Context, targetAccountID int64, reason string) (*entities.Account, error) {
	unlock := c.locker.Lock(targetAccountID)
	defer unlock()

	var account *entities.Account
	err := withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = adminServiceFor(uow).SystemBan(ctx, targetAccountID, reason)
		return err
	})
	return account, err
}

// OverrideBalance sets an account balance directly
func (c *AdminConsole) OverrideBalance(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64, balance decimal.Decimal) (*entities.Account, error) {
	unlock := c.locker.Lock(targetAccountID)
	defer unlock()

	var account *entities.Account
	err := withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = adminServiceFor(uow).OverrideBalance(ctx, actor, targetAccountID, balance)
		return err
	})
	observability.GetMetrics().RecordLedgerOperation(observability.OperationAdminOverride, err)
	return account, err
}

// ApproveEntry approves a pending ledger entry
func (c *AdminConsole) ApproveEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error) {
	entry, err := c.resolveEntry(ctx, entryID, func(ctx context.Context, svc interfaces.AdminService) (*entities.LedgerEntry, error) {
		return svc.ApproveEntry(ctx, actor, entryID)
	})
	observability.GetMetrics().RecordLedgerOperation(observability.OperationApprove, err)
	return entry, err
}

// RejectEntry rejects a pending ledger entry, refunding withdrawals
func (c *AdminConsole) RejectEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error) {
	entry, err := c.resolveEntry(ctx, entryID, func(ctx context.Context, svc interfaces.AdminService) (*entities.LedgerEntry, error) {
		return svc.RejectEntry(ctx, actor, entryID)
	})
	observability.GetMetrics().RecordLedgerOperation(observability.OperationReject, err)
	return entry, err
}

// resolveEntry looks up the entry's owner first so the owner's lock is held for the resolution
func (c *AdminConsole) resolveEntry(
	ctx context.Context,
	entryID int64,
	fn func(ctx context.Context, svc interfaces.AdminService) (*entities.LedgerEntry, error),
) (*entities.LedgerEntry, error) {
	var owner int64
	err := withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		entry, err := uow.LedgerEntryRepository().GetByID(ctx, entryID)
		if err != nil {
			return fmt.Errorf("failed to get ledger entry: %w", err)
		}
		if entry == nil {
			return fmt.Errorf("%w: %d", entities.ErrEntryNotFound, entryID)
		}
		owner = entry.AccountID
		return nil
	})
	if err != nil {
		return nil, err
	}

	unlock := c.locker.Lock(owner)
	defer unlock()

	var entry *entities.LedgerEntry
	err = withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		entry, err = fn(ctx, adminServiceFor(uow))
		return err
	})
	return entry, err
}

// DeleteChatMessage removes a chat message
func (c *AdminConsole) DeleteChatMessage(ctx context.Context, actor interfaces.AdminActor, messageID int64) error {
	return withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		return adminServiceFor(uow).DeleteChatMessage(ctx, actor, messageID)
	})
}

// Accounts lists accounts ordered by ID
func (c *AdminConsole) Accounts(ctx context.Context, actor interfaces.AdminActor, limit, offset int) ([]*entities.Account, error) {
	var accounts []*entities.Account
	err := c.view(ctx, actor, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		accounts, err = uow.AccountRepository().List(ctx, limit, offset)
		return err
	})
	return accounts, err
}

// FindAccount returns an account by public ID
func (c *AdminConsole) FindAccount(ctx context.Context, actor interfaces.AdminActor, publicID string) (*entities.Account, error) {
	var account *entities.Account
	err := c.view(ctx, actor, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByPublicID(ctx, strings.TrimSpace(publicID))
		if err != nil {
			return fmt.Errorf("failed to get account: %w", err)
		}
		if account == nil {
			return fmt.Errorf("%w: %s", entities.ErrAccountNotFound, publicID)
		}
		return nil
	})
	return account, err
}

// PendingEntries lists entries awaiting reconciliation, oldest first
func (c *AdminConsole) PendingEntries(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry
	err := c.view(ctx, actor, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		entries, err = uow.LedgerEntryRepository().ListByStatus(ctx, entities.LedgerEntryStatusPending, limit)
		return err
	})
	return entries, err
}

// AccountEntries lists one account's entries, newest first
func (c *AdminConsole) AccountEntries(ctx context.Context, actor interfaces.AdminActor, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	var entries []*entities.LedgerEntry
	err := c.view(ctx, actor, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		entries, err = uow.LedgerEntryRepository().ListByAccount(ctx, accountID, limit)
		return err
	})
	return entries, err
}

// Chats lists recent chat messages
func (c *AdminConsole) Chats(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.ChatMessage, error) {
	var messages []*entities.ChatMessage
	err := c.view(ctx, actor, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		messages, err = uow.ChatRepository().ListRecent(ctx, limit)
		return err
	})
	return messages, err
}

// GameOutcomes lists recent game rounds
func (c *AdminConsole) GameOutcomes(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.GameOutcomeRecord, error) {
	var records []*entities.GameOutcomeRecord
	err := c.view(ctx, actor, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		records, err = uow.GameOutcomeRepository().ListRecent(ctx, limit)
		return err
	})
	return records, err
}

// AuditTrail lists recent admin actions
func (c *AdminConsole) AuditTrail(ctx context.Context, actor interfaces.AdminActor, limit int) ([]*entities.AuditRecord, error) {
	var records []*entities.AuditRecord
	err := c.view(ctx, actor, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		records, err = uow.AuditRepository().List(ctx, limit)
		return err
	})
	return records, err
}

// view authorizes the actor and runs a read inside the same transaction
func (c *AdminConsole) view(ctx context.Context, actor interfaces.AdminActor, read func(ctx context.Context, uow interfaces.UnitOfWork) error) error {
	return withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		if _, err := adminServiceFor(uow).Authorize(ctx, actor); err != nil {
			return err
		}
		return read(ctx, uow)
	})
}
