package services

import (
	"context"
	"fmt"

	"arcade/domain/entities"
	"arcade/domain/events"
	"arcade/domain/interfaces"
	"arcade/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type adminService struct {
	accountRepo        interfaces.AccountRepository
	ledgerRepo         interfaces.LedgerEntryRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	auditRepo          interfaces.AuditRepository
	chatRepo           interfaces.ChatRepository
	eventPublisher     interfaces.EventPublisher
	reconciliation     interfaces.ReconciliationService
}

// NewAdminService creates the admin reconciliation service.
// Every privileged operation is authorized against the actor and leaves an audit record.
func NewAdminService(
	accountRepo interfaces.AccountRepository,
	ledgerRepo interfaces.LedgerEntryRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	auditRepo interfaces.AuditRepository,
	chatRepo interfaces.ChatRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.AdminService {
	return &adminService{
		accountRepo:        accountRepo,
		ledgerRepo:         ledgerRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		auditRepo:          auditRepo,
		chatRepo:           chatRepo,
		eventPublisher:     eventPublisher,
		reconciliation:     NewReconciliationService(accountRepo, ledgerRepo, balanceHistoryRepo, eventPublisher),
	}
}

// Authorize loads the actor and checks it holds the admin capability
func (s *adminService) Authorize(ctx context.Context, actor interfaces.AdminActor) (*entities.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, actor.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get actor account: %w", err)
	}

	authorization := AuthorizeCapability(account, entities.CapabilityAdmin)
	if !authorization.Granted {
		log.WithFields(log.Fields{
			"actorID": actor.AccountID,
			"source":  actor.Source,
			"reason":  authorization.Reason,
		}).Warn("Admin operation denied")
		return nil, authorization.Err()
	}
	return account, nil
}

// ToggleBan flips the banned flag of the target account
func (s *adminService) ToggleBan(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64) (*entities.Account, error) {
	if _, err := s.Authorize(ctx, actor); err != nil {
		return nil, err
	}

	target, err := s.lockTarget(ctx, targetAccountID)
	if err != nil {
		return nil, err
	}

	banned := !target.Banned
	action := entities.AuditActionUnban
	if banned {
		action = entities.AuditActionBan
	}

	return s.setBanned(ctx, &actor.AccountID, actor.Source, target, banned, action, map[string]any{
		"username": target.Username,
	})
}

// SystemBan bans an account on behalf of automated moderation. Already banned accounts are left alone.
func (s *adminService) SystemBan(ctx context.Context, targetAccountID int64, reason string) (*entities.Account, error) {
	target, err := s.lockTarget(ctx, targetAccountID)
	if err != nil {
		return nil, err
	}
	if target.Banned {
		return target, nil
	}

	return s.setBanned(ctx, nil, entities.AuditSourceSystem, target, true, entities.AuditActionBan, map[string]any{
		"username": target.Username,
		"reason":   reason,
	})
}

// OverrideBalance sets the target balance directly. The difference is recorded as an admin override.
func (s *adminService) OverrideBalance(ctx context.Context, actor interfaces.AdminActor, targetAccountID int64, balance decimal.Decimal) (*entities.Account, error) {
	if !utils.IsMoneyPrecision(balance) {
		return nil, fmt.Errorf("%w: %s has more than %d decimal places", entities.ErrInvalidAmount, balance, entities.MoneyDecimalPlaces)
	}

	if _, err := s.Authorize(ctx, actor); err != nil {
		return nil, err
	}

	target, err := s.lockTarget(ctx, targetAccountID)
	if err != nil {
		return nil, err
	}

	previous := target.Balance
	delta := balance.Sub(previous)

	record, err := s.audit(ctx, &entities.AuditRecord{
		ActorAccountID:  &actor.AccountID,
		Action:          entities.AuditActionBalanceOverride,
		Source:          actor.Source,
		TargetAccountID: &target.ID,
		Details: map[string]any{
			"previous_balance": previous.String(),
			"new_balance":      balance.String(),
			"delta":            delta.String(),
		},
	}, fmt.Sprintf("balance of %s set to %s", target.Username, utils.FormatMoney(balance)))
	if err != nil {
		return nil, err
	}

	// An override to the current balance changes nothing but is still audited
	if !delta.IsZero() {
		history, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
			AccountID:       target.ID,
			Amount:          delta,
			AllowNegative:   true,
			TransactionType: entities.TransactionTypeAdminOverride,
			Metadata: map[string]any{
				"actor_account_id": actor.AccountID,
				"source":           string(actor.Source),
			},
			RelatedType: entities.RelatedTypeAuditRecord,
			RelatedID:   record.ID,
		})
		if err != nil {
			return nil, err
		}
		target.Balance = history.BalanceAfter
		utils.Notify(s.eventPublisher, target.ID, "An administrator set your balance to %s.", utils.FormatMoney(balance))
	}

	return target, nil
}

// ApproveEntry approves a pending ledger entry
func (s *adminService) ApproveEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error) {
	if _, err := s.Authorize(ctx, actor); err != nil {
		return nil, err
	}

	entry, err := s.reconciliation.Approve(ctx, entryID, actor.AccountID)
	if err != nil {
		return nil, err
	}

	if err := s.auditEntry(ctx, actor, entities.AuditActionApproveEntry, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RejectEntry rejects a pending ledger entry
func (s *adminService) RejectEntry(ctx context.Context, actor interfaces.AdminActor, entryID int64) (*entities.LedgerEntry, error) {
	if _, err := s.Authorize(ctx, actor); err != nil {
		return nil, err
	}

	entry, err := s.reconciliation.Reject(ctx, entryID, actor.AccountID)
	if err != nil {
		return nil, err
	}

	if err := s.auditEntry(ctx, actor, entities.AuditActionRejectEntry, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteChatMessage removes a chat message
func (s *adminService) DeleteChatMessage(ctx context.Context, actor interfaces.AdminActor, messageID int64) error {
	if _, err := s.Authorize(ctx, actor); err != nil {
		return err
	}

	message, err := s.chatRepo.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to get chat message: %w", err)
	}
	if message == nil {
		return fmt.Errorf("%w: %d", entities.ErrChatMessageNotFound, messageID)
	}

	if err := s.chatRepo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete chat message: %w", err)
	}

	_, err = s.audit(ctx, &entities.AuditRecord{
		ActorAccountID:  &actor.AccountID,
		Action:          entities.AuditActionDeleteChat,
		Source:          actor.Source,
		TargetAccountID: &message.SenderAccountID,
		TargetChatID:    &message.ID,
		Details: map[string]any{
			"room": message.Room,
			"text": message.Text,
		},
	}, fmt.Sprintf("chat message %d deleted from %s", message.ID, message.Room))
	return err
}

func (s *adminService) setBanned(
	ctx context.Context,
	actorID *int64,
	source entities.AuditSource,
	target *entities.Account,
	banned bool,
	action entities.AuditAction,
	details map[string]any,
) (*entities.Account, error) {
	if err := s.accountRepo.SetFlag(ctx, target.ID, entities.AccountFlagBanned, banned); err != nil {
		return nil, fmt.Errorf("failed to set banned flag: %w", err)
	}
	target.Banned = banned

	if _, err := s.audit(ctx, &entities.AuditRecord{
		ActorAccountID:  actorID,
		Action:          action,
		Source:          source,
		TargetAccountID: &target.ID,
		Details:         details,
	}, fmt.Sprintf("%s %s", action, target.Username)); err != nil {
		return nil, err
	}

	return target, nil
}

func (s *adminService) auditEntry(ctx context.Context, actor interfaces.AdminActor, action entities.AuditAction, entry *entities.LedgerEntry) error {
	_, err := s.audit(ctx, &entities.AuditRecord{
		ActorAccountID:  &actor.AccountID,
		Action:          action,
		Source:          actor.Source,
		TargetAccountID: &entry.AccountID,
		TargetEntryID:   &entry.ID,
		Details: map[string]any{
			"kind":  string(entry.Kind),
			"gross": entry.Gross.String(),
			"net":   entry.Net.String(),
		},
	}, fmt.Sprintf("%s entry %d resolved as %s", entry.Kind, entry.ID, entry.Status))
	return err
}

// audit persists the record and mirrors it on the event bus
func (s *adminService) audit(ctx context.Context, record *entities.AuditRecord, summary string) (*entities.AuditRecord, error) {
	if err := s.auditRepo.Record(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record audit trail: %w", err)
	}

	if err := s.eventPublisher.Publish(events.AdminActionEvent{
		AuditRecordID:   record.ID,
		ActorAccountID:  record.ActorAccountID,
		Action:          record.Action,
		Source:          record.Source,
		TargetAccountID: record.TargetAccountID,
		Summary:         summary,
	}); err != nil {
		log.WithError(err).Error("Failed to publish admin action event")
	}

	log.WithFields(log.Fields{
		"auditID": record.ID,
		"action":  record.Action,
		"source":  record.Source,
	}).Info(summary)

	return record, nil
}

func (s *adminService) lockTarget(ctx context.Context, accountID int64) (*entities.Account, error) {
	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, accountID)
	}
	return account, nil
}
