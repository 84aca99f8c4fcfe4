package services

import (
	"context"
	"fmt"
	"time"

	"arcade/domain/entities"
	"arcade/domain/events"
	"arcade/domain/interfaces"
	"arcade/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type reconciliationService struct {
	accountRepo        interfaces.AccountRepository
	ledgerRepo         interfaces.LedgerEntryRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
	now                func() time.Time
}

// NewReconciliationService creates a service resolving pending ledger entries.
// Authorization is the caller's concern.
func NewReconciliationService(
	accountRepo interfaces.AccountRepository,
	ledgerRepo interfaces.LedgerEntryRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.ReconciliationService {
	return &reconciliationService{
		accountRepo:        accountRepo,
		ledgerRepo:         ledgerRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
		now:                time.Now,
	}
}

// Approve resolves a pending entry as approved. Deposits credit the net amount.
func (s *reconciliationService) Approve(ctx context.Context, entryID, resolverID int64) (*entities.LedgerEntry, error) {
	return s.resolve(ctx, entryID, resolverID, entities.LedgerEntryStatusApproved)
}

// Reject resolves a pending entry as rejected. Withdrawals refund the gross amount.
func (s *reconciliationService) Reject(ctx context.Context, entryID, resolverID int64) (*entities.LedgerEntry, error) {
	return s.resolve(ctx, entryID, resolverID, entities.LedgerEntryStatusRejected)
}

func (s *reconciliationService) resolve(ctx context.Context, entryID, resolverID int64, target entities.LedgerEntryStatus) (*entities.LedgerEntry, error) {
	entry, err := s.ledgerRepo.GetByIDForUpdate(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrEntryNotFound, entryID)
	}

	if err := entry.Resolve(target, resolverID, s.now()); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, entry.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, entry.AccountID)
	}

	if err := s.ledgerRepo.MarkResolved(ctx, entry); err != nil {
		return nil, err
	}

	switch {
	case target == entities.LedgerEntryStatusApproved && entry.IsDeposit():
		if err := s.applyEntryChange(ctx, entry, entry.Net, entities.TransactionTypeDeposit); err != nil {
			return nil, err
		}
		utils.Notify(s.eventPublisher, entry.AccountID,
			"Your deposit of %s was approved. %s has been credited.",
			utils.FormatMoney(entry.Gross), utils.FormatMoney(entry.Net))
	case target == entities.LedgerEntryStatusRejected && entry.IsWithdrawal():
		if err := s.applyEntryChange(ctx, entry, entry.Gross, entities.TransactionTypeWithdrawalRefund); err != nil {
			return nil, err
		}
		utils.Notify(s.eventPublisher, entry.AccountID,
			"Your withdrawal of %s was rejected and refunded.", utils.FormatMoney(entry.Gross))
	case entry.IsDeposit():
		utils.Notify(s.eventPublisher, entry.AccountID,
			"Your deposit of %s was rejected.", utils.FormatMoney(entry.Gross))
	default:
		utils.Notify(s.eventPublisher, entry.AccountID,
			"Your withdrawal of %s was approved. %s is on its way.",
			utils.FormatMoney(entry.Gross), utils.FormatMoney(entry.Net))
	}

	if err := s.eventPublisher.Publish(events.LedgerEntryResolvedEvent{
		EntryID:    entry.ID,
		AccountID:  entry.AccountID,
		Kind:       entry.Kind,
		Status:     entry.Status,
		ResolverID: resolverID,
	}); err != nil {
		log.WithError(err).Error("Failed to publish ledger entry resolved event")
	}

	log.WithFields(log.Fields{
		"entryID":    entry.ID,
		"accountID":  entry.AccountID,
		"kind":       entry.Kind,
		"status":     entry.Status,
		"resolverID": resolverID,
	}).Info("Ledger entry resolved")

	return entry, nil
}

// applyEntryChange credits the account for a resolved entry.
// Game losses can leave the balance negative, so credits bypass the guard.
func (s *reconciliationService) applyEntryChange(ctx context.Context, entry *entities.LedgerEntry, amount decimal.Decimal, transactionType entities.TransactionType) error {
	_, err := utils.ApplyBalanceChange(ctx, s.accountRepo, s.balanceHistoryRepo, s.eventPublisher, utils.BalanceChange{
		AccountID:       entry.AccountID,
		Amount:          amount,
		AllowNegative:   true,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"entry_id":  entry.ID,
			"reference": entry.Reference,
		},
		RelatedType: entities.RelatedTypeLedgerEntry,
		RelatedID:   entry.ID,
	})
	return err
}
