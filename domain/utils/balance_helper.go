package utils

import (
	"context"
	"fmt"

	"arcade/domain/entities"
	"arcade/domain/events"
	"arcade/domain/interfaces"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// BalanceChange describes one mutation of an account balance
type BalanceChange struct {
	AccountID       int64
	Amount          decimal.Decimal
	AllowNegative   bool
	TransactionType entities.TransactionType
	Metadata        map[string]any
	RelatedType     entities.RelatedType
	RelatedID       int64
}

// ApplyBalanceChange adjusts the balance through the account store and records the change.
// The caller must hold the account serialised for the duration of its transaction.
func ApplyBalanceChange(
	ctx context.Context,
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
	change BalanceChange,
) (*entities.BalanceHistory, error) {
	if change.Amount.IsZero() {
		return nil, fmt.Errorf("%w: balance change cannot be zero", entities.ErrInvalidAmount)
	}

	newBalance, err := accountRepo.AdjustBalance(ctx, change.AccountID, change.Amount, change.AllowNegative)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust balance: %w", err)
	}

	history := &entities.BalanceHistory{
		AccountID:           change.AccountID,
		BalanceBefore:       newBalance.Sub(change.Amount),
		BalanceAfter:        newBalance,
		ChangeAmount:        change.Amount,
		TransactionType:     change.TransactionType,
		TransactionMetadata: change.Metadata,
	}
	if change.RelatedType != "" {
		history.RelatedTo(change.RelatedType, change.RelatedID)
	}

	if err := RecordBalanceChange(ctx, balanceHistoryRepo, eventPublisher, history); err != nil {
		return nil, err
	}
	return history, nil
}

// RecordBalanceChange records a balance history entry and emits appropriate events.
// This is the single entry point for all balance history in the system.
func RecordBalanceChange(ctx context.Context, balanceHistoryRepo interfaces.BalanceHistoryRepository, eventPublisher interfaces.EventPublisher, history *entities.BalanceHistory) error {
	if history.TransactionMetadata == nil {
		history.TransactionMetadata = map[string]any{}
	}

	if err := balanceHistoryRepo.Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	event := events.BalanceChangeEvent{
		AccountID:       history.AccountID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		ChangeAmount:    history.ChangeAmount,
		TransactionType: history.TransactionType,
	}
	log.WithFields(log.Fields{
		"accountID":       event.AccountID,
		"oldBalance":      event.OldBalance.String(),
		"newBalance":      event.NewBalance.String(),
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount.String(),
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	// Also emit account created event for the starter grant
	if history.TransactionType == entities.TransactionTypeStarterGrant {
		username, _ := history.TransactionMetadata["username"].(string)
		publicID, _ := history.TransactionMetadata["public_id"].(string)
		if username != "" {
			created := events.AccountCreatedEvent{
				AccountID:      history.AccountID,
				PublicID:       publicID,
				Username:       username,
				InitialBalance: history.BalanceAfter,
			}
			if err := eventPublisher.Publish(created); err != nil {
				log.WithError(err).Error("Failed to publish account created event")
			}
		}
	}

	return nil
}

// Notify queues a user-facing notification through the event bus
func Notify(eventPublisher interfaces.EventPublisher, accountID int64, format string, args ...any) {
	event := events.NotificationRequestedEvent{
		AccountID: accountID,
		Message:   fmt.Sprintf(format, args...),
	}
	if err := eventPublisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"error":     err,
		}).Error("Failed to publish notification request")
	}
}
