package events

import (
	"arcade/domain/entities"

	"github.com/shopspring/decimal"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange         EventType = "balance_change"
	EventTypeAccountCreated        EventType = "account_created"
	EventTypeLedgerEntryCreated    EventType = "ledger_entry_created"
	EventTypeLedgerEntryResolved   EventType = "ledger_entry_resolved"
	EventTypeGameOutcomeRecorded   EventType = "game_outcome_recorded"
	EventTypeLevelUp               EventType = "level_up"
	EventTypeNotificationRequested EventType = "notification_requested"
	EventTypeAdminAction           EventType = "admin_action"
	EventTypeChatMessageSent       EventType = "chat_message_sent"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       int64                    `json:"account_id"`
	OldBalance      decimal.Decimal          `json:"old_balance"`
	NewBalance      decimal.Decimal          `json:"new_balance"`
	ChangeAmount    decimal.Decimal          `json:"change_amount"`
	TransactionType entities.TransactionType `json:"transaction_type"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent is emitted once a signup commits
type AccountCreatedEvent struct {
	AccountID      int64           `json:"account_id"`
	PublicID       string          `json:"public_id"`
	Username       string          `json:"username"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// LedgerEntryCreatedEvent is emitted when a deposit or withdrawal request is logged
type LedgerEntryCreatedEvent struct {
	EntryID   int64                    `json:"entry_id"`
	AccountID int64                    `json:"account_id"`
	Kind      entities.LedgerEntryKind `json:"kind"`
	Gross     decimal.Decimal          `json:"gross"`
	Net       decimal.Decimal          `json:"net"`
}

func (e LedgerEntryCreatedEvent) Type() EventType {
	return EventTypeLedgerEntryCreated
}

// LedgerEntryResolvedEvent is emitted when reconciliation approves or rejects an entry
type LedgerEntryResolvedEvent struct {
	EntryID    int64                      `json:"entry_id"`
	AccountID  int64                      `json:"account_id"`
	Kind       entities.LedgerEntryKind   `json:"kind"`
	Status     entities.LedgerEntryStatus `json:"status"`
	ResolverID int64                      `json:"resolver_id"`
}

func (e LedgerEntryResolvedEvent) Type() EventType {
	return EventTypeLedgerEntryResolved
}

// GameOutcomeRecordedEvent is emitted after a round has been applied to an account
type GameOutcomeRecordedEvent struct {
	RecordID     int64           `json:"record_id"`
	AccountID    int64           `json:"account_id"`
	GameKind     string          `json:"game_kind"`
	Win          bool            `json:"win"`
	BalanceDelta decimal.Decimal `json:"balance_delta"`
}

func (e GameOutcomeRecordedEvent) Type() EventType {
	return EventTypeGameOutcomeRecorded
}

// LevelUpEvent is emitted once per level gained
type LevelUpEvent struct {
	AccountID int64           `json:"account_id"`
	NewLevel  int64           `json:"new_level"`
	Bonus     decimal.Decimal `json:"bonus"`
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// NotificationRequestedEvent asks the notification sink to deliver a message
type NotificationRequestedEvent struct {
	AccountID int64  `json:"account_id"`
	Message   string `json:"message"`
}

func (e NotificationRequestedEvent) Type() EventType {
	return EventTypeNotificationRequested
}

// AdminActionEvent mirrors a persisted audit record for external consumers
type AdminActionEvent struct {
	AuditRecordID   int64                `json:"audit_record_id"`
	ActorAccountID  *int64               `json:"actor_account_id,omitempty"`
	Action          entities.AuditAction `json:"action"`
	Source          entities.AuditSource `json:"source"`
	TargetAccountID *int64               `json:"target_account_id,omitempty"`
	Summary         string               `json:"summary"`
}

func (e AdminActionEvent) Type() EventType {
	return EventTypeAdminAction
}

// ChatMessageSentEvent carries an accepted chat message to the relay
type ChatMessageSentEvent struct {
	MessageID         int64  `json:"message_id"`
	Room              string `json:"room"`
	SenderPublicID    string `json:"from"`
	RecipientPublicID string `json:"to"`
	Text              string `json:"text"`
	MediaKey          string `json:"media,omitempty"`
}

func (e ChatMessageSentEvent) Type() EventType {
	return EventTypeChatMessageSent
}
