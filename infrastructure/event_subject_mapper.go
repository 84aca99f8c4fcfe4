package infrastructure

import (
	"fmt"

	"arcade/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

var subjectsByEventType = map[events.EventType]string{
	events.EventTypeBalanceChange:         "arcade.accounts.balance_changed",
	events.EventTypeAccountCreated:        "arcade.accounts.created",
	events.EventTypeLedgerEntryCreated:    "arcade.ledger.entry_created",
	events.EventTypeLedgerEntryResolved:   "arcade.ledger.entry_resolved",
	events.EventTypeGameOutcomeRecorded:   "arcade.games.recorded",
	events.EventTypeLevelUp:               "arcade.accounts.level_up",
	events.EventTypeNotificationRequested: "arcade.notifications.requested",
	events.EventTypeAdminAction:           "arcade.admin.action",
	events.EventTypeChatMessageSent:       "arcade.chat.message_sent",
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByEventType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("arcade.unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByEventType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{"arcade.>"}
}

// ChatRoomSubject is the core NATS subject a chat room is relayed on
func ChatRoomSubject(room string) string {
	return "chat.room." + room
}
