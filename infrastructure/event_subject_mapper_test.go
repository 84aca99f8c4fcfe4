package infrastructure

import (
	"testing"

	"arcade/domain/events"

	"github.com/stretchr/testify/assert"
)

func TestEventSubjectMapper(t *testing.T) {
	mapper := NewEventSubjectMapper()

	tests := []struct {
		event   events.Event
		subject string
	}{
		{events.BalanceChangeEvent{}, "arcade.accounts.balance_changed"},
		{events.LedgerEntryCreatedEvent{}, "arcade.ledger.entry_created"},
		{events.LedgerEntryResolvedEvent{}, "arcade.ledger.entry_resolved"},
		{events.AdminActionEvent{}, "arcade.admin.action"},
		{events.ChatMessageSentEvent{}, "arcade.chat.message_sent"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event.Type()), func(t *testing.T) {
			subject := mapper.MapEventToSubject(tt.event)
			assert.Equal(t, tt.subject, subject)
			assert.Equal(t, tt.event.Type(), mapper.MapSubjectToEventType(subject))
		})
	}

	for _, subject := range subjectsByEventType {
		assert.Regexp(t, `^arcade\.`, subject, "every subject must be captured by the domain stream")
	}
	assert.Equal(t, []string{"arcade.>"}, mapper.GetAllSubjects())
	assert.Equal(t, "chat.room.USER_100000-USER_200000", ChatRoomSubject("USER_100000-USER_200000"))
}
