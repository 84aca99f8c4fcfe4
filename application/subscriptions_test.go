package application

import (
	"context"
	"testing"
	"time"

	"arcade/domain"
	"arcade/domain/entities"
	"arcade/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	handlers map[events.EventType]domain.EventHandler
}

func (s *recordingSubscriber) RegisterLocalHandler(eventType events.EventType, handler domain.EventHandler) {
	s.handlers[eventType] = handler
}

func TestRegisterApplicationSubscriptions(t *testing.T) {
	subscriber := &recordingSubscriber{handlers: make(map[events.EventType]domain.EventHandler)}
	dispatcher := NewNotificationDispatcher(newFakeUnitOfWorkFactory(), 4, time.Second)

	var relayed []events.Event
	relay := func(ctx context.Context, event events.Event) error {
		relayed = append(relayed, event)
		return nil
	}

	RegisterApplicationSubscriptions(subscriber, dispatcher, relay)

	require.Contains(t, subscriber.handlers, events.EventTypeNotificationRequested)
	require.Contains(t, subscriber.handlers, events.EventTypeChatMessageSent)
	require.Contains(t, subscriber.handlers, events.EventTypeBalanceChange)

	ctx := context.Background()
	require.NoError(t, subscriber.handlers[events.EventTypeNotificationRequested](ctx, events.NotificationRequestedEvent{AccountID: 1, Message: "hello"}))
	assert.Equal(t, 1, dispatcher.Pending())

	require.NoError(t, subscriber.handlers[events.EventTypeChatMessageSent](ctx, events.ChatMessageSentEvent{MessageID: 9}))
	assert.Len(t, relayed, 1)

	require.NoError(t, subscriber.handlers[events.EventTypeBalanceChange](ctx, events.BalanceChangeEvent{
		AccountID:       1,
		ChangeAmount:    decimal.NewFromInt(5),
		TransactionType: entities.TransactionTypeGameWin,
	}))
}

func TestRegisterApplicationSubscriptions_WithoutRelay(t *testing.T) {
	subscriber := &recordingSubscriber{handlers: make(map[events.EventType]domain.EventHandler)}

	RegisterApplicationSubscriptions(subscriber, NewNotificationDispatcher(newFakeUnitOfWorkFactory(), 1, time.Second), nil)

	assert.NotContains(t, subscriber.handlers, events.EventTypeChatMessageSent)
}
