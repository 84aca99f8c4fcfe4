package application

import (
	"context"

	"arcade/domain"
	"arcade/domain/events"
	"arcade/infrastructure/observability"
)

// RegisterApplicationSubscriptions wires in-process handlers for committed domain events
func RegisterApplicationSubscriptions(
	subscriber domain.EventSubscriber,
	dispatcher *NotificationDispatcher,
	chatRelay domain.EventHandler,
) {
	subscriber.RegisterLocalHandler(events.EventTypeNotificationRequested, dispatcher.HandleEvent)

	if chatRelay != nil {
		subscriber.RegisterLocalHandler(events.EventTypeChatMessageSent, chatRelay)
	}

	subscriber.RegisterLocalHandler(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) error {
		if change, ok := event.(events.BalanceChangeEvent); ok {
			observability.GetMetrics().RecordBalanceTransaction(string(change.TransactionType))
		}
		return nil
	})
}
