package interfaces

import (
	"context"

	"arcade/domain/events"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until the surrounding transaction settles
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes every pending event, called after commit
	Flush(ctx context.Context) error

	// Discard drops every pending event, called on rollback
	Discard()
}
