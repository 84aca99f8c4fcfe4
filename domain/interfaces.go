package domain

import (
	"context"

	"arcade/domain/events"
)

// MessageHandler defines the interface for handling raw messages from infrastructure
// This allows infrastructure to process messages without knowing about application specifics
type MessageHandler interface {
	HandleMessage(ctx context.Context, subject string, data []byte) error
}

// EventHandler reacts to a published domain event in-process
type EventHandler func(ctx context.Context, event events.Event) error

// EventSubscriber registers in-process handlers for domain events
type EventSubscriber interface {
	RegisterLocalHandler(eventType events.EventType, handler EventHandler)
}
