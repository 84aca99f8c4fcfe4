package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"arcade/domain/events"

	log "github.com/sirupsen/logrus"
)

// NATSChatRelay pushes accepted chat messages to live subscribers of a room.
// Delivery is best effort over core NATS; history is served from the database.
type NATSChatRelay struct {
	client *NATSClient
}

// NewNATSChatRelay creates a relay. A nil client disables live delivery.
func NewNATSChatRelay(client *NATSClient) *NATSChatRelay {
	return &NATSChatRelay{client: client}
}

// HandleEvent is registered as a local handler for chat message events
func (r *NATSChatRelay) HandleEvent(ctx context.Context, event events.Event) error {
	sent, ok := event.(events.ChatMessageSentEvent)
	if !ok {
		return fmt.Errorf("chat relay received %s event", event.Type())
	}
	if r.client == nil {
		return nil
	}

	data, err := json.Marshal(sent)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	if err := r.client.PublishCore(ChatRoomSubject(sent.Room), data); err != nil {
		return fmt.Errorf("failed to relay chat message %d: %w", sent.MessageID, err)
	}

	log.WithFields(log.Fields{
		"messageID": sent.MessageID,
		"room":      sent.Room,
	}).Debug("Relayed chat message")
	return nil
}
