package infrastructure

import (
	"context"
	"fmt"
	"time"

	"arcade/domain"
	"arcade/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// OutcomeListener consumes game outcomes reported by external generators
type OutcomeListener struct {
	client  *NATSClient
	handler domain.MessageHandler
}

// NewOutcomeListener creates a listener delivering messages to handler
func NewOutcomeListener(client *NATSClient, handler domain.MessageHandler) *OutcomeListener {
	return &OutcomeListener{client: client, handler: handler}
}

// Start makes sure the outcome stream exists and subscribes to it
func (l *OutcomeListener) Start() error {
	if err := l.client.EnsureGameOutcomeStream(); err != nil {
		return fmt.Errorf("failed to ensure game outcome stream: %w", err)
	}

	if err := l.client.Subscribe(GameOutcomeSubjects, l.handle); err != nil {
		return fmt.Errorf("failed to subscribe to game outcomes: %w", err)
	}

	log.WithField("subjects", GameOutcomeSubjects).Info("Listening for game outcomes")
	return nil
}

func (l *OutcomeListener) handle(ctx context.Context, subject string, data []byte) error {
	start := time.Now()
	err := l.handler.HandleMessage(ctx, subject, data)

	observability.GetMetrics().RecordNATSMessageReceived(subject)
	log.WithFields(log.Fields{
		"subject":  subject,
		"duration": time.Since(start),
		"error":    err,
	}).Debug("Processed game outcome message")

	return err
}
