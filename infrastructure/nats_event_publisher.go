package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"arcade/domain"
	"arcade/domain/events"
	"arcade/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// EventHandler reacts to a published domain event in-process
type EventHandler = domain.EventHandler

// EventEnvelope wraps every event put on the bus
type EventEnvelope struct {
	EventID       string                 `json:"event_id"`
	EventType     string                 `json:"event_type"`
	Timestamp     *timestamppb.Timestamp `json:"timestamp"`
	SourceService string                 `json:"source_service"`
	Payload       json.RawMessage        `json:"payload"`
}

// MarshalJSON writes the timestamp in its protobuf JSON form, an RFC 3339 string in UTC
func (e EventEnvelope) MarshalJSON() ([]byte, error) {
	type plain EventEnvelope

	timestamp := json.RawMessage("null")
	if e.Timestamp != nil {
		encoded, err := protojson.Marshal(e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to encode envelope timestamp: %w", err)
		}
		timestamp = encoded
	}

	return json.Marshal(struct {
		plain
		Timestamp json.RawMessage `json:"timestamp"`
	}{plain: plain(e), Timestamp: timestamp})
}

// NATSEventPublisher runs local handlers for an event and then publishes it to NATS.
// Without a client it only runs the local handlers.
type NATSEventPublisher struct {
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper
	mu            sync.RWMutex
	localHandlers map[events.EventType][]EventHandler
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
		localHandlers: make(map[events.EventType][]EventHandler),
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(event events.Event) error {
	ctx := context.Background()
	eventType := event.Type()

	p.mu.RLock()
	handlers := p.localHandlers[eventType]
	p.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// Local handler errors never block the remaining handlers or the bus
			log.WithFields(log.Fields{
				"eventType": eventType,
				"error":     err,
			}).Error("Local event handler failed")
		}
	}

	if p.natsClient == nil {
		return nil
	}

	subject := p.subjectMapper.MapEventToSubject(event)
	envelopeData, err := NewEnvelope(event)
	if err != nil {
		return err
	}

	if err := p.natsClient.Publish(ctx, subject, envelopeData); err != nil {
		if strings.Contains(err.Error(), "no response from stream") {
			return nil
		}
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	observability.GetMetrics().RecordNATSMessagePublished(string(eventType))
	log.WithFields(log.Fields{
		"eventType": eventType,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// NewEnvelope serialises an event inside its envelope
func NewEnvelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     timestamppb.Now(),
		SourceService: "arcade",
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

// RegisterLocalHandler registers a handler that will be invoked locally for events
func (p *NATSEventPublisher) RegisterLocalHandler(eventType events.EventType, handler EventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(p.localHandlers[eventType]),
	}).Info("Registered local event handler")
}

// EnsureDomainEventStream ensures the domain event stream exists
func (p *NATSEventPublisher) EnsureDomainEventStream() error {
	if p.natsClient == nil {
		return nil
	}
	return p.natsClient.ensureStream(DomainEventStream, p.subjectMapper.GetAllSubjects(), "Arcade domain events")
}
