package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"arcade/domain/events"
	"arcade/domain/interfaces"
	"arcade/domain/services"
	"arcade/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// ErrNotificationQueueFull is returned when a notification is dropped because the queue is full
var ErrNotificationQueueFull = errors.New("notification queue is full")

type notificationRequest struct {
	accountID int64
	message   string
}

// NotificationDispatcher decouples ledger operations from notification delivery.
// Requests go into a bounded queue drained by one worker; a full queue drops the request.
type NotificationDispatcher struct {
	uowFactory interfaces.UnitOfWorkFactory
	timeout    time.Duration
	queue      chan notificationRequest

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewNotificationDispatcher creates a dispatcher holding at most size requests
func NewNotificationDispatcher(uowFactory interfaces.UnitOfWorkFactory, size int, timeout time.Duration) *NotificationDispatcher {
	if size < 1 {
		size = 1
	}
	return &NotificationDispatcher{
		uowFactory: uowFactory,
		timeout:    timeout,
		queue:      make(chan notificationRequest, size),
		done:       make(chan struct{}),
	}
}

// Enqueue hands a message to the worker without blocking
func (d *NotificationDispatcher) Enqueue(_ context.Context, accountID int64, message string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return fmt.Errorf("%w: dispatcher stopped", ErrNotificationQueueFull)
	}

	select {
	case d.queue <- notificationRequest{accountID: accountID, message: message}:
		return nil
	default:
		observability.GetMetrics().RecordNotificationDropped()
		log.WithFields(log.Fields{
			"accountID": accountID,
			"capacity":  cap(d.queue),
		}).Warn("Notification queue full, dropping notification")
		return ErrNotificationQueueFull
	}
}

// HandleEvent is registered as a local handler for notification requests
func (d *NotificationDispatcher) HandleEvent(ctx context.Context, event events.Event) error {
	requested, ok := event.(events.NotificationRequestedEvent)
	if !ok {
		return fmt.Errorf("notification dispatcher received %s event", event.Type())
	}
	return d.Enqueue(ctx, requested.AccountID, requested.Message)
}

// Start runs the delivery worker until Stop is called
func (d *NotificationDispatcher) Start(ctx context.Context) {
	// Queued notifications are still delivered while shutting down
	deliveryCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(d.done)
		log.WithField("capacity", cap(d.queue)).Info("Notification dispatcher started")

		for request := range d.queue {
			d.deliver(deliveryCtx, request)
		}

		log.Info("Notification dispatcher stopped")
	}()
}

// Stop refuses new requests and waits until the queue is drained
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	if pending := d.Pending(); pending > 0 {
		log.WithField("pending", pending).Info("Draining notification queue")
	}

	<-d.done
}

// Pending returns the number of queued requests
func (d *NotificationDispatcher) Pending() int {
	return len(d.queue)
}

func (d *NotificationDispatcher) deliver(ctx context.Context, request notificationRequest) {
	err := withUnitOfWork(ctx, d.uowFactory, d.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		_, err := services.NewNotificationService(uow.NotificationRepository()).Deliver(ctx, request.accountID, request.message)
		return err
	})
	if err != nil {
		log.WithFields(log.Fields{
			"accountID": request.accountID,
			"error":     err,
		}).Error("Failed to deliver notification")
	}
}
