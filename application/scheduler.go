package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/domain/services"
	"arcade/infrastructure/observability"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

const (
	// NotificationRetention is how long read notifications are kept
	NotificationRetention = 30 * 24 * time.Hour

	purgeInterval         = time.Hour
	pendingReportInterval = 5 * time.Minute
)

// Scheduler runs the periodic housekeeping jobs
type Scheduler struct {
	scheduler  gocron.Scheduler
	uowFactory interfaces.UnitOfWorkFactory
	alerts     interfaces.AlertSink
	threshold  int64
	timeout    time.Duration
	now        func() time.Time

	mu       sync.Mutex
	alerting bool
}

// NewScheduler creates the job scheduler. Backlogs above threshold raise an operator alert.
func NewScheduler(uowFactory interfaces.UnitOfWorkFactory, alerts interfaces.AlertSink, threshold int64, timeout time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		scheduler:  s,
		uowFactory: uowFactory,
		alerts:     alerts,
		threshold:  threshold,
		timeout:    timeout,
		now:        time.Now,
	}, nil
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(purgeInterval),
		gocron.NewTask(func() {
			if _, err := s.PurgeNotifications(ctx); err != nil {
				log.WithError(err).Error("Failed to purge notifications")
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule notification purge: %w", err)
	}

	_, err = s.scheduler.NewJob(
		gocron.DurationJob(pendingReportInterval),
		gocron.NewTask(func() {
			if _, err := s.ReportPending(ctx); err != nil {
				log.WithError(err).Error("Failed to report pending entries")
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule pending report: %w", err)
	}

	s.scheduler.Start()
	log.Info("Scheduler started")
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// PurgeNotifications deletes read notifications older than the retention period
func (s *Scheduler) PurgeNotifications(ctx context.Context) (int64, error) {
	var deleted int64
	err := withUnitOfWork(ctx, s.uowFactory, s.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		deleted, err = services.NewNotificationService(uow.NotificationRepository()).PurgeRead(ctx, s.now().Add(-NotificationRetention))
		return err
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		log.WithField("deleted", deleted).Info("Purged read notifications")
	}
	return deleted, nil
}

// ReportPending publishes the reconciliation backlog and alerts once when it crosses the threshold
func (s *Scheduler) ReportPending(ctx context.Context) (int64, error) {
	var pending int64
	err := withUnitOfWork(ctx, s.uowFactory, s.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		pending, err = uow.LedgerEntryRepository().CountByStatus(ctx, entities.LedgerEntryStatusPending)
		return err
	})
	if err != nil {
		return 0, err
	}

	observability.GetMetrics().SetPendingEntries(pending)

	s.mu.Lock()
	over := s.threshold > 0 && pending > s.threshold
	raise := over && !s.alerting
	s.alerting = over
	s.mu.Unlock()

	if raise && s.alerts != nil {
		message := fmt.Sprintf("%d ledger entries are waiting for review (threshold %d)", pending, s.threshold)
		if err := s.alerts.Alert(ctx, message); err != nil {
			log.WithError(err).Error("Failed to send pending entries alert")
		}
	}

	log.WithField("pending", pending).Debug("Reported pending ledger entries")
	return pending, nil
}
