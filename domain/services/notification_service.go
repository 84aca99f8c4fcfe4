package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const defaultNotificationLimit = 50

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo interfaces.NotificationRepository) interfaces.NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) Deliver(ctx context.Context, accountID int64, message string) (*entities.Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: notification message is empty", entities.ErrInvalidInput)
	}

	notification := &entities.Notification{
		AccountID: accountID,
		Message:   message,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// List returns the newest notifications and marks every notification of the account read
func (s *notificationService) List(ctx context.Context, accountID int64, limit int) ([]*entities.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	notifications, err := s.notificationRepo.ListByAccount(ctx, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	if _, err := s.notificationRepo.MarkAllRead(ctx, accountID); err != nil {
		return nil, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, accountID int64) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := s.notificationRepo.DeleteReadBefore(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge notifications: %w", err)
	}
	if deleted > 0 {
		log.WithFields(log.Fields{
			"deleted": deleted,
			"before":  before,
		}).Info("Purged read notifications")
	}
	return deleted, nil
}
