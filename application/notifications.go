package application

import (
	"context"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/domain/services"
)

// Notifications serves an account's notification inbox
type Notifications struct {
	uowFactory interfaces.UnitOfWorkFactory
	timeout    time.Duration
}

// NewNotifications creates the inbox reader
func NewNotifications(uowFactory interfaces.UnitOfWorkFactory, timeout time.Duration) *Notifications {
	return &Notifications{uowFactory: uowFactory, timeout: timeout}
}

// List returns the newest notifications and marks them all read
func (n *Notifications) List(ctx context.Context, accountID int64, limit int) ([]*entities.Notification, error) {
	var notifications []*entities.Notification
	err := withUnitOfWork(ctx, n.uowFactory, n.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		notifications, err = services.NewNotificationService(uow.NotificationRepository()).List(ctx, accountID, limit)
		return err
	})
	return notifications, err
}

// UnreadCount returns the number of unread notifications
func (n *Notifications) UnreadCount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := withUnitOfWork(ctx, n.uowFactory, n.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		count, err = services.NewNotificationService(uow.NotificationRepository()).UnreadCount(ctx, accountID)
		return err
	})
	return count, err
}
