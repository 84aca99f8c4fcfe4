package repository

import (
	"context"
	"fmt"
	"time"

	"arcade/database"
	"arcade/domain/entities"
)

// NotificationRepository implements the NotificationRepository interface
type NotificationRepository struct {
	q queryable
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{q: db.Pool}
}

// newNotificationRepositoryWithTx creates a new notification repository with a transaction
func newNotificationRepositoryWithTx(tx queryable) *NotificationRepository {
	return &NotificationRepository{q: tx}
}

// Create stores a notification
func (r *NotificationRepository) Create(ctx context.Context, notification *entities.Notification) error {
	query := `
		INSERT INTO notifications (account_id, message)
		VALUES ($1, $2)
		RETURNING id, read, created_at
	`

	err := r.q.QueryRow(ctx, query, notification.AccountID, notification.Message).
		Scan(&notification.ID, &notification.Read, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification for account %d: %w", notification.AccountID, err)
	}

	return nil
}

// ListByAccount returns an account's notifications, newest first
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Notification, error) {
	query := `
		SELECT id, account_id, message, read, created_at
		FROM notifications
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications for account %d: %w", accountID, err)
	}
	defer rows.Close()

	notifications := make([]*entities.Notification, 0)
	for rows.Next() {
		var n entities.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, nil
}

// MarkAllRead marks every unread notification of an account as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, accountID int64) (int64, error) {
	result, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE account_id = $1 AND NOT read`, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read for account %d: %w", accountID, err)
	}
	return result.RowsAffected(), nil
}

// CountUnread counts an account's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE account_id = $1 AND NOT read`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for account %d: %w", accountID, err)
	}
	return count, nil
}

// DeleteReadBefore removes read notifications older than before
func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE read AND created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return result.RowsAffected(), nil
}
