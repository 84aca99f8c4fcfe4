package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"arcade/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_Deliver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		setup   func(m *testMocks)
		wantErr error
	}{
		{
			name:    "persists the message",
			message: " Level up! ",
			setup: func(m *testMocks) {
				m.NotificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
					return n.AccountID == testAccountID && n.Message == "Level up!"
				})).Return(nil)
			},
		},
		{
			name:    "empty message",
			message: "   ",
			setup:   func(m *testMocks) {},
			wantErr: entities.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newTestMocks()
			tt.setup(m)

			notification, err := NewNotificationService(m.NotificationRepo).Deliver(context.Background(), testAccountID, tt.message)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, notification)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "Level up!", notification.Message)
			}
			m.assertAllExpectations(t)
		})
	}
}

func TestNotificationService_ListMarksRead(t *testing.T) {
	t.Parallel()

	m := newTestMocks()
	unread := []*entities.Notification{{ID: 1, AccountID: testAccountID, Message: "hi"}}
	m.NotificationRepo.On("ListByAccount", mock.Anything, testAccountID, defaultNotificationLimit).Return(unread, nil)
	m.NotificationRepo.On("MarkAllRead", mock.Anything, testAccountID).Return(int64(1), nil)

	notifications, err := NewNotificationService(m.NotificationRepo).List(context.Background(), testAccountID, 0)

	require.NoError(t, err)
	assert.Equal(t, unread, notifications)
	m.assertAllExpectations(t)
}

func TestNotificationService_ListFailureDoesNotMarkRead(t *testing.T) {
	t.Parallel()

	m := newTestMocks()
	m.NotificationRepo.On("ListByAccount", mock.Anything, testAccountID, 5).Return(nil, errors.New("connection reset"))

	_, err := NewNotificationService(m.NotificationRepo).List(context.Background(), testAccountID, 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list notifications")
	m.NotificationRepo.AssertNotCalled(t, "MarkAllRead", mock.Anything, mock.Anything)
}

func TestNotificationService_PurgeRead(t *testing.T) {
	t.Parallel()

	m := newTestMocks()
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.NotificationRepo.On("DeleteReadBefore", mock.Anything, cutoff).Return(int64(3), nil)

	deleted, err := NewNotificationService(m.NotificationRepo).PurgeRead(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	m.assertAllExpectations(t)
}
