package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"arcade/domain/entities"
	"arcade/domain/events"
	"arcade/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (m *testMocks) chatService() interfaces.ChatService {
	return NewChatService(m.AccountRepo, m.ChatRepo, m.Strikes, m.EventPublisher)
}

func TestChatService_Send(t *testing.T) {
	t.Parallel()

	sender := newTestAccount(testAccountID, "0")
	recipient := newTestAccount(testRecipientID, "0")

	t.Run("stores and relays an accepted message", func(t *testing.T) {
		t.Parallel()
		m := newTestMocks()
		published := m.captureEvents()

		m.AccountRepo.On("GetByID", mock.Anything, testAccountID).Return(sender, nil)
		m.AccountRepo.On("GetByPublicID", mock.Anything, recipient.PublicID).Return(recipient, nil)
		m.ChatRepo.On("Create", mock.Anything, mock.MatchedBy(func(msg *entities.ChatMessage) bool {
			return msg.Room == "USER_100100-USER_100300" && msg.Text == "good game"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.ChatMessage).ID = 11
		}).Return(nil)

		message, err := m.chatService().Send(context.Background(), testAccountID, recipient.PublicID, " good game ", "")

		require.NoError(t, err)
		assert.Equal(t, int64(11), message.ID)
		sent := published.ofType(events.EventTypeChatMessageSent)
		require.Len(t, sent, 1)
		assert.Equal(t, "USER_100100-USER_100300", sent[0].(events.ChatMessageSentEvent).Room)
		m.assertAllExpectations(t)
	})

	t.Run("blocked words count a strike and are not stored", func(t *testing.T) {
		t.Parallel()
		m := newTestMocks()

		m.AccountRepo.On("GetByID", mock.Anything, testAccountID).Return(sender, nil)
		m.AccountRepo.On("GetByPublicID", mock.Anything, recipient.PublicID).Return(recipient, nil)
		m.Strikes.On("Increment", mock.Anything, testAccountID).Return(int64(2), nil)

		_, err := m.chatService().Send(context.Background(), testAccountID, recipient.PublicID, "totally ILLEGAL stuff", "")

		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrBlockedContent)
		var blocked *entities.BlockedMessageError
		require.True(t, errors.As(err, &blocked))
		assert.Equal(t, int64(2), blocked.Strikes)
		m.ChatRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.assertAllExpectations(t)
	})

	t.Run("strike counter failure still blocks", func(t *testing.T) {
		t.Parallel()
		m := newTestMocks()

		m.AccountRepo.On("GetByID", mock.Anything, testAccountID).Return(sender, nil)
		m.AccountRepo.On("GetByPublicID", mock.Anything, recipient.PublicID).Return(recipient, nil)
		m.Strikes.On("Increment", mock.Anything, testAccountID).Return(int64(0), errors.New("redis down"))

		_, err := m.chatService().Send(context.Background(), testAccountID, recipient.PublicID, "porn", "")

		assert.ErrorIs(t, err, entities.ErrBlockedContent)
		m.ChatRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("banned sender", func(t *testing.T) {
		t.Parallel()
		m := newTestMocks()
		banned := newTestAccount(testAccountID, "0")
		banned.Banned = true
		m.AccountRepo.On("GetByID", mock.Anything, testAccountID).Return(banned, nil)

		_, err := m.chatService().Send(context.Background(), testAccountID, recipient.PublicID, "hi", "")

		assert.ErrorIs(t, err, entities.ErrAccountBanned)
		m.assertAllExpectations(t)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		t.Parallel()
		m := newTestMocks()
		m.AccountRepo.On("GetByID", mock.Anything, testAccountID).Return(sender, nil)
		m.AccountRepo.On("GetByPublicID", mock.Anything, "USER_404040").Return(nil, nil)

		_, err := m.chatService().Send(context.Background(), testAccountID, "USER_404040", "hi", "")

		assert.ErrorIs(t, err, entities.ErrAccountNotFound)
		m.assertAllExpectations(t)
	})

	t.Run("empty and oversized messages", func(t *testing.T) {
		t.Parallel()
		m := newTestMocks()

		_, empty := m.chatService().Send(context.Background(), testAccountID, recipient.PublicID, "  ", "")
		_, long := m.chatService().Send(context.Background(), testAccountID, recipient.PublicID, strings.Repeat("a", maxChatMessageLength+1), "")

		assert.ErrorIs(t, empty, entities.ErrInvalidInput)
		assert.ErrorIs(t, long, entities.ErrInvalidInput)
		m.assertAllExpectations(t)
	})
}

func TestChatService_History(t *testing.T) {
	t.Parallel()

	m := newTestMocks()
	me := newTestAccount(testRecipientID, "0")
	other := newTestAccount(testAccountID, "0")
	history := []*entities.ChatMessage{{ID: 1, Room: "USER_100100-USER_100300"}}

	m.AccountRepo.On("GetByID", mock.Anything, testRecipientID).Return(me, nil)
	m.AccountRepo.On("GetByPublicID", mock.Anything, other.PublicID).Return(other, nil)
	m.ChatRepo.On("ListByRoom", mock.Anything, "USER_100100-USER_100300", defaultHistoryLimit).Return(history, nil)

	messages, err := m.chatService().History(context.Background(), testRecipientID, other.PublicID, 0)

	require.NoError(t, err)
	assert.Equal(t, history, messages)
	m.assertAllExpectations(t)
}

func TestContainsBlockedWord(t *testing.T) {
	t.Parallel()

	assert.True(t, ContainsBlockedWord("Porn"))
	assert.True(t, ContainsBlockedWord("something illegal here"))
	assert.False(t, ContainsBlockedWord("legal advice"))
	assert.False(t, ContainsBlockedWord(""))
}
