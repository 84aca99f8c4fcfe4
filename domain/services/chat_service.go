package services

import (
	"context"
	"fmt"
	"strings"

	"arcade/domain/entities"
	"arcade/domain/events"
	"arcade/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	maxChatMessageLength = 1000
	defaultHistoryLimit  = 100
)

// BlockedWords are rejected anywhere in a chat message, case-insensitively
var BlockedWords = []string{"porn", "illegal"}

type chatService struct {
	accountRepo    interfaces.AccountRepository
	chatRepo       interfaces.ChatRepository
	strikes        interfaces.StrikeCounter
	eventPublisher interfaces.EventPublisher
}

// NewChatService creates a new chat service
func NewChatService(
	accountRepo interfaces.AccountRepository,
	chatRepo interfaces.ChatRepository,
	strikes interfaces.StrikeCounter,
	eventPublisher interfaces.EventPublisher,
) interfaces.ChatService {
	return &chatService{
		accountRepo:    accountRepo,
		chatRepo:       chatRepo,
		strikes:        strikes,
		eventPublisher: eventPublisher,
	}
}

// Send moderates and stores a direct message. Blocked messages are not stored
// and count a strike against the sender.
func (s *chatService) Send(ctx context.Context, senderAccountID int64, recipientPublicID, text, mediaKey string) (*entities.ChatMessage, error) {
	text = strings.TrimSpace(text)
	mediaKey = strings.TrimSpace(mediaKey)
	if text == "" && mediaKey == "" {
		return nil, fmt.Errorf("%w: message is empty", entities.ErrInvalidInput)
	}
	if len(text) > maxChatMessageLength {
		return nil, fmt.Errorf("%w: message is limited to %d characters", entities.ErrInvalidInput, maxChatMessageLength)
	}

	sender, err := s.accountRepo.GetByID(ctx, senderAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	if sender == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, senderAccountID)
	}
	if sender.Banned {
		return nil, entities.ErrAccountBanned
	}

	recipient, err := s.accountRepo.GetByPublicID(ctx, strings.TrimSpace(recipientPublicID))
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if recipient == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrAccountNotFound, recipientPublicID)
	}

	if ContainsBlockedWord(text) {
		strikes, err := s.strikes.Increment(ctx, sender.ID)
		if err != nil {
			log.WithFields(log.Fields{
				"accountID": sender.ID,
				"error":     err,
			}).Error("Failed to count chat strike")
		}
		log.WithFields(log.Fields{
			"accountID": sender.ID,
			"strikes":   strikes,
		}).Warn("Chat message blocked")
		return nil, &entities.BlockedMessageError{Strikes: strikes}
	}

	message := &entities.ChatMessage{
		Room:              entities.RoomFor(sender.PublicID, recipient.PublicID),
		SenderAccountID:   sender.ID,
		SenderPublicID:    sender.PublicID,
		RecipientPublicID: recipient.PublicID,
		Text:              text,
		MediaKey:          mediaKey,
	}
	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store chat message: %w", err)
	}

	if err := s.eventPublisher.Publish(events.ChatMessageSentEvent{
		MessageID:         message.ID,
		Room:              message.Room,
		SenderPublicID:    message.SenderPublicID,
		RecipientPublicID: message.RecipientPublicID,
		Text:              message.Text,
		MediaKey:          message.MediaKey,
	}); err != nil {
		log.WithError(err).Error("Failed to publish chat message event")
	}

	return message, nil
}

// History returns the messages exchanged with another account, newest first
func (s *chatService) History(ctx context.Context, accountID int64, otherPublicID string, limit int) ([]*entities.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, accountID)
	}

	other, err := s.accountRepo.GetByPublicID(ctx, strings.TrimSpace(otherPublicID))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if other == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrAccountNotFound, otherPublicID)
	}

	messages, err := s.chatRepo.ListByRoom(ctx, entities.RoomFor(account.PublicID, other.PublicID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}

// ContainsBlockedWord reports whether text contains any blocked word
func ContainsBlockedWord(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range BlockedWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
