package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arcade/domain/entities"
	"arcade/domain/interfaces"
	"arcade/domain/services"
	"arcade/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Chat stores direct messages and bans senders who keep hitting the blocklist
type Chat struct {
	uowFactory  interfaces.UnitOfWorkFactory
	strikes     interfaces.StrikeCounter
	admin       *AdminConsole
	strikeLimit int64
	timeout     time.Duration
}

// NewChat creates the chat flow
func NewChat(
	uowFactory interfaces.UnitOfWorkFactory,
	strikes interfaces.StrikeCounter,
	admin *AdminConsole,
	strikeLimit int,
	timeout time.Duration,
) *Chat {
	return &Chat{
		uowFactory:  uowFactory,
		strikes:     strikes,
		admin:       admin,
		strikeLimit: int64(strikeLimit),
		timeout:     timeout,
	}
}

// Send moderates and stores a message to another account
func (c *Chat) Send(ctx context.Context, senderAccountID int64, recipientPublicID, text, mediaKey string) (*entities.ChatMessage, error) {
	var message *entities.ChatMessage
	err := withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		message, err = c.service(uow).Send(ctx, senderAccountID, recipientPublicID, text, mediaKey)
		return err
	})

	var blocked *entities.BlockedMessageError
	if errors.As(err, &blocked) {
		observability.GetMetrics().RecordChatBlocked()
		if c.strikeLimit > 0 && blocked.Strikes >= c.strikeLimit {
			c.autoBan(ctx, senderAccountID, blocked.Strikes)
		}
	}
	if err != nil {
		return nil, err
	}
	return message, nil
}

// History returns the messages exchanged with another account
func (c *Chat) History(ctx context.Context, accountID int64, otherPublicID string, limit int) ([]*entities.ChatMessage, error) {
	var messages []*entities.ChatMessage
	err := withUnitOfWork(ctx, c.uowFactory, c.timeout, func(ctx context.Context, uow interfaces.UnitOfWork) error {
		var err error
		messages, err = c.service(uow).History(ctx, accountID, otherPublicID, limit)
		return err
	})
	return messages, err
}

func (c *Chat) autoBan(ctx context.Context, accountID int64, strikes int64) {
	reason := fmt.Sprintf("%d blocked chat messages", strikes)
	if _, err := c.admin.SystemBan(ctx, accountID, reason); err != nil {
		log.WithFields(log.Fields{
			"accountID": accountID,
			"error":     err,
		}).Error("Failed to ban account after repeated blocked messages")
		return
	}

	if err := c.strikes.Reset(ctx, accountID); err != nil {
		log.WithError(err).Warn("Failed to reset chat strikes")
	}
	log.WithFields(log.Fields{
		"accountID": accountID,
		"strikes":   strikes,
	}).Warn("Account banned by chat moderation")
}

func (c *Chat) service(uow interfaces.UnitOfWork) interfaces.ChatService {
	return services.NewChatService(uow.AccountRepository(), uow.ChatRepository(), c.strikes, uow.EventBus())
}
