package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"arcade/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	log "github.com/sirupsen/logrus"
)

// DiscordAlertSink posts operator alerts to a Discord channel
type DiscordAlertSink struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordAlertSink creates a bot session for posting alerts. No gateway connection is opened.
func NewDiscordAlertSink(token, channelID string) (*DiscordAlertSink, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordAlertSink{session: session, channelID: channelID}, nil
}

// Alert sends message to the alert channel
func (s *DiscordAlertSink) Alert(ctx context.Context, message string) error {
	if _, err := s.session.ChannelMessageSend(s.channelID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send discord alert: %w", err)
	}
	return nil
}

// TelegramAlertSink posts operator alerts to a Telegram chat
type TelegramAlertSink struct {
	bot    *telego.Bot
	chatID int64
}

// NewTelegramAlertSink creates a Telegram bot client for alerts
func NewTelegramAlertSink(token string, chatID int64) (*TelegramAlertSink, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramAlertSink{bot: bot, chatID: chatID}, nil
}

// Alert sends message to the admin chat
func (s *TelegramAlertSink) Alert(ctx context.Context, message string) error {
	if _, err := s.bot.SendMessage(ctx, tu.Message(tu.ID(s.chatID), message)); err != nil {
		return fmt.Errorf("failed to send telegram alert: %w", err)
	}
	return nil
}

// LogAlertSink writes alerts to the log when no chat integration is configured
type LogAlertSink struct{}

// Alert logs message at warning level
func (LogAlertSink) Alert(_ context.Context, message string) error {
	log.WithField("alert", message).Warn("Operator alert")
	return nil
}

// MultiAlertSink fans an alert out to every configured sink
type MultiAlertSink struct {
	sinks []interfaces.AlertSink
}

// NewMultiAlertSink combines sinks. With no sinks alerts go to the log.
func NewMultiAlertSink(sinks ...interfaces.AlertSink) *MultiAlertSink {
	if len(sinks) == 0 {
		sinks = []interfaces.AlertSink{LogAlertSink{}}
	}
	return &MultiAlertSink{sinks: sinks}
}

// Alert delivers message to every sink and joins the failures
func (m *MultiAlertSink) Alert(ctx context.Context, message string) error {
	var errs []error
	for _, sink := range m.sinks {
		if err := sink.Alert(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
