package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"arcade/domain/entities"

	log "github.com/sirupsen/logrus"
)

const outcomeSubjectPrefix = "games.outcome."

// OutcomeHandler applies game outcomes arriving from external generators
type OutcomeHandler struct {
	ledger *Ledger
}

// NewOutcomeHandler creates the outcome message handler
func NewOutcomeHandler(ledger *Ledger) *OutcomeHandler {
	return &OutcomeHandler{ledger: ledger}
}

// outcomeMessage is the wire form of a game outcome; win must be present
type outcomeMessage struct {
	AccountID int64  `json:"account_id"`
	GameKind  string `json:"game_kind"`
	Win       *bool  `json:"win"`
}

// HandleMessage decodes {account_id, game_kind, win} and records it.
// The game kind defaults to the last subject token.
func (h *OutcomeHandler) HandleMessage(ctx context.Context, subject string, data []byte) error {
	var msg outcomeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("%w: malformed game outcome: %v", entities.ErrInvalidInput, err)
	}
	if msg.AccountID <= 0 {
		return fmt.Errorf("%w: game outcome without account", entities.ErrInvalidInput)
	}
	if msg.Win == nil {
		return fmt.Errorf("%w: game outcome for account %d without result", entities.ErrInvalidInput, msg.AccountID)
	}

	outcome := entities.GameOutcome{
		AccountID: msg.AccountID,
		GameKind:  msg.GameKind,
		Win:       *msg.Win,
	}
	if strings.TrimSpace(outcome.GameKind) == "" {
		outcome.GameKind = strings.TrimPrefix(subject, outcomeSubjectPrefix)
	}

	result, err := h.ledger.RecordGameOutcome(ctx, outcome)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"accountID": outcome.AccountID,
		"gameKind":  outcome.GameKind,
		"win":       outcome.Win,
		"balance":   result.Balance.String(),
		"level":     result.Level,
	}).Info("Game outcome applied")
	return nil
}
