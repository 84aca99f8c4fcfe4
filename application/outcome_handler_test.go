package application

import (
	"context"
	"testing"
	"time"

	"arcade/domain/entities"
	"arcade/domain/testhelpers"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeHandler_RejectsInvalidMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"account_id":`},
		{name: "missing account", data: `{"game_kind":"dice","win":true}`},
		{name: "negative account", data: `{"account_id":-4,"win":false}`},
		{name: "wrong field type", data: `{"account_id":"seven","win":true}`},
		{name: "missing result", data: `{"account_id":7,"game_kind":"dice"}`},
		{name: "null result", data: `{"account_id":7,"game_kind":"dice","win":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			factory := newFakeUnitOfWorkFactory()
			ledger := NewLedger(factory, NewAccountLocker(), testhelpers.FixedRewardSource{Reward: 25}, time.Second)
			handler := NewOutcomeHandler(ledger)

			err := handler.HandleMessage(context.Background(), "games.outcome.dice", []byte(tt.data))

			assert.ErrorIs(t, err, entities.ErrInvalidInput)
			assert.Zero(t, factory.created.Load())
		})
	}
}
