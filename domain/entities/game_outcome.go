package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameOutcomeRecord is the ledger's record of one completed minigame round
type GameOutcomeRecord struct {
	ID              int64           `db:"id"`
	AccountID       int64           `db:"account_id"`
	GameKind        string          `db:"game_kind"`
	Win             bool            `db:"win"`
	BalanceDelta    decimal.Decimal `db:"balance_delta"`
	ExperienceDelta int64           `db:"experience_delta"`
	LevelsGained    int64           `db:"levels_gained"`
	CreatedAt       time.Time       `db:"created_at"`
}

// GameOutcome is a round result reported by an outcome generator
type GameOutcome struct {
	AccountID int64  `json:"account_id"`
	GameKind  string `json:"game_kind"`
	Win       bool   `json:"win"`
}

// GameOutcomeResult summarises what processing an outcome did to the account
type GameOutcomeResult struct {
	Record       *GameOutcomeRecord
	Balance      decimal.Decimal
	Experience   int64
	Level        int64
	LevelUpBonus decimal.Decimal
}
