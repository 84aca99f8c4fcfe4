package repository

import (
	"context"
	"fmt"

	"arcade/database"
	"arcade/domain/entities"

	"github.com/jackc/pgx/v5"
)

// GameOutcomeRepository implements the GameOutcomeRepository interface
type GameOutcomeRepository struct {
	q queryable
}

// NewGameOutcomeRepository creates a new game outcome repository
func NewGameOutcomeRepository(db *database.DB) *GameOutcomeRepository {
	return &GameOutcomeRepository{q: db.Pool}
}

// newGameOutcomeRepositoryWithTx creates a new game outcome repository with a transaction
func newGameOutcomeRepositoryWithTx(tx queryable) *GameOutcomeRepository {
	return &GameOutcomeRepository{q: tx}
}

// Create stores the record of a processed round
func (r *GameOutcomeRepository) Create(ctx context.Context, record *entities.GameOutcomeRecord) error {
	query := `
		INSERT INTO game_outcomes (account_id, game_kind, win, balance_delta, experience_delta, levels_gained)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.AccountID,
		record.GameKind,
		record.Win,
		record.BalanceDelta,
		record.ExperienceDelta,
		record.LevelsGained,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game outcome for account %d: %w", record.AccountID, err)
	}

	return nil
}

// ListByAccount returns an account's rounds, newest first
func (r *GameOutcomeRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.GameOutcomeRecord, error) {
	query := `
		SELECT id, account_id, game_kind, win, balance_delta::text, experience_delta, levels_gained, created_at
		FROM game_outcomes
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game outcomes for account %d: %w", accountID, err)
	}
	return collectGameOutcomes(rows)
}

// ListRecent returns the latest rounds across all accounts
func (r *GameOutcomeRepository) ListRecent(ctx context.Context, limit int) ([]*entities.GameOutcomeRecord, error) {
	query := `
		SELECT id, account_id, game_kind, win, balance_delta::text, experience_delta, levels_gained, created_at
		FROM game_outcomes
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent game outcomes: %w", err)
	}
	return collectGameOutcomes(rows)
}

func collectGameOutcomes(rows pgx.Rows) ([]*entities.GameOutcomeRecord, error) {
	defer rows.Close()

	records := make([]*entities.GameOutcomeRecord, 0)
	for rows.Next() {
		var record entities.GameOutcomeRecord
		err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&record.GameKind,
			&record.Win,
			&record.BalanceDelta,
			&record.ExperienceDelta,
			&record.LevelsGained,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game outcome: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game outcomes: %w", err)
	}
	return records, nil
}
