package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"arcade/database"
	"arcade/domain/entities"
)

// AuditRepository implements the AuditRepository interface
type AuditRepository struct {
	q queryable
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{q: db.Pool}
}

// newAuditRepositoryWithTx creates a new audit repository with a transaction
func newAuditRepositoryWithTx(tx queryable) *AuditRepository {
	return &AuditRepository{q: tx}
}

// Record appends an admin action to the audit trail
func (r *AuditRepository) Record(ctx context.Context, record *entities.AuditRecord) error {
	details := record.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_records
		(actor_account_id, action, source, target_account_id, target_entry_id, target_chat_id, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		record.ActorAccountID,
		record.Action,
		record.Source,
		record.TargetAccountID,
		record.TargetEntryID,
		record.TargetChatID,
		detailsJSON,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record %s audit: %w", record.Action, err)
	}

	return nil
}

// List returns the latest audit records, newest first
func (r *AuditRepository) List(ctx context.Context, limit int) ([]*entities.AuditRecord, error) {
	query := `
		SELECT id, actor_account_id, action, source, target_account_id, target_entry_id, target_chat_id, details, created_at
		FROM audit_records
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	records := make([]*entities.AuditRecord, 0)
	for rows.Next() {
		var record entities.AuditRecord
		var detailsJSON []byte

		err := rows.Scan(
			&record.ID,
			&record.ActorAccountID,
			&record.Action,
			&record.Source,
			&record.TargetAccountID,
			&record.TargetEntryID,
			&record.TargetChatID,
			&detailsJSON,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}

		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &record.Details); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit details: %w", err)
			}
		}

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit records: %w", err)
	}

	return records, nil
}
