package repository

import (
	"context"
	"fmt"
	"time"

	"arcade/database"
	"arcade/domain/entities"

	"github.com/jackc/pgx/v5"
)

const ledgerEntryColumns = `
	id, account_id, kind, gross::text, fee::text, bonus::text, net::text,
	reference, status, created_at, resolved_at, resolved_by`

// LedgerEntryRepository implements the LedgerEntryRepository interface
type LedgerEntryRepository struct {
	q queryable
}

// NewLedgerEntryRepository creates a new ledger entry repository
func NewLedgerEntryRepository(db *database.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: db.Pool}
}

// newLedgerEntryRepositoryWithTx creates a new ledger entry repository with a transaction
func newLedgerEntryRepositoryWithTx(tx queryable) *LedgerEntryRepository {
	return &LedgerEntryRepository{q: tx}
}

func scanLedgerEntry(row pgx.Row) (*entities.LedgerEntry, error) {
	var entry entities.LedgerEntry
	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.Kind,
		&entry.Gross,
		&entry.Fee,
		&entry.Bonus,
		&entry.Net,
		&entry.Reference,
		&entry.Status,
		&entry.CreatedAt,
		&entry.ResolvedAt,
		&entry.ResolvedBy,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func collectLedgerEntries(rows pgx.Rows) ([]*entities.LedgerEntry, error) {
	defer rows.Close()

	entries := make([]*entities.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return entries, nil
}

// Create appends a new pending entry
func (r *LedgerEntryRepository) Create(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (account_id, kind, gross, fee, bonus, net, reference, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.AccountID,
		entry.Kind,
		entry.Gross,
		entry.Fee,
		entry.Bonus,
		entry.Net,
		entry.Reference,
		entry.Status,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create %s entry for account %d: %w", entry.Kind, entry.AccountID, err)
	}

	return nil
}

// GetByID retrieves an entry by ID
func (r *LedgerEntryRepository) GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE id = $1`

	entry, err := scanLedgerEntry(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry %d: %w", id, err)
	}

	return entry, nil
}

// GetByIDForUpdate retrieves an entry and locks its row for the rest of the transaction
func (r *LedgerEntryRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + ` FROM ledger_entries WHERE id = $1 FOR UPDATE`

	entry, err := scanLedgerEntry(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock ledger entry %d: %w", id, err)
	}

	return entry, nil
}

// CountByKindSince counts an account's entries of a kind created at or after since
func (r *LedgerEntryRepository) CountByKindSince(ctx context.Context, accountID int64, kind entities.LedgerEntryKind, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM ledger_entries
		WHERE account_id = $1 AND kind = $2 AND created_at >= $3
	`

	var count int
	if err := r.q.QueryRow(ctx, query, accountID, kind, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s entries for account %d: %w", kind, accountID, err)
	}

	return count, nil
}

// MarkResolved persists the terminal status of an entry that is still pending
func (r *LedgerEntryRepository) MarkResolved(ctx context.Context, entry *entities.LedgerEntry) error {
	query := `
		UPDATE ledger_entries
		SET status = $2, resolved_at = $3, resolved_by = $4
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, entry.ID, entry.Status, entry.ResolvedAt, entry.ResolvedBy)
	if err != nil {
		return fmt.Errorf("failed to resolve ledger entry %d: %w", entry.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %d is no longer pending", entities.ErrInvalidStateTransition, entry.ID)
	}

	return nil
}

// ListByAccount returns an account's entries, newest first
func (r *LedgerEntryRepository) ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries for account %d: %w", accountID, err)
	}
	return collectLedgerEntries(rows)
}

// ListByStatus returns entries in a status, oldest first
func (r *LedgerEntryRepository) ListByStatus(ctx context.Context, status entities.LedgerEntryStatus, limit int) ([]*entities.LedgerEntry, error) {
	query := `SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE status = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ledger entries: %w", status, err)
	}
	return collectLedgerEntries(rows)
}

// CountByStatus counts entries in a status
func (r *LedgerEntryRepository) CountByStatus(ctx context.Context, status entities.LedgerEntryStatus) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s ledger entries: %w", status, err)
	}
	return count, nil
}
