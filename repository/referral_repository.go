package repository

import (
	"context"
	"fmt"

	"arcade/database"
	"arcade/domain/entities"
)

// ReferralRepository implements the ReferralRepository interface
type ReferralRepository struct {
	q queryable
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *database.DB) *ReferralRepository {
	return &ReferralRepository{q: db.Pool}
}

// newReferralRepositoryWithTx creates a new referral repository with a transaction
func newReferralRepositoryWithTx(tx queryable) *ReferralRepository {
	return &ReferralRepository{q: tx}
}

// Create records a referral. An invited account can only be referred once.
func (r *ReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	query := `
		INSERT INTO referrals (referrer_account_id, invited_public_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, referral.ReferrerAccountID, referral.InvitedPublicID).
		Scan(&referral.ID, &referral.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s was already referred", entities.ErrInvalidInput, referral.InvitedPublicID)
	}
	if err != nil {
		return fmt.Errorf("failed to create referral for account %d: %w", referral.ReferrerAccountID, err)
	}

	return nil
}

// CountByReferrer counts the referrals credited to an account
func (r *ReferralRepository) CountByReferrer(ctx context.Context, referrerAccountID int64) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM referrals WHERE referrer_account_id = $1`, referrerAccountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referrals for account %d: %w", referrerAccountID, err)
	}
	return count, nil
}

// ListByReferrer returns an account's referrals in the order they happened
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerAccountID int64) ([]*entities.Referral, error) {
	query := `
		SELECT id, referrer_account_id, invited_public_id, created_at
		FROM referrals
		WHERE referrer_account_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, referrerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals for account %d: %w", referrerAccountID, err)
	}
	defer rows.Close()

	referrals := make([]*entities.Referral, 0)
	for rows.Next() {
		var referral entities.Referral
		if err := rows.Scan(&referral.ID, &referral.ReferrerAccountID, &referral.InvitedPublicID, &referral.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		referrals = append(referrals, &referral)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate referrals: %w", err)
	}

	return referrals, nil
}
