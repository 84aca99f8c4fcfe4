package repository

import (
	"context"
	"fmt"
	"time"

	"arcade/database"
	"arcade/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `
	id, public_id, username, email, phone, password_hash, balance::text,
	experience, level, vip, admin, banned, bio, avatar_key, hide_phone,
	last_login_at, daily_bonus_at, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.PublicID,
		&account.Username,
		&account.Email,
		&account.Phone,
		&account.PasswordHash,
		&account.Balance,
		&account.Experience,
		&account.Level,
		&account.VIP,
		&account.Admin,
		&account.Banned,
		&account.Bio,
		&account.AvatarKey,
		&account.HidePhone,
		&account.LastLoginAt,
		&account.DailyBonusAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func collectAccounts(rows pgx.Rows) ([]*entities.Account, error) {
	defer rows.Close()

	accounts := make([]*entities.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) getOne(ctx context.Context, where string, arg any) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where

	account, err := scanAccount(r.q.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return account, err
}

// GetByID retrieves an account by its internal ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := r.getOne(ctx, "id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetByIDForUpdate retrieves an account and locks its row for the rest of the transaction
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error) {
	account, err := r.getOne(ctx, "id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
	}
	return account, nil
}

// GetByPublicID retrieves an account by its public identifier
func (r *AccountRepository) GetByPublicID(ctx context.Context, publicID string) (*entities.Account, error) {
	account, err := r.getOne(ctx, "public_id = $1", publicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by public ID %s: %w", publicID, err)
	}
	return account, nil
}

// GetByUsername retrieves an account by username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	account, err := r.getOne(ctx, "username = $1", username)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by username %s: %w", username, err)
	}
	return account, nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	account, err := r.getOne(ctx, "email = $1", email)
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts
		(public_id, username, email, phone, password_hash, balance, experience, level, vip, admin, daily_bonus_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.PublicID,
		account.Username,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Balance,
		account.Experience,
		account.Level,
		account.VIP,
		account.Admin,
		account.DailyBonusAt,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", entities.ErrDuplicateAccount, account.Username)
	}
	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", account.Username, err)
	}

	return nil
}

// AdjustBalance adds delta to the stored balance in a single statement.
// Without allowNegative the update only applies when the result stays at or above zero.
func (r *AccountRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal, allowNegative bool) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND ($3 OR balance + $2 >= 0)
		RETURNING balance::text
	`

	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, query, id, delta, allowNegative).Scan(&balance)
	if err == pgx.ErrNoRows {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
			return decimal.Zero, fmt.Errorf("failed to check account %d: %w", id, err)
		}
		if !exists {
			return decimal.Zero, fmt.Errorf("%w: %d", entities.ErrAccountNotFound, id)
		}
		return decimal.Zero, fmt.Errorf("%w: account %d cannot cover %s", entities.ErrInsufficientFunds, id, delta.Neg())
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to adjust balance for account %d: %w", id, err)
	}

	return balance, nil
}

// SetFlag sets one of the boolean account flags
func (r *AccountRepository) SetFlag(ctx context.Context, id int64, flag entities.AccountFlag, value bool) error {
	if !flag.IsValid() {
		return fmt.Errorf("%w: unknown account flag %q", entities.ErrInvalidInput, flag)
	}

	// flag is one of a closed set of column names
	query := fmt.Sprintf(`UPDATE accounts SET %s = $2, updated_at = NOW() WHERE id = $1`, string(flag))

	result, err := r.q.Exec(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to set %s for account %d: %w", flag, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", entities.ErrAccountNotFound, id)
	}

	return nil
}

// UpdateProgress stores experience and level
func (r *AccountRepository) UpdateProgress(ctx context.Context, id int64, experience, level int64) error {
	return r.exec(ctx, "update progress",
		`UPDATE accounts SET experience = $2, level = $3, updated_at = NOW() WHERE id = $1`,
		id, experience, level)
}

// UpdateProfile stores the user-editable profile fields
func (r *AccountRepository) UpdateProfile(ctx context.Context, id int64, bio string, hidePhone bool, avatarKey string) error {
	return r.exec(ctx, "update profile",
		`UPDATE accounts SET bio = $2, hide_phone = $3, avatar_key = $4, updated_at = NOW() WHERE id = $1`,
		id, bio, hidePhone, avatarKey)
}

// TouchLogin records a login and optionally restarts the daily bonus clock
func (r *AccountRepository) TouchLogin(ctx context.Context, id int64, at time.Time, claimedBonus bool) error {
	return r.exec(ctx, "record login",
		`UPDATE accounts
		 SET last_login_at = $2,
		     daily_bonus_at = CASE WHEN $3 THEN $2 ELSE daily_bonus_at END,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, at, claimedBonus)
}

func (r *AccountRepository) exec(ctx context.Context, action, query string, id int64, args ...any) error {
	result, err := r.q.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to %s for account %d: %w", action, id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", entities.ErrAccountNotFound, id)
	}
	return nil
}

// Search finds accounts by exact public ID or case-insensitive username prefix
func (r *AccountRepository) Search(ctx context.Context, query string, limit int) ([]*entities.Account, error) {
	sql := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE public_id = $1 OR username ILIKE $2 ESCAPE '\'
		ORDER BY username
		LIMIT $3`

	rows, err := r.q.Query(ctx, sql, query, escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search accounts: %w", err)
	}
	return collectAccounts(rows)
}

// Leaderboard returns the accounts with the most experience
func (r *AccountRepository) Leaderboard(ctx context.Context, limit int) ([]*entities.Account, error) {
	sql := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE NOT banned
		ORDER BY experience DESC, id ASC
		LIMIT $1`

	rows, err := r.q.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return collectAccounts(rows)
}

// List returns accounts ordered by ID
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*entities.Account, error) {
	sql := `SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return collectAccounts(rows)
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
