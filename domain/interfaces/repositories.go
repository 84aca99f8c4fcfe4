package interfaces

import (
	"context"
	"time"

	"arcade/domain/entities"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access.
// Lookups return nil, nil when the account does not exist.
type AccountRepository interface {
	// GetByID retrieves an account by its internal ID
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByIDForUpdate retrieves an account and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Account, error)

	// GetByPublicID retrieves an account by its public identifier
	GetByPublicID(ctx context.Context, publicID string) (*entities.Account, error)

	// GetByUsername retrieves an account by its unique username
	GetByUsername(ctx context.Context, username string) (*entities.Account, error)

	// GetByEmail retrieves an account by its unique email
	GetByEmail(ctx context.Context, email string) (*entities.Account, error)

	// Create inserts a new account; ID and timestamps are filled in on success
	Create(ctx context.Context, account *entities.Account) error

	// AdjustBalance adds delta to the balance and returns the new balance.
	// Fails with ErrInsufficientFunds if the result would be negative and allowNegative is false.
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal, allowNegative bool) (decimal.Decimal, error)

	// SetFlag sets one of the boolean account flags
	SetFlag(ctx context.Context, id int64, flag entities.AccountFlag, value bool) error

	// UpdateProgress stores experience and level
	UpdateProgress(ctx context.Context, id int64, experience, level int64) error

	// UpdateProfile stores the user-editable profile fields
	UpdateProfile(ctx context.Context, id int64, bio string, hidePhone bool, avatarKey string) error

	// TouchLogin records a successful login; claimedBonus also moves the daily bonus clock
	TouchLogin(ctx context.Context, id int64, at time.Time, claimedBonus bool) error

	// Search finds accounts by exact public ID or username prefix
	Search(ctx context.Context, query string, limit int) ([]*entities.Account, error)

	// Leaderboard returns accounts ordered by experience
	Leaderboard(ctx context.Context, limit int) ([]*entities.Account, error)

	// List returns accounts ordered by ID for the admin console
	List(ctx context.Context, limit, offset int) ([]*entities.Account, error)
}

// LedgerEntryRepository defines the interface for the transaction log
type LedgerEntryRepository interface {
	// Create appends a new entry; ID and CreatedAt are filled in on success
	Create(ctx context.Context, entry *entities.LedgerEntry) error

	// GetByID retrieves an entry by ID, nil if not found
	GetByID(ctx context.Context, id int64) (*entities.LedgerEntry, error)

	// GetByIDForUpdate retrieves an entry and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.LedgerEntry, error)

	// CountByKindSince counts an account's entries of a kind created at or after since
	CountByKindSince(ctx context.Context, accountID int64, kind entities.LedgerEntryKind, since time.Time) (int, error)

	// MarkResolved moves a pending entry to its terminal status.
	// Fails with ErrInvalidStateTransition if the entry is no longer pending.
	MarkResolved(ctx context.Context, entry *entities.LedgerEntry) error

	// ListByAccount returns an account's entries, newest first
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.LedgerEntry, error)

	// ListByStatus returns entries in a status, oldest first
	ListByStatus(ctx context.Context, status entities.LedgerEntryStatus, limit int) ([]*entities.LedgerEntry, error)

	// CountByStatus counts entries in a status
	CountByStatus(ctx context.Context, status entities.LedgerEntryStatus) (int64, error)
}

// BalanceHistoryRepository defines the interface for balance history data access
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByAccount returns balance history for an account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.BalanceHistory, error)

	// SumChanges returns the sum of every recorded change for an account
	SumChanges(ctx context.Context, accountID int64) (decimal.Decimal, error)
}

// GameOutcomeRepository defines the interface for game outcome records
type GameOutcomeRepository interface {
	Create(ctx context.Context, record *entities.GameOutcomeRecord) error
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.GameOutcomeRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*entities.GameOutcomeRecord, error)
}

// ReferralRepository defines the interface for referral data access
type ReferralRepository interface {
	Create(ctx context.Context, referral *entities.Referral) error
	CountByReferrer(ctx context.Context, referrerAccountID int64) (int64, error)
	ListByReferrer(ctx context.Context, referrerAccountID int64) ([]*entities.Referral, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	ListByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Notification, error)
	MarkAllRead(ctx context.Context, accountID int64) (int64, error)
	CountUnread(ctx context.Context, accountID int64) (int64, error)
	DeleteReadBefore(ctx context.Context, before time.Time) (int64, error)
}

// AuditRepository defines the interface for the admin audit trail
type AuditRepository interface {
	Record(ctx context.Context, record *entities.AuditRecord) error
	List(ctx context.Context, limit int) ([]*entities.AuditRecord, error)
}

// ChatRepository defines the interface for chat message data access
type ChatRepository interface {
	Create(ctx context.Context, message *entities.ChatMessage) error
	GetByID(ctx context.Context, id int64) (*entities.ChatMessage, error)
	ListByRoom(ctx context.Context, room string, limit int) ([]*entities.ChatMessage, error)
	ListRecent(ctx context.Context, limit int) ([]*entities.ChatMessage, error)
	Delete(ctx context.Context, id int64) error
}
