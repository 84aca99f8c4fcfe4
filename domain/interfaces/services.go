package interfaces

import (
	"context"
	"time"

	"arcade/domain/entities"

	"github.com/shopspring/decimal"
)

// LedgerService defines the balance-affecting operations of the ledger
type LedgerService interface {
	// ProcessDeposit logs a pending deposit; the balance is credited only on approval
	ProcessDeposit(ctx context.Context, accountID int64, gross decimal.Decimal, reference string) (*entities.LedgerEntry, error)

	// ProcessWithdrawal debits the gross amount and logs a pending payout
	ProcessWithdrawal(ctx context.Context, accountID int64, gross decimal.Decimal) (*entities.LedgerEntry, error)

	// ProcessGameOutcome applies a finished round and any level-ups it causes
	ProcessGameOutcome(ctx context.Context, outcome entities.GameOutcome) (*entities.GameOutcomeResult, error)

	// ProcessReferralBonus credits the referrer for an invited signup
	ProcessReferralBonus(ctx context.Context, referrerAccountID int64, invitedPublicID string) (*entities.ReferralResult, error)

	// ProcessShopPurchase buys an item with the account balance
	ProcessShopPurchase(ctx context.Context, accountID int64, item entities.ShopItem) (*entities.Account, error)
}

// ReconciliationService resolves pending ledger entries
type ReconciliationService interface {
	// Approve marks a pending entry approved, crediting deposits
	Approve(ctx context.Context, entryID, resolverID int64) (*entities.LedgerEntry, error)

	// Reject marks a pending entry rejected, refunding withdrawals
	Reject(ctx context.Context, entryID, resolverID int64) (*entities.LedgerEntry, error)
}

// AdminActor identifies who performs an admin operation and through which surface
type AdminActor struct {
	AccountID int64
	Source    entities.AuditSource
}

// AdminService defines the privileged reconciliation operations
type AdminService interface {
	// Authorize loads the actor and checks the admin capability
	Authorize(ctx context.Context, actor AdminActor) (*entities.Account, error)

	// ToggleBan flips the banned flag of the target account
	ToggleBan(ctx context.Context, actor AdminActor, targetAccountID int64) (*entities.Account, error)

	// OverrideBalance sets the target balance directly, bypassing ledger rules
	OverrideBalance(ctx context.Context, actor AdminActor, targetAccountID int64, balance decimal.Decimal) (*entities.Account, error)

	// ApproveEntry approves a pending ledger entry
	ApproveEntry(ctx context.Context, actor AdminActor, entryID int64) (*entities.LedgerEntry, error)

	// RejectEntry rejects a pending ledger entry
	RejectEntry(ctx context.Context, actor AdminActor, entryID int64) (*entities.LedgerEntry, error)

	// DeleteChatMessage removes a chat message
	DeleteChatMessage(ctx context.Context, actor AdminActor, messageID int64) error

	// SystemBan bans an account on behalf of automated moderation
	SystemBan(ctx context.Context, targetAccountID int64, reason string) (*entities.Account, error)
}

// Registration holds the signup form
type Registration struct {
	Username     string
	Email        string
	Phone        string
	Password     string
	ReferralCode string
}

// ProfileUpdate holds the user-editable profile fields
type ProfileUpdate struct {
	Bio       string
	HidePhone bool
	AvatarKey *string
}

// LoginResult is returned after a successful login
type LoginResult struct {
	Account    *entities.Account
	DailyBonus decimal.Decimal
}

// AccountService defines account lifecycle and profile operations
type AccountService interface {
	// Register creates an account with the starter grant and processes its referral
	Register(ctx context.Context, registration Registration) (*entities.Account, error)

	// RecordLogin updates the last login time and grants the daily bonus when due
	RecordLogin(ctx context.Context, accountID int64, now time.Time) (*LoginResult, error)

	// GetProfile returns an account by public ID
	GetProfile(ctx context.Context, publicID string) (*entities.Account, error)

	// UpdateProfile stores profile changes
	UpdateProfile(ctx context.Context, accountID int64, update ProfileUpdate) (*entities.Account, error)

	// Leaderboard returns the top accounts by experience
	Leaderboard(ctx context.Context) ([]*entities.Account, error)

	// Search finds accounts by public ID or username prefix
	Search(ctx context.Context, query string) ([]*entities.Account, error)

	// EnsureAdmin creates the default admin account when it does not exist yet
	EnsureAdmin(ctx context.Context, username, email, password string) (*entities.Account, bool, error)
}

// NotificationService defines notification read and delivery operations
type NotificationService interface {
	// Deliver persists a notification for an account
	Deliver(ctx context.Context, accountID int64, message string) (*entities.Notification, error)

	// List returns the account's notifications and marks them read
	List(ctx context.Context, accountID int64, limit int) ([]*entities.Notification, error)

	// UnreadCount returns the number of unread notifications
	UnreadCount(ctx context.Context, accountID int64) (int64, error)

	// PurgeRead deletes read notifications older than the cutoff
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
}

// ChatService defines chat operations
type ChatService interface {
	// Send validates and stores a message, then hands it to the relay
	Send(ctx context.Context, senderAccountID int64, recipientPublicID, text, mediaKey string) (*entities.ChatMessage, error)

	// History returns the room shared with another account, newest first
	History(ctx context.Context, accountID int64, otherPublicID string, limit int) ([]*entities.ChatMessage, error)
}
