package interfaces

import (
	"context"
	"io"
	"time"

	"arcade/domain/entities"
)

// CredentialVerifier checks a username/password pair and returns the account ID
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (int64, error)
}

// PasswordHasher produces the stored credential hash for a new password
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SessionIssuer converts between authenticated accounts and bearer tokens
type SessionIssuer interface {
	Issue(account *entities.Account) (string, time.Time, error)
	Parse(token string) (*entities.Session, error)
}

// NotificationSink accepts user-facing messages for asynchronous delivery
type NotificationSink interface {
	Enqueue(ctx context.Context, accountID int64, message string) error
}

// FileStorage stores uploaded media and returns the object key
type FileStorage interface {
	Store(ctx context.Context, filename string, contentType string, body io.Reader) (string, error)
}

// StrikeCounter counts moderation strikes for an account inside a rolling window
type StrikeCounter interface {
	Increment(ctx context.Context, accountID int64) (int64, error)
	Reset(ctx context.Context, accountID int64) error
}

// RewardSource draws the credit for a won game round
type RewardSource interface {
	WinReward() int64
}

// PublicIDGenerator produces candidate public identifiers for new accounts
type PublicIDGenerator interface {
	NewPublicID() string
}

// AlertSink delivers operator-facing alerts
type AlertSink interface {
	Alert(ctx context.Context, message string) error
}
