package entities

import "time"

// Notification is a user-facing message produced by balance-affecting events
type Notification struct {
	ID        int64     `db:"id"`
	AccountID int64     `db:"account_id"`
	Message   string    `db:"message"`
	Read      bool      `db:"read"`
	CreatedAt time.Time `db:"created_at"`
}
