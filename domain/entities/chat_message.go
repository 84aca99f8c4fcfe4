package entities

import (
	"sort"
	"strings"
	"time"
)

// ChatMessage is a persisted direct message between two accounts
type ChatMessage struct {
	ID                int64     `db:"id"`
	Room              string    `db:"room"`
	SenderAccountID   int64     `db:"sender_account_id"`
	SenderPublicID    string    `db:"sender_public_id"`
	RecipientPublicID string    `db:"recipient_public_id"`
	Text              string    `db:"text"`
	MediaKey          string    `db:"media_key"`
	CreatedAt         time.Time `db:"created_at"`
}

// RoomFor returns the room shared by two accounts, independent of who writes first
func RoomFor(publicIDA, publicIDB string) string {
	ids := []string{publicIDA, publicIDB}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}
