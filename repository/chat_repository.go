package repository

import (
	"context"
	"fmt"

	"arcade/database"
	"arcade/domain/entities"

	"github.com/jackc/pgx/v5"
)

const chatColumns = `id, room, sender_account_id, sender_public_id, recipient_public_id, text, media_key, created_at`

// ChatRepository implements the ChatRepository interface
type ChatRepository struct {
	q queryable
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *database.DB) *ChatRepository {
	return &ChatRepository{q: db.Pool}
}

// newChatRepositoryWithTx creates a new chat repository with a transaction
func newChatRepositoryWithTx(tx queryable) *ChatRepository {
	return &ChatRepository{q: tx}
}

func scanChatMessage(row pgx.Row) (*entities.ChatMessage, error) {
	var msg entities.ChatMessage
	err := row.Scan(
		&msg.ID,
		&msg.Room,
		&msg.SenderAccountID,
		&msg.SenderPublicID,
		&msg.RecipientPublicID,
		&msg.Text,
		&msg.MediaKey,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Create stores a chat message
func (r *ChatRepository) Create(ctx context.Context, message *entities.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (room, sender_account_id, sender_public_id, recipient_public_id, text, media_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		message.Room,
		message.SenderAccountID,
		message.SenderPublicID,
		message.RecipientPublicID,
		message.Text,
		message.MediaKey,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create chat message in room %s: %w", message.Room, err)
	}

	return nil
}

// GetByID retrieves a chat message by ID
func (r *ChatRepository) GetByID(ctx context.Context, id int64) (*entities.ChatMessage, error) {
	msg, err := scanChatMessage(r.q.QueryRow(ctx, `SELECT `+chatColumns+` FROM chat_messages WHERE id = $1`, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat message %d: %w", id, err)
	}
	return msg, nil
}

// ListByRoom returns the latest messages of a room in chronological order
func (r *ChatRepository) ListByRoom(ctx context.Context, room string, limit int) ([]*entities.ChatMessage, error) {
	query := `
		SELECT * FROM (
			SELECT ` + chatColumns + `
			FROM chat_messages
			WHERE room = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, room, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages for room %s: %w", room, err)
	}
	return collectChatMessages(rows)
}

// ListRecent returns the latest messages across all rooms, newest first
func (r *ChatRepository) ListRecent(ctx context.Context, limit int) ([]*entities.ChatMessage, error) {
	query := `SELECT ` + chatColumns + ` FROM chat_messages ORDER BY created_at DESC, id DESC LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent chat messages: %w", err)
	}
	return collectChatMessages(rows)
}

// Delete removes a chat message
func (r *ChatRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chat message %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", entities.ErrChatMessageNotFound, id)
	}
	return nil
}

func collectChatMessages(rows pgx.Rows) ([]*entities.ChatMessage, error) {
	defer rows.Close()

	messages := make([]*entities.ChatMessage, 0)
	for rows.Next() {
		msg, err := scanChatMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chat messages: %w", err)
	}
	return messages, nil
}
