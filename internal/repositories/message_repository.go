package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"devshare/internal/models"
)

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID, recipientID, content string) (models.Message, error)
	ListConversation(ctx context.Context, userID, otherID string) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, recipientID, senderID string) (int64, error)
	ListConversationSummaries(ctx context.Context, userID string) ([]models.ConversationSummary, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a direct message.
func (r *MessageRepo) CreateMessage(ctx context.Context, senderID, recipientID, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (id, content, sender_id, recipient_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, content, sender_id, recipient_id, read, created_at`,
		uuid.NewString(), content, senderID, recipientID).
		Scan(&msg.ID, &msg.Content, &msg.SenderID, &msg.RecipientID, &msg.Read, &msg.CreatedAt)
	return msg, err
}

// ListConversation returns the full message history between two users in
// chronological order, both directions included. A self-conversation
// (userID == otherID) degenerates to the user's messages to themselves.
func (r *MessageRepo) ListConversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	query := `SELECT id, content, sender_id, recipient_id, read, created_at
        FROM messages
        WHERE (sender_id = $1 AND recipient_id = $2)
           OR (sender_id = $2 AND recipient_id = $1)
        ORDER BY created_at ASC`
	msgs := []models.Message{}
	err := r.db.SelectContext(ctx, &msgs, query, userID, otherID)
	return msgs, err
}

// MarkConversationRead flips every unread message from senderID to
// recipientID to read. Returns the number of affected rows. Not atomic
// with a preceding fetch: a message arriving in between may or may not
// be marked, which callers accept as eventual consistency.
func (r *MessageRepo) MarkConversationRead(ctx context.Context, recipientID, senderID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET read = TRUE
        WHERE recipient_id = $1 AND sender_id = $2 AND read = FALSE`, recipientID, senderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListConversationSummaries builds the conversation index for a user in
// a single grouped pass: one row per counterpart, carrying the most
// recent message timestamp in either direction and the count of unread
// messages addressed to the user, ordered by recency.
func (r *MessageRepo) ListConversationSummaries(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	query := `SELECT
            CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END AS user_id,
            u.name AS user_name,
            u.image AS user_image,
            MAX(m.created_at) AS last_message_at,
            COUNT(*) FILTER (WHERE m.read = FALSE AND m.recipient_id = $1) AS unread_count
        FROM messages m
        JOIN users u ON u.id = CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END
        WHERE m.sender_id = $1 OR m.recipient_id = $1
        GROUP BY 1, u.name, u.image
        ORDER BY last_message_at DESC`
	summaries := []models.ConversationSummary{}
	err := r.db.SelectContext(ctx, &summaries, query, userID)
	return summaries, err
}
