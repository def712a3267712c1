package models

import "time"

// Message is a direct message between two users. Only the read flag is
// mutated after insert, and only from false to true.
type Message struct {
	ID          string     `db:"id" json:"id"`
	Content     string     `db:"content" json:"content"`
	SenderID    string     `db:"sender_id" json:"sender_id"`
	RecipientID string     `db:"recipient_id" json:"recipient_id"`
	Read        bool       `db:"read" json:"read"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	Sender      PublicUser `db:"-" json:"sender"`
	Recipient   PublicUser `db:"-" json:"recipient"`
}

// ConversationSummary is one row of the conversation index: a
// counterpart annotated with last activity and the viewer's unread
// count. Derived on every read, never persisted.
type ConversationSummary struct {
	UserID        string    `db:"user_id" json:"user_id"`
	UserName      string    `db:"user_name" json:"user_name"`
	UserImage     *string   `db:"user_image" json:"user_image"`
	LastMessageAt time.Time `db:"last_message_at" json:"last_message_at"`
	UnreadCount   int       `db:"unread_count" json:"unread_count"`
}

// MessageEvent is broadcasted through websockets.
type MessageEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message,omitempty"`
}
