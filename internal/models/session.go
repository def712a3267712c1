package models

import "time"

// Session is the decoded view of a signed auth token. It is never stored
// server-side; a changed name or role is only reflected after a fresh
// login, and staleness is bounded by ExpiresAt.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
