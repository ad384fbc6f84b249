// Package model defines domain entities for the application.
package model

import "time"

// APIKey represents the single credential owned by a user.
// The key value is an opaque token generated at registration and
// returned to the caller exactly once.
type APIKey struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Key       string    `json:"-"` // Never serialize
	CreatedAt time.Time `json:"created_at"`
}

// RegisteredUser is the registration result: the new user's id and
// the plaintext API key to show once.
type RegisteredUser struct {
	ID     int64  `json:"id"`
	APIKey string `json:"api_key"`
}
