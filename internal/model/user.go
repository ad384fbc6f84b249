// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account. Each user owns exactly one
// API key, created together with the user and deleted with it.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
