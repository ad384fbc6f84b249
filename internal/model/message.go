// Package model defines domain entities for the application.
package model

import "time"

// Message is a single direct message between two distinct users.
// Messages are immutable once created; id preserves insertion order
// for messages sharing a created_at timestamp.
type Message struct {
	ID        int64     `json:"id"`
	SrcID     int64     `json:"src_id"`
	DstID     int64     `json:"dst_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationMessage is the outward view of a message: endpoints are
// relabeled to usernames, internal ids never leave the service layer.
type ConversationMessage struct {
	Src       string    `json:"src"`
	Dst       string    `json:"dst"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
