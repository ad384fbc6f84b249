package repository

import (
	"context"
	"fmt"

	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/model"
)

// CreateMessage inserts a message. The recipient foreign key is checked
// by the insert itself, so a peer deleted between username resolution and
// this call surfaces as UnknownRecipient instead of a server fault.
func (r *Repository) CreateMessage(ctx context.Context, srcID, dstID int64, content string) (*model.Message, error) {
	msg := &model.Message{SrcID: srcID, DstID: dstID, Content: content}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (src_id, dst_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		srcID, dstID, content,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fault.FromStore(fmt.Errorf("insert message: %w", err))
	}
	return msg, nil
}

// GetConversation returns every message exchanged between the two users,
// in either direction, ordered by creation time ascending. The id column
// breaks timestamp ties in insertion order.
func (r *Repository) GetConversation(ctx context.Context, userID, peerID int64) ([]*model.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, src_id, dst_id, content, created_at
		 FROM messages
		 WHERE (src_id = $1 AND dst_id = $2) OR (src_id = $2 AND dst_id = $1)
		 ORDER BY created_at ASC, id ASC`,
		userID, peerID)
	if err != nil {
		return nil, fault.FromStore(fmt.Errorf("query conversation: %w", err))
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.SrcID, &msg.DstID, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fault.FromStore(fmt.Errorf("scan message: %w", err))
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fault.FromStore(fmt.Errorf("iterate conversation: %w", err))
	}

	return messages, nil
}
