package service

import (
	"context"
	"strings"

	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/model"
)

// MessageStore is the persistence surface the message service depends on.
type MessageStore interface {
	CreateMessage(ctx context.Context, srcID, dstID int64, content string) (*model.Message, error)
	GetConversation(ctx context.Context, userID, peerID int64) ([]*model.Message, error)
}

// PeerResolver resolves usernames to users. Absence is a nil user.
type PeerResolver interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// MessageService handles sending messages and reading conversations.
type MessageService struct {
	store MessageStore
	users PeerResolver
}

// NewMessageService creates a new MessageService.
func NewMessageService(store MessageStore, users PeerResolver) *MessageService {
	return &MessageService{store: store, users: users}
}

// Send delivers a message from the authenticated caller to the named
// recipient. Validation happens before any write: an unknown recipient or
// a self-send persists nothing. The recipient may still vanish between
// resolution and insert; the insert's foreign key turns that race into
// UnknownRecipient rather than a server fault.
func (s *MessageService) Send(ctx context.Context, srcID int64, dstUsername, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fault.Invalidf("content", "content is required")
	}

	dst, err := s.users.GetUserByUsername(ctx, dstUsername)
	if err != nil {
		return nil, err
	}
	if dst == nil {
		return nil, fault.UnknownRecipientf(dstUsername)
	}
	if dst.ID == srcID {
		return nil, fault.SelfMessagef()
	}

	return s.store.CreateMessage(ctx, srcID, dst.ID, content)
}

// ReadConversation returns every message exchanged between the caller and
// the named peer, in either direction, ordered by creation time ascending.
// Endpoints are relabeled to the two usernames; internal ids are not part
// of the result.
func (s *MessageService) ReadConversation(ctx context.Context, callerID int64, callerUsername, peerUsername string) ([]model.ConversationMessage, error) {
	if peerUsername == callerUsername {
		return nil, fault.SelfConversationf()
	}

	peer, err := s.users.GetUserByUsername(ctx, peerUsername)
	if err != nil {
		return nil, err
	}
	if peer == nil {
		return nil, fault.UnknownRecipientf(peerUsername)
	}

	messages, err := s.store.GetConversation(ctx, callerID, peer.ID)
	if err != nil {
		return nil, err
	}

	conversation := make([]model.ConversationMessage, 0, len(messages))
	for _, msg := range messages {
		cm := model.ConversationMessage{
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
		if msg.SrcID == callerID {
			cm.Src, cm.Dst = callerUsername, peerUsername
		} else {
			cm.Src, cm.Dst = peerUsername, callerUsername
		}
		conversation = append(conversation, cm)
	}

	return conversation, nil
}
