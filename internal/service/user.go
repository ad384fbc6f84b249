// Package service provides business logic for the application.
package service

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/relayhub/relayhub/internal/auth"
	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/model"
)

// UserStore is the persistence surface the user service depends on.
// *repository.Repository satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	CreateUserWithKey(ctx context.Context, username, email string, key *model.APIKey) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	DeleteUserByID(ctx context.Context, id int64) (*model.User, error)
}

// UserService handles registration, lookup and deletion of users.
type UserService struct {
	store UserStore
}

// NewUserService creates a new UserService.
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// Register creates a user together with its single API key and returns
// the new id and the plaintext token. The two rows are written in one
// transaction: a username or email conflict leaves no orphan key behind.
func (s *UserService) Register(ctx context.Context, username, email string) (*model.RegisteredUser, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, fault.Invalidf("username", "username is required")
	}
	if email == "" {
		return nil, fault.Invalidf("email", "email is required")
	}

	key := &model.APIKey{
		ID:  ulid.Make().String(),
		Key: auth.GenerateToken(),
	}

	user, err := s.store.CreateUserWithKey(ctx, username, email, key)
	if err != nil {
		return nil, err
	}

	return &model.RegisteredUser{ID: user.ID, APIKey: key.Key}, nil
}

// GetByID returns the user with the given id, or NotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// GetByUsername returns the user with the given username. A nil user
// means no match; callers decide whether absence is an error.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.store.GetUserByUsername(ctx, username)
}

// DeleteByID hard-deletes the user and returns the deleted snapshot.
// The user's API key is removed in the same statement by cascade, so the
// token stops resolving immediately.
func (s *UserService) DeleteByID(ctx context.Context, id int64) (*model.User, error) {
	return s.store.DeleteUserByID(ctx, id)
}
