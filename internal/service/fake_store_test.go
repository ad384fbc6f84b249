package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/model"
)

// fakeStore is an in-memory stand-in for the repository. It mirrors the
// store's fault classification: conflicts, not-found and broken recipient
// references come back as taxonomy errors, exactly like the real thing.
type fakeStore struct {
	mu         sync.Mutex
	nextUserID int64
	nextMsgID  int64
	users      map[int64]*model.User
	keys       map[int64]*model.APIKey
	messages   []*model.Message
	failWith   error // when set, every operation fails with this error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*model.User),
		keys:  make(map[int64]*model.APIKey),
	}
}

func (f *fakeStore) CreateUserWithKey(_ context.Context, username, email string, key *model.APIKey) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, fault.FromStore(f.failWith)
	}

	for _, u := range f.users {
		if u.Username == username {
			return nil, fault.Conflictf("username")
		}
		if u.Email == email {
			return nil, fault.Conflictf("email")
		}
	}

	f.nextUserID++
	user := &model.User{
		ID:        f.nextUserID,
		Username:  username,
		Email:     email,
		Active:    true,
		CreatedAt: time.Now(),
	}
	f.users[user.ID] = user

	key.UserID = user.ID
	key.CreatedAt = user.CreatedAt
	f.keys[user.ID] = key

	return user, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, fault.FromStore(f.failWith)
	}
	user, ok := f.users[id]
	if !ok {
		return nil, fault.NotFoundf("id", "")
	}
	return user, nil
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, fault.FromStore(f.failWith)
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByToken(_ context.Context, token string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, key := range f.keys {
		if key.Key == token {
			return f.users[id], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) DeleteUserByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, fault.FromStore(f.failWith)
	}
	user, ok := f.users[id]
	if !ok {
		return nil, fault.NotFoundf("id", "")
	}
	delete(f.users, id)
	delete(f.keys, id) // cascade
	return user, nil
}

func (f *fakeStore) CreateMessage(_ context.Context, srcID, dstID int64, content string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, fault.FromStore(f.failWith)
	}
	if _, ok := f.users[dstID]; !ok {
		// The real insert fails on the dst foreign key.
		return nil, fault.UnknownRecipientf("")
	}

	f.nextMsgID++
	msg := &model.Message{
		ID:        f.nextMsgID,
		SrcID:     srcID,
		DstID:     dstID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeStore) GetConversation(_ context.Context, userID, peerID int64) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, fault.FromStore(f.failWith)
	}

	var result []*model.Message
	for _, m := range f.messages {
		if (m.SrcID == userID && m.DstID == peerID) || (m.SrcID == peerID && m.DstID == userID) {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeStore) messageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func (f *fakeStore) keyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.keys)
}
