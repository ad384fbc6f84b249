package service

import (
	"context"
	"testing"

	"github.com/relayhub/relayhub/internal/fault"
	"github.com/relayhub/relayhub/internal/model"
)

// twoUsers registers alice and bob and returns their registration results.
func twoUsers(t *testing.T, store *fakeStore) (alice, bob *model.RegisteredUser) {
	t.Helper()
	users := NewUserService(store)
	ctx := context.Background()

	alice, err := users.Register(ctx, "alice", "alice@x.com")
	if err != nil {
		t.Fatalf("Register alice failed: %v", err)
	}
	bob, err = users.Register(ctx, "bob", "bob@x.com")
	if err != nil {
		t.Fatalf("Register bob failed: %v", err)
	}
	return alice, bob
}

func TestSend_PersistsMessage(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, bob := twoUsers(t, store)
	svc := NewMessageService(store, store)

	msg, err := svc.Send(context.Background(), alice.ID, "bob", "hi")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if msg.SrcID != alice.ID || msg.DstID != bob.ID {
		t.Errorf("Expected message alice->bob, got %d->%d", msg.SrcID, msg.DstID)
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Message should carry a creation timestamp")
	}
}

func TestSend_SelfMessage(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, _ := twoUsers(t, store)
	svc := NewMessageService(store, store)

	_, err := svc.Send(context.Background(), alice.ID, "alice", "note to self")
	if fault.KindOf(err) != fault.SelfMessage {
		t.Fatalf("Expected SelfMessage, got %v", err)
	}
	if got := store.messageCount(); got != 0 {
		t.Errorf("Self-send must persist nothing, found %d messages", got)
	}
}

func TestSend_UnknownRecipient(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, _ := twoUsers(t, store)
	svc := NewMessageService(store, store)

	_, err := svc.Send(context.Background(), alice.ID, "ghost", "hello?")
	fe := fault.As(err)
	if fe.Kind != fault.UnknownRecipient {
		t.Fatalf("Expected UnknownRecipient, got %v", err)
	}
	if got := store.messageCount(); got != 0 {
		t.Errorf("Unknown recipient must persist nothing, found %d messages", got)
	}
}

func TestSend_EmptyContent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, _ := twoUsers(t, store)
	svc := NewMessageService(store, store)

	_, err := svc.Send(context.Background(), alice.ID, "bob", "   ")
	fe := fault.As(err)
	if fe.Kind != fault.Invalid || fe.Field != "content" {
		t.Errorf("Expected Invalid on content, got %v", err)
	}
	if got := store.messageCount(); got != 0 {
		t.Errorf("Invalid content must persist nothing, found %d messages", got)
	}
}

func TestSend_RecipientDeletedBetweenResolveAndInsert(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, bob := twoUsers(t, store)

	// Resolves bob but deletes him before the insert runs.
	resolver := &vanishingResolver{store: store, victimID: bob.ID}
	svc := NewMessageService(store, resolver)

	_, err := svc.Send(context.Background(), alice.ID, "bob", "too late")
	if fault.KindOf(err) != fault.UnknownRecipient {
		t.Errorf("Concurrent deletion should surface as UnknownRecipient, got %v", err)
	}
}

// vanishingResolver resolves a peer and then immediately deletes it,
// simulating a concurrent user deletion between check and act.
type vanishingResolver struct {
	store    *fakeStore
	victimID int64
}

func (v *vanishingResolver) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := v.store.GetUserByUsername(ctx, username)
	if err != nil || user == nil {
		return user, err
	}
	if user.ID == v.victimID {
		if _, err := v.store.DeleteUserByID(ctx, v.victimID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func TestReadConversation_Symmetric(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, bob := twoUsers(t, store)
	svc := NewMessageService(store, store)
	ctx := context.Background()

	sends := []struct {
		srcID   int64
		dst     string
		content string
	}{
		{alice.ID, "bob", "hi"},
		{bob.ID, "alice", "hey"},
		{alice.ID, "bob", "how are you"},
	}
	for _, s := range sends {
		if _, err := svc.Send(ctx, s.srcID, s.dst, s.content); err != nil {
			t.Fatalf("Send %q failed: %v", s.content, err)
		}
	}

	fromAlice, err := svc.ReadConversation(ctx, alice.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("ReadConversation(alice, bob) failed: %v", err)
	}
	fromBob, err := svc.ReadConversation(ctx, bob.ID, "bob", "alice")
	if err != nil {
		t.Fatalf("ReadConversation(bob, alice) failed: %v", err)
	}

	if len(fromAlice) != len(sends) || len(fromBob) != len(sends) {
		t.Fatalf("Expected %d messages from both sides, got %d and %d",
			len(sends), len(fromAlice), len(fromBob))
	}

	// Both views contain the same messages in the same chronological order.
	for i := range fromAlice {
		a, b := fromAlice[i], fromBob[i]
		if a.Src != b.Src || a.Dst != b.Dst || a.Content != b.Content {
			t.Errorf("Message %d differs between views: %+v vs %+v", i, a, b)
		}
	}

	// Chronological ascending, sender preserved per message.
	wantSrc := []string{"alice", "bob", "alice"}
	for i, cm := range fromAlice {
		if cm.Src != wantSrc[i] {
			t.Errorf("Message %d: expected src %q, got %q", i, wantSrc[i], cm.Src)
		}
		if cm.Content != sends[i].content {
			t.Errorf("Message %d: expected content %q, got %q", i, sends[i].content, cm.Content)
		}
		if i > 0 && cm.CreatedAt.Before(fromAlice[i-1].CreatedAt) {
			t.Errorf("Message %d out of chronological order", i)
		}
	}
}

func TestReadConversation_RelabelsEndpoints(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, _ := twoUsers(t, store)
	svc := NewMessageService(store, store)
	ctx := context.Background()

	if _, err := svc.Send(ctx, alice.ID, "bob", "hi"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	conv, err := svc.ReadConversation(ctx, alice.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("ReadConversation failed: %v", err)
	}
	if len(conv) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(conv))
	}
	if conv[0].Src != "alice" || conv[0].Dst != "bob" {
		t.Errorf("Expected src alice dst bob, got src %q dst %q", conv[0].Src, conv[0].Dst)
	}
}

func TestReadConversation_Self(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, _ := twoUsers(t, store)
	svc := NewMessageService(store, store)

	_, err := svc.ReadConversation(context.Background(), alice.ID, "alice", "alice")
	if fault.KindOf(err) != fault.SelfConversation {
		t.Errorf("Expected SelfConversation, got %v", err)
	}
}

func TestReadConversation_UnknownPeer(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, _ := twoUsers(t, store)
	svc := NewMessageService(store, store)

	_, err := svc.ReadConversation(context.Background(), alice.ID, "alice", "ghost")
	if fault.KindOf(err) != fault.UnknownRecipient {
		t.Errorf("Expected UnknownRecipient, got %v", err)
	}
}

func TestReadConversation_EmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	alice, _ := twoUsers(t, store)
	svc := NewMessageService(store, store)

	conv, err := svc.ReadConversation(context.Background(), alice.ID, "alice", "bob")
	if err != nil {
		t.Fatalf("ReadConversation failed: %v", err)
	}
	if len(conv) != 0 {
		t.Errorf("Expected empty conversation, got %d messages", len(conv))
	}
}
