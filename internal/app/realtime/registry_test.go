package realtime

import (
	"testing"
)

// newTestSession builds a session with no transport attached; the dispatch and
// queueing paths never touch the connection until a pump is started.
func newTestSession() *Session {
	return NewSession(nil, nil)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	sess := newTestSession()

	registry.Register("user-1", sess)

	got := registry.Lookup("user-1")
	if len(got) != 1 {
		t.Fatalf("Lookup returned %d sessions, want 1", len(got))
	}
	if got[0].Handle() != sess.Handle() {
		t.Errorf("Lookup returned handle %s, want %s", got[0].Handle(), sess.Handle())
	}
	if !registry.IsOnline("user-1") {
		t.Error("IsOnline returned false for a registered user")
	}
}

func TestRegistryMultipleConnectionsPerUser(t *testing.T) {
	registry := NewRegistry()
	first := newTestSession()
	second := newTestSession()
	third := newTestSession()

	registry.Register("user-1", first)
	registry.Register("user-1", second)
	registry.Register("user-1", third)

	got := registry.Lookup("user-1")
	if len(got) != 3 {
		t.Fatalf("Lookup returned %d sessions, want 3", len(got))
	}

	handles := make(map[string]bool, len(got))
	for _, sess := range got {
		handles[sess.Handle()] = true
	}
	for _, want := range []*Session{first, second, third} {
		if !handles[want.Handle()] {
			t.Errorf("Lookup result missing handle %s", want.Handle())
		}
	}
}

func TestRegistryRegisterIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	sess := newTestSession()

	registry.Register("user-1", sess)
	registry.Register("user-1", sess)
	registry.Register("user-1", sess)

	if got := registry.Lookup("user-1"); len(got) != 1 {
		t.Fatalf("Lookup returned %d sessions after repeated Register, want 1", len(got))
	}
}

func TestRegistryHandleMovesBetweenUsers(t *testing.T) {
	registry := NewRegistry()
	sess := newTestSession()

	registry.Register("user-1", sess)
	registry.Register("user-2", sess)

	if got := registry.Lookup("user-1"); len(got) != 0 {
		t.Errorf("handle still listed under old user: %d sessions", len(got))
	}
	if got := registry.Lookup("user-2"); len(got) != 1 {
		t.Errorf("Lookup for new user returned %d sessions, want 1", len(got))
	}
	if registry.IsOnline("user-1") {
		t.Error("old user still reported online after its only handle moved")
	}
}

func TestRegistryUnregister(t *testing.T) {
	registry := NewRegistry()
	first := newTestSession()
	second := newTestSession()

	registry.Register("user-1", first)
	registry.Register("user-1", second)

	registry.Unregister(first.Handle())

	got := registry.Lookup("user-1")
	if len(got) != 1 {
		t.Fatalf("Lookup returned %d sessions after Unregister, want 1", len(got))
	}
	if got[0].Handle() != second.Handle() {
		t.Errorf("wrong session removed: remaining handle is %s, want %s", got[0].Handle(), second.Handle())
	}

	registry.Unregister(second.Handle())

	if registry.IsOnline("user-1") {
		t.Error("user still reported online after all handles unregistered")
	}
	if got := registry.Lookup("user-1"); len(got) != 0 {
		t.Errorf("Lookup returned %d sessions for fully disconnected user, want 0", len(got))
	}
}

func TestRegistryUnregisterUnknownHandleIsNoOp(t *testing.T) {
	registry := NewRegistry()
	sess := newTestSession()
	registry.Register("user-1", sess)

	registry.Unregister("never-registered")
	registry.Unregister(sess.Handle())
	registry.Unregister(sess.Handle())

	if registry.IsOnline("user-1") {
		t.Error("user still reported online after Unregister")
	}
}

func TestRegistryOnlineCount(t *testing.T) {
	registry := NewRegistry()

	if got := registry.OnlineCount(); got != 0 {
		t.Fatalf("OnlineCount on empty registry = %d, want 0", got)
	}

	a1 := newTestSession()
	a2 := newTestSession()
	b1 := newTestSession()

	registry.Register("user-a", a1)
	registry.Register("user-a", a2)
	registry.Register("user-b", b1)

	if got := registry.OnlineCount(); got != 2 {
		t.Errorf("OnlineCount = %d, want 2 distinct users", got)
	}

	registry.Unregister(a1.Handle())
	if got := registry.OnlineCount(); got != 2 {
		t.Errorf("OnlineCount = %d after partial disconnect, want 2", got)
	}

	registry.Unregister(a2.Handle())
	if got := registry.OnlineCount(); got != 1 {
		t.Errorf("OnlineCount = %d after full disconnect, want 1", got)
	}
}

func TestRegistryIgnoresEmptyArguments(t *testing.T) {
	registry := NewRegistry()

	registry.Register("", newTestSession())
	registry.Register("user-1", nil)

	if got := registry.OnlineCount(); got != 0 {
		t.Errorf("OnlineCount = %d after invalid Register calls, want 0", got)
	}
}
