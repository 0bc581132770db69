/*
Package realtime contains the core logic for user presence tracking and live event delivery.

This file defines the Registry, the single owner of the mapping from a user identity
to the set of live connections bound to it. One user may hold several simultaneous
connections (multiple tabs or devices); one connection belongs to at most one user.
*/
package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"routeshare/internal/pkg/logx"
)

// Registry tracks which users currently have live, bound connections.
// It is the only shared mutable state of the realtime core; every operation
// takes the mutex and releases it before any I/O happens on the result.
type Registry struct {
	// mu protects users and owners.
	mu sync.RWMutex

	// users maps a user ID to that user's live sessions, keyed by connection handle.
	users map[string]map[string]*Session

	// owners maps a connection handle back to the user ID it is registered under,
	// enforcing that a handle appears under at most one user.
	owners map[string]string

	// structured logger with registry context.
	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		users:  make(map[string]map[string]*Session),
		owners: make(map[string]string),
		logger: logx.Logger().With().Str("component", "registry").Logger(),
	}
}

// Register adds the session's handle to the set for userID. Re-registering the
// same (user, handle) pair is a no-op. A handle already registered under a
// different user is moved; one-time binding makes that impossible in the normal
// flow, but the registry tolerates it rather than trusting its callers.
func (r *Registry) Register(userID string, sess *Session) {
	if userID == "" || sess == nil {
		return
	}

	handle := sess.Handle()

	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.owners[handle]; ok {
		if owner == userID {
			return
		}

		r.logger.Warn().
			Str("handle", handle).
			Str("old_user", owner).
			Str("new_user", userID).
			Msg("Handle re-registered under a different user. Moving it.")

		r.removeLocked(owner, handle)
	}

	sessions, ok := r.users[userID]
	if !ok {
		sessions = make(map[string]*Session)
		r.users[userID] = sessions
	}

	sessions[handle] = sess
	r.owners[handle] = userID

	r.logger.Info().
		Str("user_id", userID).
		Str("handle", handle).
		Int("connections", len(sessions)).
		Msg("Connection registered.")
}

// Unregister removes the handle from whichever user's set contains it.
// It is a no-op, not an error, if the handle is unknown; calling it twice for
// the same handle is safe.
func (r *Registry) Unregister(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.owners[handle]
	if !ok {
		return
	}

	r.removeLocked(userID, handle)

	r.logger.Info().
		Str("user_id", userID).
		Str("handle", handle).
		Msg("Connection unregistered.")
}

// removeLocked deletes the handle from both indexes. Empty per-user sets are
// pruned so lookup for an offline user simply finds nothing. Caller holds mu.
func (r *Registry) removeLocked(userID, handle string) {
	delete(r.owners, handle)

	sessions, ok := r.users[userID]
	if !ok {
		return
	}

	delete(sessions, handle)
	if len(sessions) == 0 {
		delete(r.users, userID)
	}
}

// Lookup returns a snapshot of the live sessions for userID. The copy lets
// callers push to connections without holding the registry lock across network
// writes. An unknown or offline user yields an empty slice, never an error.
func (r *Registry) Lookup(userID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := r.users[userID]
	if len(sessions) == 0 {
		return nil
	}

	snapshot := make([]*Session, 0, len(sessions))
	for _, sess := range sessions {
		snapshot = append(snapshot, sess)
	}

	return snapshot
}

// IsOnline reports whether the user currently has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users[userID]) > 0
}

// OnlineCount returns the number of distinct users with at least one live connection.
func (r *Registry) OnlineCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}
