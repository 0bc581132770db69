/*
Package realtime contains the core logic for user presence tracking and live event delivery.

This file defines the Router, which resolves a target user's live connections through
the Registry and fans a single logical event out to all of them.
*/
package realtime

import (
	"github.com/rs/zerolog"

	"routeshare/internal/pkg/logx"
)

// Outcome reports the result of one delivery attempt.
type Outcome struct {
	// Attempted is the number of live connections found for the target user
	// at lookup time.
	Attempted int

	// Delivered is the number of those connections the event was successfully
	// pushed to.
	Delivered int
}

// Unreachable reports whether the target user had no live connections at all.
// It is not an error: for chat the message is already persisted before delivery
// is attempted, and the receiver pulls it on the next fetch or reconnect.
func (o Outcome) Unreachable() bool {
	return o.Attempted == 0
}

// Router delivers events to every live connection of a target user.
type Router struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewRouter constructs a Router resolving targets through the given Registry.
func NewRouter(registry *Registry) *Router {
	return &Router{
		registry: registry,
		logger:   logx.Logger().With().Str("component", "router").Logger(),
	}
}

// Deliver pushes (event, payload) to every live connection of targetUserID.
// The registry lookup is snapshot-and-release: the handle set is copied under
// the lock, then each push happens on the copy. Pushes are independent; one
// failing connection never prevents delivery attempts to the others.
// Fan-out sends exactly one push per live handle, with no ordering guarantee
// between the handles of the same user.
func (rt *Router) Deliver(targetUserID, event string, payload any) Outcome {
	messageBytes, err := EncodeEvent(event, payload)
	if err != nil {
		rt.logger.Error().Err(err).
			Str("event", event).
			Str("target_user", targetUserID).
			Msg("Error marshaling event for delivery.")
		return Outcome{}
	}

	sessions := rt.registry.Lookup(targetUserID)
	if len(sessions) == 0 {
		rt.logger.Info().
			Str("event", event).
			Str("target_user", targetUserID).
			Msg("Target user has no live connections.")
		return Outcome{}
	}

	outcome := Outcome{Attempted: len(sessions)}

	for _, sess := range sessions {
		if err := sess.enqueue(messageBytes); err != nil {
			// The handle went stale between lookup and push. Best effort per
			// device: count the miss and keep going.
			rt.logger.Warn().Err(err).
				Str("event", event).
				Str("target_user", targetUserID).
				Str("handle", sess.Handle()).
				Msg("Push to connection failed.")
			continue
		}

		outcome.Delivered++
	}

	return outcome
}
