/*
Package realtime contains the core logic for user presence tracking and live event delivery.

This file defines the Gateway, the single entry/exit boundary of the realtime core.
It translates inbound wire events into core operations through an explicit dispatch
table and exposes the outbound Notify API used by the booking workflow.
*/
package realtime

import (
	"context"
	"encoding/json"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"routeshare/internal/app/message"
	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
)

// MessageStore is the persistence collaborator for chat messages. A message is
// always saved before live delivery is attempted; the Gateway never delivers
// an unsaved message.
type MessageStore interface {
	Save(ctx context.Context, senderID, receiverID, text string) (message.Message, error)
}

// eventHandler processes one inbound event for a session. It returns the data
// to acknowledge the sender with, or the error to reject the event locally.
// Handlers are pure with respect to the registry: they read presence state
// through the Router and never hold registry locks across persistence or
// network I/O.
type eventHandler func(ctx context.Context, sess *Session, payload json.RawMessage) (any, *errs.CustomError)

// Gateway owns the realtime core's wiring: the Registry tracking presence, the
// Router fanning events out, and the dispatch table of inbound event handlers.
// It is constructed once at server startup and shared by the transport handler
// and the booking workflow.
type Gateway struct {
	registry *Registry
	router   *Router
	messages MessageStore
	handlers map[string]eventHandler
	logger   zerolog.Logger
}

// NewGateway constructs a Gateway with a fresh Registry and Router.
func NewGateway(messages MessageStore) *Gateway {
	registry := NewRegistry()

	gw := &Gateway{
		registry: registry,
		router:   NewRouter(registry),
		messages: messages,
		logger:   logx.Logger().With().Str("component", "gateway").Logger(),
	}

	gw.handlers = map[string]eventHandler{
		EventRegisterUser: gw.handleRegisterUser,
		EventSendMessage:  gw.handleSendMessage,
		EventTyping:       gw.handleTyping,
	}

	return gw
}

// Registry exposes the presence registry for read-only collaborators
// (e.g., the user handler reporting online status).
func (gw *Gateway) Registry() *Registry {
	return gw.registry
}

// dispatch routes one inbound envelope to its handler and acknowledges the
// sender when the envelope carried an ackId. Unknown event names and handler
// failures are rejected locally; nothing here is fatal to the connection.
func (gw *Gateway) dispatch(ctx context.Context, sess *Session, env Envelope) {
	handler, ok := gw.handlers[env.Event]
	if !ok {
		gw.logger.Warn().
			Str("event", env.Event).
			Str("handle", sess.Handle()).
			Msg("Client sent unsupported event type")

		sess.sendAck(env.AckID, nil, errs.NewError(errs.ErrUnknownEvent))
		return
	}

	data, customErr := handler(ctx, sess, env.Payload)
	if customErr != nil {
		gw.logger.Warn().
			Str("event", env.Event).
			Str("handle", sess.Handle()).
			Int("code", customErr.Code).
			Msg("Inbound event rejected")
	}

	sess.sendAck(env.AckID, data, customErr)
}

// handleRegisterUser binds the session to a user identity and registers the
// connection with the presence registry. Re-registering the same identity on
// the same connection is a no-op; switching identities requires a new connection.
func (gw *Gateway) handleRegisterUser(ctx context.Context, sess *Session, payload json.RawMessage) (any, *errs.CustomError) {
	var input RegisterPayload
	if err := json.Unmarshal(payload, &input); err != nil || input.UserID == "" {
		return nil, errs.NewError(errs.ErrMalformedEvent)
	}

	if customErr := sess.bind(input.UserID); customErr != nil {
		return nil, customErr
	}

	gw.registry.Register(input.UserID, sess)

	return map[string]any{"userId": input.UserID, "handle": sess.Handle()}, nil
}

// handleSendMessage persists a chat message and then attempts live delivery to
// the receiver. Persistence precedes delivery: a failed save is surfaced to the
// sender and the receiver sees nothing. A receiver without live connections is
// not an error; the saved record is the durable source of truth.
func (gw *Gateway) handleSendMessage(ctx context.Context, sess *Session, payload json.RawMessage) (any, *errs.CustomError) {
	senderID := sess.BoundUser()
	if senderID == "" {
		return nil, errs.NewError(errs.ErrUnboundSession)
	}

	var input SendMessagePayload
	if err := json.Unmarshal(payload, &input); err != nil || input.ReceiverID == "" || input.Text == "" {
		return nil, errs.NewError(errs.ErrMalformedEvent)
	}

	if !utf8.ValidString(input.Text) || len(input.Text) > message.MaxBodyBytes {
		return nil, errs.NewError(errs.ErrMessageContentTooLong)
	}

	record, err := gw.messages.Save(ctx, senderID, input.ReceiverID, input.Text)
	if err != nil {
		gw.logger.Error().Err(err).
			Str("sender", senderID).
			Str("receiver", input.ReceiverID).
			Msg("Failed to persist chat message")
		return nil, errs.NewError(errs.ErrPersistenceFailed)
	}

	outcome := gw.router.Deliver(input.ReceiverID, EventReceiveMessage, record)
	if outcome.Unreachable() {
		gw.logger.Info().
			Str("receiver", input.ReceiverID).
			Str("message_id", record.ID).
			Msg("Receiver offline; message stored for later fetch.")
	}

	return record, nil
}

// handleTyping forwards a transient typing indicator to the receiver. Nothing
// is persisted; an offline receiver simply misses the signal.
func (gw *Gateway) handleTyping(ctx context.Context, sess *Session, payload json.RawMessage) (any, *errs.CustomError) {
	senderID := sess.BoundUser()
	if senderID == "" {
		return nil, errs.NewError(errs.ErrUnboundSession)
	}

	var input TypingPayload
	if err := json.Unmarshal(payload, &input); err != nil || input.ReceiverID == "" {
		return nil, errs.NewError(errs.ErrMalformedEvent)
	}

	gw.router.Deliver(input.ReceiverID, EventUserTyping, TypingSignal{SenderID: senderID})

	return nil, nil
}

// Notify is the outbound emission API for external workflow collaborators
// (e.g., the booking workflow announcing a new request). Delivery is
// fire-and-forget: the outcome tells the caller whether anyone was reachable,
// and an unreachable target is never an error.
func (gw *Gateway) Notify(targetUserID, event string, payload any) Outcome {
	outcome := gw.router.Deliver(targetUserID, event, payload)

	gw.logger.Info().
		Str("event", event).
		Str("target_user", targetUserID).
		Int("attempted", outcome.Attempted).
		Int("delivered", outcome.Delivered).
		Msg("Outbound notification routed.")

	return outcome
}

// sessionClosed is invoked by a session's cleanup path on transport-level
// disconnect. Removal from the registry never closes the connection; closing
// the connection always triggers removal here.
func (gw *Gateway) sessionClosed(sess *Session) {
	gw.registry.Unregister(sess.Handle())
}
