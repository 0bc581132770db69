/*
Package realtime contains the core logic for user presence tracking and live event delivery.

This file defines the Session struct, representing one live WebSocket connection.
It manages the connection's lifecycle, the message communication loops (ReadPump and
WritePump), and the one-time binding of a user identity to the connection.
*/
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"routeshare/internal/pkg/errs"
	"routeshare/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192

	// capacity of the per-session outbound queue.
	sendQueueSize = 256
)

// Session represents one live WebSocket connection. It is created unbound at
// connect time and bound to a user identity exactly once, when the connection's
// register-user event arrives. A reconnect always produces a brand-new Session
// with a fresh handle; no state survives the transport-level disconnect.
type Session struct {
	// handle uniquely identifies this connection for its connect/disconnect
	// cycle. Handles are never reused.
	handle string

	// underlying WebSocket connection object. Nil sessions are constructed in
	// tests that exercise dispatch without a transport.
	conn *websocket.Conn

	// gateway that owns this session's lifecycle and dispatches its events.
	gateway *Gateway

	// send is the buffered queue of outbound wire frames for this connection.
	send chan []byte

	// mu guards boundUser and closed.
	mu sync.RWMutex

	// boundUser is empty until the register-user event arrives, then immutable.
	boundUser string

	// closed marks the send queue as shut down so late pushes fail cleanly
	// instead of panicking on a closed channel.
	closed bool

	// structured logger with session context.
	logger zerolog.Logger
}

// NewSession constructs an unbound Session for a freshly accepted connection.
func NewSession(gateway *Gateway, wsConn *websocket.Conn) *Session {
	handle := uuid.New().String()

	sessionLogger := logx.Logger().With().
		Str("component", "session").
		Str("handle", handle).
		Logger()

	return &Session{
		handle:  handle,
		conn:    wsConn,
		gateway: gateway,
		send:    make(chan []byte, sendQueueSize),
		logger:  sessionLogger,
	}
}

// Handle returns the connection handle.
func (s *Session) Handle() string {
	return s.handle
}

// BoundUser returns the user identity bound to this session, or "" while unbound.
func (s *Session) BoundUser() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.boundUser
}

// bind sets the session's user identity. The identity is set exactly once per
// connection lifetime; a second bind to a different user is rejected.
func (s *Session) bind(userID string) *errs.CustomError {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.boundUser != "" && s.boundUser != userID {
		return errs.NewError(errs.ErrAlreadyLoggedIn)
	}

	s.boundUser = userID
	return nil
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), event parsing, and performs cleanup upon
// connection closure. Events are processed sequentially, preserving the
// per-connection receipt order.
func (s *Session) ReadPump() {
	defer s.cleanupOnDisconnect()

	s.conn.SetReadLimit(maxMessageSize)

	if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		s.processInboundEvent(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the session's
// ReadPump terminates. Unregistering the handle happens unconditionally; the
// registry treats an unknown handle as a no-op, so this is safe for sessions
// that never bound an identity.
func (s *Session) cleanupOnDisconnect() {
	s.logger.Info().Str("user_id", s.BoundUser()).Msg("Session cleanup starting.")

	s.gateway.sessionClosed(s)

	s.closeSendQueue()

	if err := s.conn.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Session connection close error")
	}
}

// processInboundEvent parses a raw wire frame and hands it to the gateway's
// dispatch table. Malformed JSON never crashes the connection.
func (s *Session) processInboundEvent(messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		s.logger.Warn().Err(err).
			Bytes("message_bytes", messageBytes).
			Msg("Client sent invalid JSON")
		return
	}

	s.gateway.dispatch(context.Background(), s, env)
}

// enqueue places an already-encoded wire frame on the session's send queue.
// It never blocks: a full queue or a closed session causes the frame to be
// dropped and reported to the caller as a push failure.
func (s *Session) enqueue(message []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return fmt.Errorf("session %s is closed", s.handle)
	}

	select {
	case s.send <- message:
		return nil
	default:
		s.logger.Warn().Int("queue_len", len(s.send)).Msg("Session send queue full, dropping event")
		return fmt.Errorf("session %s send queue full", s.handle)
	}
}

// closeSendQueue marks the session closed and shuts the send channel so the
// WritePump drains and exits. Safe to call more than once.
func (s *Session) closeSendQueue() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true
	close(s.send)
}

// sendEvent encodes and queues an outbound event for this session.
func (s *Session) sendEvent(event string, payload any) error {
	messageBytes, err := EncodeEvent(event, payload)
	if err != nil {
		s.logger.Error().Err(err).Str("event", event).Msg("Error marshaling event for session")
		return err
	}

	return s.enqueue(messageBytes)
}

// sendAck answers an inbound event that carried an ackId. Events without an
// ackId are fire-and-forget from the client's perspective and get no answer.
func (s *Session) sendAck(ackID string, data any, customErr *errs.CustomError) {
	if ackID == "" {
		return
	}

	ack := AckPayload{
		AckID:   ackID,
		Success: customErr == nil,
		Data:    data,
	}

	if customErr != nil {
		ack.Code = customErr.Code
		ack.Message = customErr.Message
	}

	if err := s.sendEvent(EventAck, ack); err != nil {
		s.logger.Error().Err(err).Str("ack_id", ackID).Msg("Failed to queue ack")
	}
}

// WritePump handles writing frames from the Session.send channel to the
// WebSocket connection, interleaved with heartbeat pings.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := s.conn.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Session connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-s.send:
			if !s.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !s.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles frames pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (s *Session) writeQueuedMessage(message []byte, ok bool) bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := s.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			s.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		s.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (s *Session) writePingMessage() bool {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		s.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
