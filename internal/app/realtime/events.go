/*
Package realtime contains the core logic for user presence tracking and live event
delivery: the session lifecycle of each WebSocket connection, the registry binding
user identities to live connections, and the router fanning events out to them.

This file defines the wire protocol: the event envelope exchanged with clients and
the payload structures of every inbound and outbound event.
*/
package realtime

import "encoding/json"

// Inbound event names (client to server).
const (
	// EventRegisterUser binds the sending connection to a user identity.
	EventRegisterUser = "register-user"

	// EventSendMessage persists a chat message and requests live delivery to the receiver.
	EventSendMessage = "send-message"

	// EventTyping forwards a transient typing indicator to the receiver.
	EventTyping = "typing"
)

// Outbound event names (server to client).
const (
	// EventAck acknowledges an inbound event that carried an ackId.
	EventAck = "ack"

	// EventReceiveMessage carries a persisted chat message to its receiver.
	EventReceiveMessage = "receive-message"

	// EventUserTyping carries a typing indicator to its receiver.
	EventUserTyping = "user-typing"

	// EventBookingRequest notifies a journey owner of a new booking request.
	EventBookingRequest = "booking-request"

	// EventBookingAccepted notifies a booking requester that their request was accepted.
	EventBookingAccepted = "booking-accepted"

	// EventBookingStatus notifies the counterparty of any other booking status change.
	EventBookingStatus = "booking-status"
)

// Envelope is the framing structure for every event on the wire.
// AckID is optional: when an inbound event carries one, the server answers with
// an EventAck whose payload echoes the same AckID.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
	AckID   string          `json:"ackId,omitempty"`
}

// EncodeEvent marshals a payload and wraps it in an Envelope, returning the
// wire bytes ready to push to a connection.
func EncodeEvent(event string, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		Event:   event,
		Payload: payloadBytes,
	})
}

// RegisterPayload is the inbound payload of EventRegisterUser.
type RegisterPayload struct {
	UserID string `json:"userId"`
}

// SendMessagePayload is the inbound payload of EventSendMessage. The sender is
// always the session's bound user, never taken from the payload.
type SendMessagePayload struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// TypingPayload is the inbound payload of EventTyping.
type TypingPayload struct {
	ReceiverID string `json:"receiverId"`
}

// TypingSignal is the outbound payload of EventUserTyping. It is transient and
// never persisted.
type TypingSignal struct {
	SenderID string `json:"senderId"`
}

// AckPayload is the outbound payload of EventAck.
type AckPayload struct {
	AckID   string `json:"ackId"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
