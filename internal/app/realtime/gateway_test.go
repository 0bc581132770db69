package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"routeshare/internal/app/message"
	"routeshare/internal/pkg/errs"
)

// fakeMessageStore records saved messages in memory and can be told to fail.
type fakeMessageStore struct {
	saved   []message.Message
	failure error
}

func (f *fakeMessageStore) Save(ctx context.Context, senderID, receiverID, text string) (message.Message, error) {
	if f.failure != nil {
		return message.Message{}, f.failure
	}

	record := message.Message{
		ID:         fmt.Sprintf("msg-%d", len(f.saved)+1),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  time.Now(),
	}
	f.saved = append(f.saved, record)
	return record, nil
}

// registerSession drives the register-user event through the dispatch table and
// consumes the resulting ack frame.
func registerSession(t *testing.T, gw *Gateway, sess *Session, userID string) {
	t.Helper()

	payload, _ := json.Marshal(RegisterPayload{UserID: userID})
	gw.dispatch(context.Background(), sess, Envelope{
		Event:   EventRegisterUser,
		Payload: payload,
		AckID:   "reg-" + userID,
	})

	env := takeFrame(t, sess)
	if env.Event != EventAck {
		t.Fatalf("register produced event %q, want %q", env.Event, EventAck)
	}

	var ack AckPayload
	if err := json.Unmarshal(env.Payload, &ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if !ack.Success {
		t.Fatalf("register ack failed: code=%d message=%q", ack.Code, ack.Message)
	}
}

// decodeAck pops the next frame off a session and asserts it is an ack.
func decodeAck(t *testing.T, sess *Session) AckPayload {
	t.Helper()

	env := takeFrame(t, sess)
	if env.Event != EventAck {
		t.Fatalf("expected ack frame, got event %q", env.Event)
	}

	var ack AckPayload
	if err := json.Unmarshal(env.Payload, &ack); err != nil {
		t.Fatalf("decode ack payload: %v", err)
	}
	return ack
}

func TestGatewayRegisterBindsSession(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})
	sess := NewSession(gw, nil)

	registerSession(t, gw, sess, "driver-7")

	if got := sess.BoundUser(); got != "driver-7" {
		t.Errorf("BoundUser = %q, want %q", got, "driver-7")
	}
	if !gw.Registry().IsOnline("driver-7") {
		t.Error("registered user not reported online")
	}
}

func TestGatewayRebindToDifferentUserRejected(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})
	sess := NewSession(gw, nil)

	registerSession(t, gw, sess, "user-1")

	payload, _ := json.Marshal(RegisterPayload{UserID: "user-2"})
	gw.dispatch(context.Background(), sess, Envelope{Event: EventRegisterUser, Payload: payload, AckID: "a1"})

	ack := decodeAck(t, sess)
	if ack.Success {
		t.Fatal("rebinding the connection to another identity succeeded")
	}
	if ack.Code != errs.ErrAlreadyLoggedIn {
		t.Errorf("ack code = %d, want %d", ack.Code, errs.ErrAlreadyLoggedIn)
	}

	if got := sess.BoundUser(); got != "user-1" {
		t.Errorf("BoundUser changed to %q after rejected rebind", got)
	}
	if gw.Registry().IsOnline("user-2") {
		t.Error("rejected identity shows as online")
	}
}

func TestGatewaySendMessageDeliversToReceiver(t *testing.T) {
	store := &fakeMessageStore{}
	gw := NewGateway(store)

	sender := NewSession(gw, nil)
	receiver := NewSession(gw, nil)
	registerSession(t, gw, sender, "alice")
	registerSession(t, gw, receiver, "bob")

	payload, _ := json.Marshal(SendMessagePayload{ReceiverID: "bob", Text: "pickup at 8?"})
	gw.dispatch(context.Background(), sender, Envelope{Event: EventSendMessage, Payload: payload, AckID: "m1"})

	if len(store.saved) != 1 {
		t.Fatalf("store holds %d messages, want 1", len(store.saved))
	}
	saved := store.saved[0]
	if saved.SenderID != "alice" || saved.ReceiverID != "bob" || saved.Text != "pickup at 8?" {
		t.Errorf("saved record = %+v", saved)
	}

	// Receiver gets the persisted record live.
	env := takeFrame(t, receiver)
	if env.Event != EventReceiveMessage {
		t.Fatalf("receiver got event %q, want %q", env.Event, EventReceiveMessage)
	}
	var delivered message.Message
	if err := json.Unmarshal(env.Payload, &delivered); err != nil {
		t.Fatalf("decode delivered message: %v", err)
	}
	if delivered.ID != saved.ID {
		t.Errorf("delivered message id %q, want %q", delivered.ID, saved.ID)
	}

	// Sender gets a success ack echoing the record.
	ack := decodeAck(t, sender)
	if !ack.Success {
		t.Errorf("send ack failed: code=%d message=%q", ack.Code, ack.Message)
	}
	if ack.AckID != "m1" {
		t.Errorf("ack id = %q, want %q", ack.AckID, "m1")
	}
}

func TestGatewaySendMessageFanOutToEveryDevice(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})

	sender := NewSession(gw, nil)
	phone := NewSession(gw, nil)
	laptop := NewSession(gw, nil)
	registerSession(t, gw, sender, "alice")
	registerSession(t, gw, phone, "bob")
	registerSession(t, gw, laptop, "bob")

	payload, _ := json.Marshal(SendMessagePayload{ReceiverID: "bob", Text: "hi"})
	gw.dispatch(context.Background(), sender, Envelope{Event: EventSendMessage, Payload: payload})

	for _, device := range []*Session{phone, laptop} {
		env := takeFrame(t, device)
		if env.Event != EventReceiveMessage {
			t.Errorf("device %s got event %q, want %q", device.Handle(), env.Event, EventReceiveMessage)
		}
		assertNoFrame(t, device)
	}

	// No ackId, no ack.
	assertNoFrame(t, sender)
}

func TestGatewaySendMessageToOfflineReceiver(t *testing.T) {
	store := &fakeMessageStore{}
	gw := NewGateway(store)

	sender := NewSession(gw, nil)
	registerSession(t, gw, sender, "alice")

	payload, _ := json.Marshal(SendMessagePayload{ReceiverID: "offline-bob", Text: "see you"})
	gw.dispatch(context.Background(), sender, Envelope{Event: EventSendMessage, Payload: payload, AckID: "m1"})

	// The message is still persisted and the send still succeeds.
	if len(store.saved) != 1 {
		t.Fatalf("store holds %d messages, want 1", len(store.saved))
	}
	if ack := decodeAck(t, sender); !ack.Success {
		t.Errorf("send to offline receiver failed: code=%d", ack.Code)
	}
}

func TestGatewaySendMessagePersistenceFailure(t *testing.T) {
	store := &fakeMessageStore{failure: errors.New("connection refused")}
	gw := NewGateway(store)

	sender := NewSession(gw, nil)
	receiver := NewSession(gw, nil)
	registerSession(t, gw, sender, "alice")
	registerSession(t, gw, receiver, "bob")

	payload, _ := json.Marshal(SendMessagePayload{ReceiverID: "bob", Text: "lost"})
	gw.dispatch(context.Background(), sender, Envelope{Event: EventSendMessage, Payload: payload, AckID: "m1"})

	ack := decodeAck(t, sender)
	if ack.Success {
		t.Fatal("send succeeded despite persistence failure")
	}
	if ack.Code != errs.ErrPersistenceFailed {
		t.Errorf("ack code = %d, want %d", ack.Code, errs.ErrPersistenceFailed)
	}

	// An unsaved message is never delivered.
	assertNoFrame(t, receiver)
}

func TestGatewaySendMessageFromUnboundSession(t *testing.T) {
	store := &fakeMessageStore{}
	gw := NewGateway(store)

	sess := NewSession(gw, nil)

	payload, _ := json.Marshal(SendMessagePayload{ReceiverID: "bob", Text: "hi"})
	gw.dispatch(context.Background(), sess, Envelope{Event: EventSendMessage, Payload: payload, AckID: "m1"})

	ack := decodeAck(t, sess)
	if ack.Success {
		t.Fatal("unbound session was allowed to send")
	}
	if ack.Code != errs.ErrUnboundSession {
		t.Errorf("ack code = %d, want %d", ack.Code, errs.ErrUnboundSession)
	}
	if len(store.saved) != 0 {
		t.Errorf("store holds %d messages from an unbound session, want 0", len(store.saved))
	}
}

func TestGatewayTypingFromUnboundSession(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})

	receiver := NewSession(gw, nil)
	registerSession(t, gw, receiver, "x")

	unbound := NewSession(gw, nil)
	payload, _ := json.Marshal(TypingPayload{ReceiverID: "x"})
	gw.dispatch(context.Background(), unbound, Envelope{Event: EventTyping, Payload: payload, AckID: "t1"})

	ack := decodeAck(t, unbound)
	if ack.Success {
		t.Fatal("unbound session was allowed to signal typing")
	}
	if ack.Code != errs.ErrUnboundSession {
		t.Errorf("ack code = %d, want %d", ack.Code, errs.ErrUnboundSession)
	}

	// The rejection stays local.
	assertNoFrame(t, receiver)
}

func TestGatewayRejectsMalformedPayloads(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})
	sess := NewSession(gw, nil)
	registerSession(t, gw, sess, "alice")

	cases := []struct {
		name    string
		event   string
		payload string
	}{
		{"send garbage", EventSendMessage, `"not an object"`},
		{"send missing receiver", EventSendMessage, `{"text":"hi"}`},
		{"send empty text", EventSendMessage, `{"receiverId":"bob","text":""}`},
		{"typing garbage", EventTyping, `42`},
		{"typing missing receiver", EventTyping, `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw.dispatch(context.Background(), sess, Envelope{
				Event:   tc.event,
				Payload: json.RawMessage(tc.payload),
				AckID:   "a1",
			})

			ack := decodeAck(t, sess)
			if ack.Success {
				t.Fatal("malformed payload accepted")
			}
			if ack.Code != errs.ErrMalformedEvent {
				t.Errorf("ack code = %d, want %d", ack.Code, errs.ErrMalformedEvent)
			}
		})
	}
}

func TestGatewayRejectsOversizedMessageBody(t *testing.T) {
	store := &fakeMessageStore{}
	gw := NewGateway(store)
	sess := NewSession(gw, nil)
	registerSession(t, gw, sess, "alice")

	payload, _ := json.Marshal(SendMessagePayload{
		ReceiverID: "bob",
		Text:       strings.Repeat("x", message.MaxBodyBytes+1),
	})
	gw.dispatch(context.Background(), sess, Envelope{Event: EventSendMessage, Payload: payload, AckID: "m1"})

	ack := decodeAck(t, sess)
	if ack.Success {
		t.Fatal("oversized message accepted")
	}
	if ack.Code != errs.ErrMessageContentTooLong {
		t.Errorf("ack code = %d, want %d", ack.Code, errs.ErrMessageContentTooLong)
	}
	if len(store.saved) != 0 {
		t.Errorf("oversized message was persisted")
	}
}

func TestGatewayRejectsUnknownEvent(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})
	sess := NewSession(gw, nil)

	gw.dispatch(context.Background(), sess, Envelope{Event: "self-destruct", AckID: "a1"})

	ack := decodeAck(t, sess)
	if ack.Success {
		t.Fatal("unknown event accepted")
	}
	if ack.Code != errs.ErrUnknownEvent {
		t.Errorf("ack code = %d, want %d", ack.Code, errs.ErrUnknownEvent)
	}
}

func TestGatewayTypingIndicator(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})

	sender := NewSession(gw, nil)
	receiver := NewSession(gw, nil)
	registerSession(t, gw, sender, "alice")
	registerSession(t, gw, receiver, "bob")

	payload, _ := json.Marshal(TypingPayload{ReceiverID: "bob"})
	gw.dispatch(context.Background(), sender, Envelope{Event: EventTyping, Payload: payload})

	env := takeFrame(t, receiver)
	if env.Event != EventUserTyping {
		t.Fatalf("receiver got event %q, want %q", env.Event, EventUserTyping)
	}

	var signal TypingSignal
	if err := json.Unmarshal(env.Payload, &signal); err != nil {
		t.Fatalf("decode typing signal: %v", err)
	}
	if signal.SenderID != "alice" {
		t.Errorf("typing senderId = %q, want %q", signal.SenderID, "alice")
	}
}

func TestGatewayNotifyReachesBoundConnections(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})

	owner := NewSession(gw, nil)
	registerSession(t, gw, owner, "owner-1")

	outcome := gw.Notify("owner-1", EventBookingRequest, map[string]string{"bookingId": "b-1"})
	if outcome.Attempted != 1 || outcome.Delivered != 1 {
		t.Fatalf("outcome = %+v, want Attempted=1 Delivered=1", outcome)
	}

	env := takeFrame(t, owner)
	if env.Event != EventBookingRequest {
		t.Errorf("notified event = %q, want %q", env.Event, EventBookingRequest)
	}

	// Fire-and-forget toward an offline target.
	if outcome := gw.Notify("nobody", EventBookingStatus, nil); !outcome.Unreachable() {
		t.Error("Notify to offline user reported reachable")
	}
}

func TestGatewaySessionClosedRemovesPresence(t *testing.T) {
	gw := NewGateway(&fakeMessageStore{})

	sess := NewSession(gw, nil)
	registerSession(t, gw, sess, "alice")

	gw.sessionClosed(sess)
	sess.closeSendQueue()

	if gw.Registry().IsOnline("alice") {
		t.Error("user still online after session close")
	}

	// A fresh connection registers independently of the dead one.
	next := NewSession(gw, nil)
	registerSession(t, gw, next, "alice")

	if next.Handle() == sess.Handle() {
		t.Error("reconnect reused the old connection handle")
	}
	if !gw.Registry().IsOnline("alice") {
		t.Error("user not online after reconnect")
	}

	// Delivery only reaches the live connection.
	outcome := gw.Notify("alice", EventBookingStatus, nil)
	if outcome.Attempted != 1 || outcome.Delivered != 1 {
		t.Errorf("outcome after reconnect = %+v, want Attempted=1 Delivered=1", outcome)
	}
}
