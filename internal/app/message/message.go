/*
Package message owns persistence of point-to-point chat messages.

A chat message is always saved before any live delivery attempt is made; the
stored record is the durable source of truth a client pulls on reconnect.
*/
package message

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MaxBodyBytes is the maximum allowed size (in bytes) of a chat message body.
const MaxBodyBytes = 5000

// Message is a persisted chat message with sender/receiver display fields resolved.
type Message struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	ReceiverID   string    `json:"receiverId"`
	ReceiverName string    `json:"receiverName"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store provides database access for chat messages.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Save inserts a new chat message and returns the populated record, including
// the sender and receiver display names.
func (s *Store) Save(ctx context.Context, senderID, receiverID, text string) (Message, error) {
	const query = `
		WITH inserted AS (
			INSERT INTO messages (sender_id, receiver_id, body)
			VALUES ($1, $2, $3)
			RETURNING id, sender_id, receiver_id, body, created_at
		)
		SELECT i.id, i.sender_id, su.name, i.receiver_id, ru.name, i.body, i.created_at
		FROM inserted i
		JOIN users su ON su.id = i.sender_id
		JOIN users ru ON ru.id = i.receiver_id`

	var m Message
	err := s.pool.QueryRow(ctx, query, senderID, receiverID, text).Scan(
		&m.ID, &m.SenderID, &m.SenderName, &m.ReceiverID, &m.ReceiverName, &m.Text, &m.CreatedAt,
	)
	if err != nil {
		return Message{}, fmt.Errorf("save message: %w", err)
	}

	return m, nil
}

// Conversation returns the message history between two users, oldest first,
// capped at limit rows. It is the pull path offline receivers use on reconnect.
func (s *Store) Conversation(ctx context.Context, userA, userB string, limit int) ([]Message, error) {
	const query = `
		SELECT m.id, m.sender_id, su.name, m.receiver_id, ru.name, m.body, m.created_at
		FROM messages m
		JOIN users su ON su.id = m.sender_id
		JOIN users ru ON ru.id = m.receiver_id
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC
		LIMIT $3`

	rows, err := s.pool.Query(ctx, query, userA, userB, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	var result []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.ReceiverID, &m.ReceiverName, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message row: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return result, nil
}
