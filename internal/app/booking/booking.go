/*
Package booking owns the booking-approval workflow: persistence of booking
requests and the status transitions between pending, accepted, rejected, and
cancelled.

Booking notifications are delivered-only: they are emitted to whoever is online
at the moment of the state change and are not replayable on reconnect.
*/
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Booking status values.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Booking represents one booking request against a journey.
type Booking struct {
	ID          string    `json:"id"`
	RequestedBy string    `json:"requestedBy"`
	RequestedTo string    `json:"requestedTo"`
	JourneyID   string    `json:"journeyId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store provides database access for bookings.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const bookingColumns = `id, requested_by, requested_to, journey_id, status, created_at, updated_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.RequestedBy, &b.RequestedTo, &b.JourneyID, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Create inserts a new pending booking.
func (s *Store) Create(ctx context.Context, requestedBy, requestedTo, journeyID string) (Booking, error) {
	query := `
		INSERT INTO bookings (requested_by, requested_to, journey_id, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING ` + bookingColumns

	b, err := scanBooking(s.pool.QueryRow(ctx, query, requestedBy, requestedTo, journeyID))
	if err != nil {
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}

	return b, nil
}

// GetByID fetches a single booking.
func (s *Store) GetByID(ctx context.Context, id string) (Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}

	return b, nil
}

// HasActive reports whether the user already has a booking for the journey
// that is not rejected or cancelled.
func (s *Store) HasActive(ctx context.Context, requestedBy, journeyID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE requested_by = $1 AND journey_id = $2
			  AND status NOT IN ('rejected', 'cancelled')
		)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, requestedBy, journeyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active booking: %w", err)
	}

	return exists, nil
}

// UpdateStatus stores a new status for the booking and returns the updated record.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) (Booking, error) {
	query := `
		UPDATE bookings SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + bookingColumns

	b, err := scanBooking(s.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		return Booking{}, fmt.Errorf("update booking status: %w", err)
	}

	return b, nil
}

// ListForUser returns every booking the user sent or received, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE requested_by = $1 OR requested_to = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		result = append(result, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return result, nil
}
