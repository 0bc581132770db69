/*
Package journey owns persistence of published journeys (rides offered by drivers).

The booking workflow resolves a journey's owner here to decide who receives the
realtime booking-request notification.
*/
package journey

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Journey represents a published ride offer.
type Journey struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId"`
	LeaveFrom      Point      `json:"leaveFrom"`
	GoingTo        Point      `json:"goingTo"`
	DepartDate     time.Time  `json:"date"`
	ArrivalDate    *time.Time `json:"arrivalDate,omitempty"`
	DepartureTime  string     `json:"departureTime,omitempty"`
	ArrivalTime    string     `json:"arrivalTime,omitempty"`
	MaxCapacity    int        `json:"maxCapacity"`
	AvailableSeats int        `json:"availableSeats"`
	FareStart      string     `json:"fareStart"`
	CostPerKg      string     `json:"costPerKg"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Store provides database access for journeys.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateParams holds the fields required to publish a journey.
type CreateParams struct {
	UserID        string
	LeaveFrom     Point
	GoingTo       Point
	DepartDate    time.Time
	ArrivalDate   *time.Time
	DepartureTime string
	ArrivalTime   string
	MaxCapacity   int
	FareStart     string
	CostPerKg     string
}

const journeyColumns = `id, user_id, leave_from_lat, leave_from_lng, going_to_lat, going_to_lng,
		depart_date, arrival_date, departure_time, arrival_time,
		max_capacity, available_seats, fare_start, cost_per_kg, created_at`

func scanJourney(row interface{ Scan(dest ...any) error }) (Journey, error) {
	var j Journey
	err := row.Scan(
		&j.ID, &j.UserID, &j.LeaveFrom.Lat, &j.LeaveFrom.Lng, &j.GoingTo.Lat, &j.GoingTo.Lng,
		&j.DepartDate, &j.ArrivalDate, &j.DepartureTime, &j.ArrivalTime,
		&j.MaxCapacity, &j.AvailableSeats, &j.FareStart, &j.CostPerKg, &j.CreatedAt,
	)
	return j, err
}

// Create publishes a new journey. Available seats start at the maximum capacity.
func (s *Store) Create(ctx context.Context, params CreateParams) (Journey, error) {
	query := `
		INSERT INTO journeys (user_id, leave_from_lat, leave_from_lng, going_to_lat, going_to_lng,
			depart_date, arrival_date, departure_time, arrival_time,
			max_capacity, available_seats, fare_start, cost_per_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11, $12)
		RETURNING ` + journeyColumns

	j, err := scanJourney(s.pool.QueryRow(ctx, query,
		params.UserID, params.LeaveFrom.Lat, params.LeaveFrom.Lng, params.GoingTo.Lat, params.GoingTo.Lng,
		params.DepartDate, params.ArrivalDate, params.DepartureTime, params.ArrivalTime,
		params.MaxCapacity, params.FareStart, params.CostPerKg,
	))
	if err != nil {
		return Journey{}, fmt.Errorf("create journey: %w", err)
	}

	return j, nil
}

// GetByID fetches a single journey.
func (s *Store) GetByID(ctx context.Context, id string) (Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys WHERE id = $1`

	j, err := scanJourney(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return Journey{}, fmt.Errorf("get journey: %w", err)
	}

	return j, nil
}

// ListUpcoming returns journeys departing at or after the given time, soonest first.
func (s *Store) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Journey, error) {
	query := `SELECT ` + journeyColumns + ` FROM journeys
		WHERE depart_date >= $1 ORDER BY depart_date ASC LIMIT $2`

	rows, err := s.pool.Query(ctx, query, from, limit)
	if err != nil {
		return nil, fmt.Errorf("list journeys: %w", err)
	}
	defer rows.Close()

	var result []Journey
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("scan journey row: %w", err)
		}
		result = append(result, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journeys: %w", err)
	}

	return result, nil
}

// DecrementSeats reduces the journey's available seats by one,
// refusing to go below zero.
func (s *Store) DecrementSeats(ctx context.Context, id string) error {
	const query = `
		UPDATE journeys SET available_seats = available_seats - 1, updated_at = now()
		WHERE id = $1 AND available_seats > 0`

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("decrement seats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decrement seats: journey %s has no available seats", id)
	}

	return nil
}
