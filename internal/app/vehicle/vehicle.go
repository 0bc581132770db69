/*
Package vehicle owns persistence of the vehicles a user offers rides with.
*/
package vehicle

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Vehicle represents one registered vehicle.
type Vehicle struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"licensePlate"`
	Capacity     int       `json:"capacity"`
	Type         string    `json:"type"`
	PhotoKey     string    `json:"photoKey,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store provides database access for vehicles.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateParams holds the fields required to register a vehicle.
type CreateParams struct {
	UserID       string
	Make         string
	Model        string
	LicensePlate string
	Capacity     int
	Type         string
	PhotoKey     string
}

// Create registers a new vehicle for the user.
func (s *Store) Create(ctx context.Context, params CreateParams) (Vehicle, error) {
	const query = `
		INSERT INTO vehicles (user_id, make, model, license_plate, capacity, vehicle_type, photo_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, make, model, license_plate, capacity, vehicle_type, photo_key, created_at`

	var v Vehicle
	err := s.pool.QueryRow(ctx, query,
		params.UserID, params.Make, params.Model, params.LicensePlate,
		params.Capacity, params.Type, params.PhotoKey,
	).Scan(&v.ID, &v.UserID, &v.Make, &v.Model, &v.LicensePlate, &v.Capacity, &v.Type, &v.PhotoKey, &v.CreatedAt)
	if err != nil {
		return Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}

	return v, nil
}

// ListForUser returns the user's vehicles, newest first.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]Vehicle, error) {
	const query = `
		SELECT id, user_id, make, model, license_plate, capacity, vehicle_type, photo_key, created_at
		FROM vehicles WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var result []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Make, &v.Model, &v.LicensePlate, &v.Capacity, &v.Type, &v.PhotoKey, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicles: %w", err)
	}

	return result, nil
}
