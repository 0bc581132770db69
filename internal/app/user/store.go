package user

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database access for user accounts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// CreateParams holds the fields required to create a new user account.
type CreateParams struct {
	Name         string
	Email        string
	Phone        string
	PasswordHash string
}

// Create inserts a new user account and returns the stored record.
func (s *Store) Create(ctx context.Context, params CreateParams) (User, error) {
	const query = `
		INSERT INTO users (name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, phone, avatar_key, rating, is_verified, role, created_at, password_hash`

	var u User
	err := s.pool.QueryRow(ctx, query, params.Name, params.Email, params.Phone, params.PasswordHash).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.AvatarKey,
		&u.Rating, &u.IsVerified, &u.Role, &u.CreatedAt, &u.PasswordHash,
	)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// GetByEmail looks up a user account by its email address.
func (s *Store) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
		SELECT id, name, email, phone, avatar_key, rating, is_verified, role, created_at, password_hash
		FROM users WHERE email = $1`

	var u User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.AvatarKey,
		&u.Rating, &u.IsVerified, &u.Role, &u.CreatedAt, &u.PasswordHash,
	)
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}

	return u, nil
}

// GetByID looks up a user account by its ID.
func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	const query = `
		SELECT id, name, email, phone, avatar_key, rating, is_verified, role, created_at, password_hash
		FROM users WHERE id = $1`

	var u User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.AvatarKey,
		&u.Rating, &u.IsVerified, &u.Role, &u.CreatedAt, &u.PasswordHash,
	)
	if err != nil {
		return User{}, fmt.Errorf("get user by id: %w", err)
	}

	return u, nil
}

// UpdateProfileParams holds the mutable profile fields.
type UpdateProfileParams struct {
	ID        string
	Name      string
	Phone     string
	AvatarKey string
}

// UpdateProfile updates the user's display name, phone number, and avatar key.
func (s *Store) UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	const query = `
		UPDATE users
		SET name = $2, phone = $3, avatar_key = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, phone, avatar_key, rating, is_verified, role, created_at, password_hash`

	var u User
	err := s.pool.QueryRow(ctx, query, params.ID, params.Name, params.Phone, params.AvatarKey).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.AvatarKey,
		&u.Rating, &u.IsVerified, &u.Role, &u.CreatedAt, &u.PasswordHash,
	)
	if err != nil {
		return User{}, fmt.Errorf("update user profile: %w", err)
	}

	return u, nil
}
