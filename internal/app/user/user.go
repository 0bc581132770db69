/*
Package user contains core data structures and persistence logic for user accounts.

It defines the basic representation of a platform user (the User struct), used for
passing user information both internally and to clients, plus the pgx-backed Store.
*/
package user

import "time"

// User represents a registered RouteShare account.
// The password hash is never serialized to clients.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	AvatarKey  string    `json:"avatarKey,omitempty"`
	Rating     float32   `json:"rating"`
	IsVerified bool      `json:"isVerified"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`

	PasswordHash string `json:"-"`
}
