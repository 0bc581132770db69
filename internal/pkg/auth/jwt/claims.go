package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for RouteShare.
// It includes standard claims required by the JWT specification and custom claims
// necessary for identifying and authorizing users within the platform.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the unique identifier of the authenticated user account.
	ID string `json:"id"`

	// Name is the display name of the user, carried in the token so realtime
	// and REST surfaces can label events without a database round trip.
	Name string `json:"name"`

	// Role defines the account role ("user" or "admin"), allowing the server
	// to apply different permissions (e.g., admin booking overview).
	Role string `json:"role"`
}
