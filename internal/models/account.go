package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a row in the PostgreSQL accounts table.
type Account struct {
	ID           string    `json:"id"`
	Handle       string    `json:"handle"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialize
	Bio          *string   `json:"bio"`
	AvatarURL    *string   `json:"avatar_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewID mints a time-ordered (v7) UUID so account and post ids sort by
// creation time.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SignupRequest is the JSON body for POST /api/v1/auth/signup.
type SignupRequest struct {
	Handle   string `json:"handle"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninRequest is the JSON body for POST /api/v1/auth/signin.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and signin. Token is the bearer
// credential for non-browser clients; web clients get the cookie too.
type AuthResponse struct {
	Profile *Account `json:"profile"`
	Token   string   `json:"token"`
}
