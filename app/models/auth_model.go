package models

import (
	"time"

	"github.com/google/uuid"
)

type SignUp struct {
	Email    string `json:"email" validate:"required,email,lte=255"`
	Username string `json:"username" validate:"required,min=3,lte=50"`
	Password string `json:"password" validate:"required,min=6,lte=255"`
}

type SignIn struct {
	Email    string `json:"email" validate:"required,email,lte=255"`
	Password string `json:"password" validate:"required,lte=255"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshToken is a stored opaque token. A zero ExpiresAt never expires.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

func (rt RefreshToken) Usable(now time.Time) bool {
	return !rt.Revoked && (rt.ExpiresAt.IsZero() || now.Before(rt.ExpiresAt))
}
