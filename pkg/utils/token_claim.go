package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errInvalidToken  = errors.New("invalid or expired token")
	errInvalidClaims = errors.New("invalid token claims")
)

// UserIDFromClaims reads the user_id claim.
func UserIDFromClaims(claims jwt.MapClaims) (uuid.UUID, error) {
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("invalid token payload")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid user id in token")
	}
	return userID, nil
}

// CurrentUserID returns the user id the JWT middleware stored on the request.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errInvalidClaims
	}
	return UserIDFromClaims(claims)
}
