package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/google/uuid"
)

type RefreshTokenQueries struct {
	DB *sql.DB
}

func (q *RefreshTokenQueries) CreateRefreshToken(rt *models.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := q.DB.Exec(query, rt.ID, rt.UserID, rt.Token, rt.ExpiresAt.UTC(), rt.CreatedAt.UTC(), rt.Revoked)
	if err != nil {
		return fmt.Errorf("unable to create refresh token, DB error: %w", err)
	}
	return nil
}

func (q *RefreshTokenQueries) GetRefreshTokenByToken(token string) (models.RefreshToken, error) {
	rt := models.RefreshToken{}
	query := `SELECT id, user_id, token, expires_at, created_at, revoked FROM refresh_tokens WHERE token = $1`
	err := q.DB.QueryRow(query, token).Scan(&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.Revoked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rt, fmt.Errorf("refresh token: %w", ErrNotFound)
		}
		return rt, fmt.Errorf("unable to get refresh token, DB error: %w", err)
	}
	return rt, nil
}

func (q *RefreshTokenQueries) RevokeRefreshTokenByToken(userID uuid.UUID, token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND user_id = $2`
	res, err := q.DB.Exec(query, token, userID)
	if err != nil {
		return fmt.Errorf("unable to revoke refresh token by token, DB error: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("refresh token: %w", ErrNotFound)
	}
	return nil
}

func (q *RefreshTokenQueries) RevokeRefreshTokensByUser(userID uuid.UUID) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`
	_, err := q.DB.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("unable to revoke refresh tokens for user, DB error: %w", err)
	}
	return nil
}
