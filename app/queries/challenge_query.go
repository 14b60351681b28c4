package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/google/uuid"
)

type ChallengeQueries struct {
	DB *sql.DB
}

// UpsertChallenge writes a catalog definition, replacing an existing one.
func (q *ChallengeQueries) UpsertChallenge(c engine.Challenge) error {
	query := `INSERT INTO challenges (id, title, description, category, criteria_type, target, duration_days, points, badge)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (id) DO UPDATE SET title = excluded.title, description = excluded.description,
			  category = excluded.category, criteria_type = excluded.criteria_type, target = excluded.target,
			  duration_days = excluded.duration_days, points = excluded.points, badge = excluded.badge`
	_, err := q.DB.Exec(query, c.ID, c.Title, c.Description, c.Category, c.Criteria.Type, c.Criteria.Target,
		c.DurationDays, c.PointReward, c.BadgeReward)
	if err != nil {
		return fmt.Errorf("unable to upsert challenge %s, DB error: %w", c.ID, err)
	}
	return nil
}

const userChallengeColumns = `id, user_id, challenge_id, start_date, progress, base_progress, last_progress_day, state, completed_at, created_at`

func scanUserChallenge(row interface{ Scan(...interface{}) error }) (models.UserChallenge, error) {
	uc := models.UserChallenge{}
	var lastDay sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&uc.ID, &uc.UserID, &uc.ChallengeID, &uc.StartDate, &uc.Progress, &uc.BaseProgress,
		&lastDay, &uc.State, &completedAt, &uc.CreatedAt)
	if lastDay.Valid {
		uc.LastProgressDay = &lastDay.String
	}
	if completedAt.Valid {
		uc.CompletedAt = &completedAt.Time
	}
	return uc, err
}

// GetUserChallenges lists the user's challenge instances, optionally filtered by state.
func (q *ChallengeQueries) GetUserChallenges(userID uuid.UUID, state engine.ChallengeState) ([]models.UserChallenge, error) {
	query := `SELECT ` + userChallengeColumns + ` FROM user_challenges WHERE user_id = $1`
	args := []interface{}{userID}
	if state != "" {
		query += ` AND state = $2`
		args = append(args, state)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := q.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query user challenges, DB error: %w", err)
	}
	defer rows.Close()

	out := []models.UserChallenge{}
	for rows.Next() {
		uc, err := scanUserChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan user challenge: %w", err)
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

func (q *ChallengeQueries) GetUserChallenge(userID uuid.UUID, challengeID string) (models.UserChallenge, error) {
	query := `SELECT ` + userChallengeColumns + ` FROM user_challenges WHERE user_id = $1 AND challenge_id = $2`
	uc, err := scanUserChallenge(q.DB.QueryRow(query, userID, challengeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uc, fmt.Errorf("user challenge: %w", ErrNotFound)
		}
		return uc, fmt.Errorf("unable to get user challenge, DB error: %w", err)
	}
	return uc, nil
}

func insertUserChallenge(ex execer, uc *models.UserChallenge) error {
	query := `INSERT INTO user_challenges (` + userChallengeColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := ex.Exec(query, uc.ID, uc.UserID, uc.ChallengeID, uc.StartDate, uc.Progress, uc.BaseProgress,
		uc.LastProgressDay, uc.State, uc.CompletedAt, uc.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("challenge %s already started: %w", uc.ChallengeID, ErrDuplicate)
		}
		return fmt.Errorf("unable to start challenge, DB error: %w", err)
	}
	return nil
}

// updateActiveChallenge writes progress only while the stored row is still
// active, so a challenge completes, and rewards, at most once.
func updateActiveChallenge(ex execer, uc *models.UserChallenge) error {
	query := `UPDATE user_challenges SET progress = $1, base_progress = $2, last_progress_day = $3, state = $4, completed_at = $5
			  WHERE id = $6 AND user_id = $7 AND state = $8`
	var completedAt interface{}
	if uc.CompletedAt != nil {
		completedAt = uc.CompletedAt.UTC()
	}
	res, err := ex.Exec(query, uc.Progress, uc.BaseProgress, uc.LastProgressDay, uc.State, completedAt,
		uc.ID, uc.UserID, engine.ChallengeActive)
	if err != nil {
		return fmt.Errorf("unable to update challenge progress, DB error: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("challenge %s is no longer active: %w", uc.ChallengeID, ErrStatsConflict)
	}
	return nil
}
