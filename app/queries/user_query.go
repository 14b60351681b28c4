package queries

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/google/uuid"
)

type UserQueries struct {
	DB *sql.DB
}

const userColumns = `uid, username, email, password_hash, daily_reminders, weekly_report, theme,
	total_points, completed_habits, badges_earned, completed_challenges, stats_version, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	u := models.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Preferences.DailyReminders,
		&u.Preferences.WeeklyReport,
		&u.Preferences.Theme,
		&u.Counters.TotalPoints,
		&u.Counters.CompletedHabits,
		&u.Counters.BadgesEarned,
		&u.Counters.CompletedChallenges,
		&u.StatsVersion,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (q *UserQueries) getUser(where string, arg interface{}) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`
	u, err := scanUser(q.DB.QueryRow(query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, fmt.Errorf("user: %w", ErrNotFound)
		}
		return u, fmt.Errorf("unable to get user, DB error: %w", err)
	}
	return u, nil
}

func (q *UserQueries) GetUserByID(id uuid.UUID) (models.User, error) {
	return q.getUser("uid", id)
}

func (q *UserQueries) GetUserByEmail(email string) (models.User, error) {
	return q.getUser("email", strings.ToLower(email))
}

func (q *UserQueries) CreateUser(u *models.User) error {
	query := `INSERT INTO users (uid, username, email, password_hash, daily_reminders, weekly_report, theme, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := q.DB.Exec(query,
		u.ID,
		u.Username,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.Preferences.DailyReminders,
		u.Preferences.WeeklyReport,
		u.Preferences.Theme,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", u.Email, ErrDuplicate)
		}
		return fmt.Errorf("unable to create user, DB error: %w", err)
	}
	return nil
}

func (q *UserQueries) UpdateUser(userID uuid.UUID, req *models.UpdateUserRequest) error {
	setClauses := []string{}
	args := []interface{}{}
	argID := 1

	if req.Username != nil {
		setClauses = append(setClauses, fmt.Sprintf("username = $%d", argID))
		args = append(args, *req.Username)
		argID++
	}
	if req.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argID))
		args = append(args, strings.ToLower(*req.Email))
		argID++
	}

	if len(setClauses) == 0 {
		return errors.New("no fields to update")
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now().UTC())
	argID++
	query := fmt.Sprintf(`UPDATE users SET %s WHERE uid = $%d`, strings.Join(setClauses, ", "), argID)

	args = append(args, userID)

	res, err := q.DB.Exec(query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email: %w", ErrDuplicate)
		}
		return fmt.Errorf("unable to update user, DB error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

func (q *UserQueries) UpdatePreferences(userID uuid.UUID, p models.Preferences) error {
	query := `UPDATE users SET daily_reminders = $1, weekly_report = $2, theme = $3, updated_at = $4 WHERE uid = $5`
	res, err := q.DB.Exec(query, p.DailyReminders, p.WeeklyReport, p.Theme, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("unable to update preferences, DB error: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	return nil
}

func (q *UserQueries) DeleteUser(id uuid.UUID) error {
	query := `DELETE FROM users WHERE uid = $1`

	res, err := q.DB.Exec(query, id)
	if err != nil {
		return fmt.Errorf("unable to delete user, DB error: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("user: %w", ErrNotFound)
	}

	return nil
}
