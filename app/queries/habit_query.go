package queries

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/google/uuid"
)

type HabitQueries struct {
	DB *sql.DB
}

const habitColumns = `id, user_id, entry_date, logged_at, sleep_hours, water_intake, exercise_done, exercise_minutes,
	healthy_meals, mood, productivity_level, category, notes,
	score_total, score_health, score_fitness, score_mindfulness, score_productivity, created_at, updated_at`

func scanHabit(row interface{ Scan(...interface{}) error }) (models.HabitEntry, error) {
	h := models.HabitEntry{}
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Date,
		&h.LoggedAt,
		&h.SleepHours,
		&h.WaterIntake,
		&h.ExerciseDone,
		&h.ExerciseMinutes,
		&h.HealthyMeals,
		&h.Mood,
		&h.ProductivityLevel,
		&h.Category,
		&h.Notes,
		&h.Score.Total,
		&h.Score.Health,
		&h.Score.Fitness,
		&h.Score.Mindfulness,
		&h.Score.Productivity,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	h.Completed = h.Score.Completed()
	return h, err
}

func collectHabits(rows *sql.Rows) ([]models.HabitEntry, error) {
	defer rows.Close()
	entries := []models.HabitEntry{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan habit entry: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// GetEntriesByUser returns entries with from <= date <= to, oldest first.
// Empty bounds are open.
func (q *HabitQueries) GetEntriesByUser(userID uuid.UUID, from, to string) ([]models.HabitEntry, error) {
	query := `SELECT ` + habitColumns + ` FROM habit_entries WHERE user_id = $1`
	args := []interface{}{userID}
	if from != "" {
		args = append(args, from)
		query += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if to != "" {
		args = append(args, to)
		query += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}
	query += " ORDER BY entry_date ASC, logged_at ASC"

	rows, err := q.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("unable to query habit entries, DB error: %w", err)
	}
	return collectHabits(rows)
}

func (q *HabitQueries) GetEntriesByDate(userID uuid.UUID, date string) ([]models.HabitEntry, error) {
	return q.GetEntriesByUser(userID, date, date)
}

func (q *HabitQueries) GetEntryByID(userID, id uuid.UUID) (models.HabitEntry, error) {
	query := `SELECT ` + habitColumns + ` FROM habit_entries WHERE id = $1 AND user_id = $2`
	h, err := scanHabit(q.DB.QueryRow(query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return h, fmt.Errorf("habit entry: %w", ErrNotFound)
		}
		return h, fmt.Errorf("unable to get habit entry, DB error: %w", err)
	}
	return h, nil
}

func insertHabit(ex execer, h *models.HabitEntry) error {
	query := `INSERT INTO habit_entries (` + habitColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := ex.Exec(query,
		h.ID, h.UserID, h.Date, h.LoggedAt.UTC(), h.SleepHours, h.WaterIntake, h.ExerciseDone, h.ExerciseMinutes,
		h.HealthyMeals, h.Mood, h.ProductivityLevel, h.Category, h.Notes,
		h.Score.Total, h.Score.Health, h.Score.Fitness, h.Score.Mindfulness, h.Score.Productivity,
		h.CreatedAt.UTC(), h.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("unable to create habit entry, DB error: %w", err)
	}
	return nil
}

func updateHabit(ex execer, h *models.HabitEntry) error {
	query := `UPDATE habit_entries SET sleep_hours = $1, water_intake = $2, exercise_done = $3, exercise_minutes = $4,
			  healthy_meals = $5, mood = $6, productivity_level = $7, category = $8, notes = $9,
			  score_total = $10, score_health = $11, score_fitness = $12, score_mindfulness = $13, score_productivity = $14,
			  updated_at = $15
			  WHERE id = $16 AND user_id = $17`
	res, err := ex.Exec(query,
		h.SleepHours, h.WaterIntake, h.ExerciseDone, h.ExerciseMinutes, h.HealthyMeals, h.Mood, h.ProductivityLevel,
		h.Category, h.Notes,
		h.Score.Total, h.Score.Health, h.Score.Fitness, h.Score.Mindfulness, h.Score.Productivity,
		h.UpdatedAt.UTC(), h.ID, h.UserID,
	)
	if err != nil {
		return fmt.Errorf("unable to update habit entry, DB error: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit entry: %w", ErrNotFound)
	}
	return nil
}

func deleteHabit(ex execer, userID, id uuid.UUID) error {
	res, err := ex.Exec(`DELETE FROM habit_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("unable to delete habit entry, DB error: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit entry: %w", ErrNotFound)
	}
	return nil
}
