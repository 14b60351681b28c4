package models

import (
	"time"

	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/google/uuid"
)

// HabitEntry is one logged day of metrics with its score. Date is the day key
// (YYYY-MM-DD) in the application location.
type HabitEntry struct {
	ID                uuid.UUID             `json:"id" db:"id"`
	UserID            uuid.UUID             `json:"user_id" db:"user_id"`
	Date              string                `json:"date" db:"entry_date"`
	LoggedAt          time.Time             `json:"logged_at" db:"logged_at"`
	SleepHours        float64               `json:"sleep_hours" db:"sleep_hours"`
	WaterIntake       float64               `json:"water_intake" db:"water_intake"`
	ExerciseDone      bool                  `json:"exercise_done" db:"exercise_done"`
	ExerciseMinutes   int                   `json:"exercise_minutes" db:"exercise_minutes"`
	HealthyMeals      int                   `json:"healthy_meals" db:"healthy_meals"`
	Mood              engine.Mood           `json:"mood" db:"mood"`
	ProductivityLevel engine.Productivity   `json:"productivity_level" db:"productivity_level"`
	Category          engine.Category       `json:"category" db:"category"`
	Notes             string                `json:"notes" db:"notes"`
	Score             engine.ScoreBreakdown `json:"score"`
	Completed         bool                  `json:"completed"`
	CreatedAt         time.Time             `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at" db:"updated_at"`
}

func (h HabitEntry) Input() engine.HabitInput {
	return engine.HabitInput{
		SleepHours:        h.SleepHours,
		WaterIntake:       h.WaterIntake,
		ExerciseDone:      h.ExerciseDone,
		ExerciseMinutes:   h.ExerciseMinutes,
		HealthyMeals:      h.HealthyMeals,
		Mood:              h.Mood,
		ProductivityLevel: h.ProductivityLevel,
		Category:          h.Category,
		Notes:             h.Notes,
	}
}

// Scored converts the entry for the engines, placing it at midnight of its day in loc.
func (h HabitEntry) Scored(loc *time.Location) (engine.ScoredEntry, error) {
	d, err := engine.ParseDay(h.Date, loc)
	if err != nil {
		return engine.ScoredEntry{}, err
	}
	return engine.ScoredEntry{Date: d, Score: h.Score}, nil
}

func ScoredEntries(entries []HabitEntry, loc *time.Location) ([]engine.ScoredEntry, error) {
	out := make([]engine.ScoredEntry, 0, len(entries))
	for _, e := range entries {
		s, err := e.Scored(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// HabitRequest is the body of a create or edit. Date defaults to today.
type HabitRequest struct {
	Date              string              `json:"date"`
	SleepHours        float64             `json:"sleep_hours" validate:"gte=0,lte=24"`
	WaterIntake       float64             `json:"water_intake" validate:"gte=0,lte=10"`
	ExerciseDone      bool                `json:"exercise_done"`
	ExerciseMinutes   int                 `json:"exercise_minutes" validate:"gte=0,lte=1440"`
	HealthyMeals      int                 `json:"healthy_meals" validate:"gte=0,lte=3"`
	Mood              engine.Mood         `json:"mood" validate:"required"`
	ProductivityLevel engine.Productivity `json:"productivity_level" validate:"required"`
	Category          engine.Category     `json:"category"`
	Notes             string              `json:"notes"`
}

func (r HabitRequest) Input() engine.HabitInput {
	category := r.Category
	if category == "" {
		category = engine.CategoryOther
	}
	return engine.HabitInput{
		SleepHours:        r.SleepHours,
		WaterIntake:       r.WaterIntake,
		ExerciseDone:      r.ExerciseDone,
		ExerciseMinutes:   r.ExerciseMinutes,
		HealthyMeals:      r.HealthyMeals,
		Mood:              r.Mood,
		ProductivityLevel: r.ProductivityLevel,
		Category:          category,
		Notes:             r.Notes,
	}
}

// Apply copies the request metrics and score onto an entry.
func (h *HabitEntry) Apply(in engine.HabitInput, score engine.ScoreBreakdown) {
	h.SleepHours = in.SleepHours
	h.WaterIntake = in.WaterIntake
	h.ExerciseDone = in.ExerciseDone
	h.ExerciseMinutes = in.ExerciseMinutes
	h.HealthyMeals = in.HealthyMeals
	h.Mood = in.Mood
	h.ProductivityLevel = in.ProductivityLevel
	h.Category = in.Category
	h.Notes = in.Notes
	h.Score = score
	h.Completed = score.Completed()
}
