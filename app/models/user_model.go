package models

import (
	"time"

	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/google/uuid"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

type Preferences struct {
	DailyReminders bool   `json:"daily_reminders" db:"daily_reminders"`
	WeeklyReport   bool   `json:"weekly_report" db:"weekly_report"`
	Theme          string `json:"theme" db:"theme"`
}

func DefaultPreferences() Preferences {
	return Preferences{DailyReminders: true, WeeklyReport: true, Theme: ThemeSystem}
}

// StatsCounters are the event-folded totals stored on the user row.
type StatsCounters struct {
	TotalPoints         int `json:"total_points" db:"total_points"`
	CompletedHabits     int `json:"completed_habits" db:"completed_habits"`
	BadgesEarned        int `json:"badges_earned" db:"badges_earned"`
	CompletedChallenges int `json:"completed_challenges" db:"completed_challenges"`
}

func (c StatsCounters) Stats() engine.UserStats {
	return engine.UserStats{
		TotalPoints:         c.TotalPoints,
		CompletedHabits:     c.CompletedHabits,
		BadgesEarned:        c.BadgesEarned,
		CompletedChallenges: c.CompletedChallenges,
	}
}

func CountersOf(s engine.UserStats) StatsCounters {
	return StatsCounters{
		TotalPoints:         s.TotalPoints,
		CompletedHabits:     s.CompletedHabits,
		BadgesEarned:        s.BadgesEarned,
		CompletedChallenges: s.CompletedChallenges,
	}
}

type User struct {
	ID           uuid.UUID     `json:"id" db:"uid"`
	Username     string        `json:"username" db:"username"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	Preferences  Preferences   `json:"preferences"`
	Counters     StatsCounters `json:"stats"`
	// StatsVersion is bumped by every stats write and guards against lost updates.
	StatsVersion int64     `json:"-" db:"stats_version"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
