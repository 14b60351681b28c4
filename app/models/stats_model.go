package models

import (
	"time"

	"github.com/google/uuid"
)

// StatsWrite is everything one stats-mutating request persists. It is
// committed in a single transaction guarded by the user's stats version.
type StatsWrite struct {
	Counters StatsCounters

	InsertEntry *HabitEntry
	UpdateEntry *HabitEntry
	DeleteEntry *uuid.UUID

	StartChallenge *UserChallenge
	// Challenges are updated only while still active.
	Challenges []UserChallenge
	// BadgeGrants must not already be held; a held badge fails the commit.
	BadgeGrants []string

	Now time.Time
}
