package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceStats(t *testing.T) {
	s := ReduceAll(UserStats{}, []StatsEvent{
		{Kind: EventHabitLogged, Score: 80},
		{Kind: EventHabitLogged, Score: 40},
		{Kind: EventHabitUpdated, Score: 60, PreviousScore: 40},
		{Kind: EventChallengeCompleted, Reward: &Reward{Points: 100, BadgeID: "health-starter"}},
		{Kind: EventBadgeGranted, Reward: &Reward{Points: 25, BadgeID: "first-step"}},
		{Kind: "unknown", Score: 1000},
	})

	assert.Equal(t, 80+60+100+25, s.TotalPoints)
	assert.Equal(t, 2, s.CompletedHabits)
	assert.Equal(t, 1, s.CompletedChallenges)
	assert.Equal(t, 2, s.BadgesEarned)
}

func TestReduceStatsDeleteReversesLog(t *testing.T) {
	s := ReduceAll(UserStats{}, []StatsEvent{
		{Kind: EventHabitLogged, Score: 80},
		{Kind: EventHabitUpdated, Score: 50, PreviousScore: 80},
		{Kind: EventHabitDeleted, Score: 50},
	})
	assert.Equal(t, UserStats{}, s)

	// deleting from empty never goes below zero habits
	s = ReduceStats(UserStats{}, StatsEvent{Kind: EventHabitDeleted})
	assert.Zero(t, s.CompletedHabits)
}

func TestReduceStatsIsPure(t *testing.T) {
	in := UserStats{TotalPoints: 10}
	_ = ReduceStats(in, StatsEvent{Kind: EventHabitLogged, Score: 5})
	assert.Equal(t, 10, in.TotalPoints)
}

func TestDeriveStats(t *testing.T) {
	now := at(2024, 6, 15, 20, 0)
	entries := []ScoredEntry{
		entry(at(2024, 6, 15, 8, 0), flat(70)),
		entry(at(2024, 6, 15, 9, 0), flat(70)),
		entry(at(2024, 6, 14, 8, 0), flat(70)),
		entry(at(2024, 6, 10, 8, 0), flat(70)),
		entry(at(2024, 6, 9, 8, 0), flat(70)),
		entry(at(2024, 6, 8, 8, 0), flat(70)),
	}

	base := UserStats{TotalPoints: 420, CompletedHabits: 6}
	s, err := DeriveStats(base, entries, now)
	require.NoError(t, err)
	assert.Equal(t, 420, s.TotalPoints)
	assert.Equal(t, 6, s.CompletedHabits)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
	assert.Equal(t, 70, s.TodayScore)
	assert.Equal(t, 2, s.TodayHabits)
	assert.Equal(t, 40, s.WeeklyAverage)
	// 6/8 falls in the previous week: 70/7 rounds to 10
	assert.Equal(t, 30, s.ProgressTrend.Improvement)
}

func TestDeriveStatsPropagatesDateErrors(t *testing.T) {
	_, err := DeriveStats(UserStats{}, []ScoredEntry{entry(time.Time{}, flat(10))}, at(2024, 6, 15, 0, 0))
	assert.True(t, errors.Is(err, ErrInvalidDate))
}
