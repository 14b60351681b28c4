package engine

import "time"

// UserStats is the per-user summary. Counters are folded from events by
// ReduceStats; the remaining figures are recomputed by DeriveStats from the
// full entry history on every write.
type UserStats struct {
	TotalPoints         int            `json:"total_points"`
	CompletedHabits     int            `json:"completed_habits"`
	BadgesEarned        int            `json:"badges_earned"`
	CompletedChallenges int            `json:"completed_challenges"`
	CurrentStreak       int            `json:"current_streak"`
	LongestStreak       int            `json:"longest_streak"`
	TodayScore          int            `json:"today_score"`
	TodayHabits         int            `json:"today_habits"`
	WeeklyAverage       int            `json:"weekly_average"`
	CategoryBreakdown   CategoryScores `json:"category_breakdown"`
	ProgressTrend       ProgressTrend  `json:"progress_trend"`
}

type EventKind string

const (
	EventHabitLogged        EventKind = "habit_logged"
	EventHabitUpdated       EventKind = "habit_updated"
	EventHabitDeleted       EventKind = "habit_deleted"
	EventChallengeCompleted EventKind = "challenge_completed"
	EventBadgeGranted       EventKind = "badge_granted"
)

// StatsEvent is one fact folded into UserStats. Score is the entry total
// after the event; PreviousScore is the total before an update.
type StatsEvent struct {
	Kind          EventKind
	Score         int
	PreviousScore int
	Reward        *Reward
}

// ReduceStats folds one event into the counters. Unknown kinds are ignored.
func ReduceStats(s UserStats, ev StatsEvent) UserStats {
	switch ev.Kind {
	case EventHabitLogged:
		s.TotalPoints += ev.Score
		s.CompletedHabits++
	case EventHabitUpdated:
		s.TotalPoints += ev.Score - ev.PreviousScore
	case EventHabitDeleted:
		s.TotalPoints -= ev.Score
		if s.CompletedHabits > 0 {
			s.CompletedHabits--
		}
	case EventChallengeCompleted:
		s.CompletedChallenges++
		if ev.Reward != nil {
			s.TotalPoints += ev.Reward.Points
			if ev.Reward.BadgeID != "" {
				s.BadgesEarned++
			}
		}
	case EventBadgeGranted:
		if ev.Reward != nil {
			s.TotalPoints += ev.Reward.Points
			s.BadgesEarned++
		}
	}
	return s
}

// ReduceAll folds events in order.
func ReduceAll(s UserStats, events []StatsEvent) UserStats {
	for _, ev := range events {
		s = ReduceStats(s, ev)
	}
	return s
}

// DeriveStats replaces the derived figures with values computed from the
// entire history. Counters are left untouched.
func DeriveStats(s UserStats, entries []ScoredEntry, now time.Time) (UserStats, error) {
	dates := make([]time.Time, 0, len(entries))
	today := 0
	for _, e := range entries {
		dates = append(dates, e.Date)
		if IsSameDay(e.Date, now) {
			today++
		}
	}
	streak, err := ComputeStreak(dates, now)
	if err != nil {
		return UserStats{}, err
	}
	report, err := ComputeWeeklyReport(entries, now)
	if err != nil {
		return UserStats{}, err
	}

	s.CurrentStreak = streak.CurrentStreak
	s.LongestStreak = streak.LongestStreak
	s.TodayScore = report.TodayScore
	s.TodayHabits = today
	s.WeeklyAverage = report.WeeklyAverage
	s.CategoryBreakdown = report.CategoryBreakdown
	s.ProgressTrend = report.Trend
	return s, nil
}
