package engine

import (
	"fmt"
	"sort"
	"time"
)

type StreakState struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

// CompletionDays dedupes timestamps by day key and sorts them most recent first.
func CompletionDays(timestamps []time.Time) []time.Time {
	seen := make(map[string]bool, len(timestamps))
	days := make([]time.Time, 0, len(timestamps))
	for _, t := range timestamps {
		d := DayKey(t)
		k := d.Format(DateLayout)
		if seen[k] {
			continue
		}
		seen[k] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days
}

// ComputeStreak derives current and longest streaks from completion
// timestamps. Multiple completions on one day count once. The current streak
// survives until the end of the day after the last completion.
func ComputeStreak(timestamps []time.Time, now time.Time) (StreakState, error) {
	for _, t := range timestamps {
		if err := ValidateDate(t); err != nil {
			return StreakState{}, err
		}
		if DaysBetween(now, t) > 0 {
			return StreakState{}, &InvalidDateError{Input: t.Format(DateLayout), Reason: "completion day is in the future"}
		}
	}

	days := CompletionDays(timestamps)
	if len(days) == 0 {
		return StreakState{}, nil
	}

	current := 0
	if IsToday(days[0], now) || IsYesterday(days[0], now) {
		current = 1
		for i := 1; i < len(days); i++ {
			if !IsConsecutiveDay(days[i], days[i-1]) {
				break
			}
			current++
		}
	}

	longest, run := 0, 0
	for i := range days {
		if i > 0 && IsConsecutiveDay(days[i], days[i-1]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	st := StreakState{CurrentStreak: current, LongestStreak: longest}
	if err := st.Check(); err != nil {
		return StreakState{}, err
	}
	return st, nil
}

// Check verifies longest >= current >= 0.
func (s StreakState) Check() error {
	if s.CurrentStreak < 0 || s.LongestStreak < s.CurrentStreak {
		return &ComputationError{
			Op:     "streak",
			Detail: fmt.Sprintf("current=%d longest=%d", s.CurrentStreak, s.LongestStreak),
		}
	}
	return nil
}

// CategoryCompletionDays returns the dates of entries that scored in category c.
// CategoryOverall counts every entry.
func CategoryCompletionDays(entries []ScoredEntry, c Category) []time.Time {
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		if c == CategoryOverall || e.Score.Category(c) > 0 {
			out = append(out, e.Date)
		}
	}
	return out
}
