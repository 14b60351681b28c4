package engine

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a calendar day.
const DateLayout = "2006-01-02"

// DayKey truncates t to midnight in t's own location. Callers convert
// timestamps into the application location first, so every caller buckets
// days the same way.
func DayKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// civil maps the calendar date of t onto UTC midnight so day arithmetic
// never sees a 23h or 25h DST day.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysBetween returns b-a in whole calendar days. It is >= 0 whenever a <= b.
func DaysBetween(a, b time.Time) int {
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

// IsConsecutiveDay reports whether later falls exactly one calendar day after earlier.
func IsConsecutiveDay(earlier, later time.Time) bool {
	return DaysBetween(earlier, later) == 1
}

func IsToday(t, now time.Time) bool {
	return IsSameDay(t, now)
}

func IsYesterday(t, now time.Time) bool {
	return DaysBetween(t, now) == 1
}

// AddDays shifts a day key by n calendar days, keeping it at midnight.
func AddDays(day time.Time, n int) time.Time {
	return DayKey(day).AddDate(0, 0, n)
}

// ValidateDate rejects the zero time, which is how an unset date surfaces in Go.
func ValidateDate(t time.Time) error {
	if t.IsZero() {
		return &InvalidDateError{Input: t.String(), Reason: "date is not set"}
	}
	return nil
}

// ParseDay parses YYYY-MM-DD (as midnight in loc) or an RFC3339 timestamp
// (converted into loc) and returns its day key.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &InvalidDateError{Input: s, Reason: "empty"}
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, &InvalidDateError{Input: s, Reason: "expected YYYY-MM-DD or RFC3339"}
	}
	return DayKey(t.In(loc)), nil
}
