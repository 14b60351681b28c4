package engine

import "time"

// BadgeLookbackDays bounds the score average used by score badges.
const BadgeLookbackDays = 30

// ChallengeEvidence builds today's progress input for a challenge tracking
// category c: today's mean category score, the category streak and the
// lifetime count of entries that passed in that category.
func ChallengeEvidence(entries []ScoredEntry, c Category, now time.Time) (ProgressInput, error) {
	streak, err := ComputeStreak(CategoryCompletionDays(entries, c), now)
	if err != nil {
		return ProgressInput{}, err
	}
	in := ProgressInput{Streak: streak.CurrentStreak, Total: passedCount(entries, c)}

	sum, n := 0, 0
	for _, e := range entries {
		if IsSameDay(e.Date, now) {
			sum += e.Score.Category(c)
			n++
		}
	}
	if n > 0 {
		in.HasEntry = true
		in.CategoryScore = roundHalfUp(float64(sum) / float64(n))
	}
	return in, nil
}

// BadgeEvidence is ChallengeEvidence with the category score replaced by the
// mean over the last BadgeLookbackDays days, plus the completed challenge count.
func BadgeEvidence(entries []ScoredEntry, c Category, now time.Time, completedChallenges int) (ProgressInput, error) {
	in, err := ChallengeEvidence(entries, c, now)
	if err != nil {
		return ProgressInput{}, err
	}
	in.CompletedChallenges = completedChallenges

	sum, n := 0, 0
	for _, e := range entries {
		d := DaysBetween(e.Date, now)
		if d >= 0 && d < BadgeLookbackDays {
			sum += e.Score.Category(c)
			n++
		}
	}
	in.CategoryScore = 0
	if n > 0 {
		in.CategoryScore = roundHalfUp(float64(sum) / float64(n))
	}
	return in, nil
}

func passedCount(entries []ScoredEntry, c Category) int {
	n := 0
	for _, e := range entries {
		if e.Score.Category(c) >= PassingScore {
			n++
		}
	}
	return n
}
