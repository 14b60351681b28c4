package engine

import (
	"fmt"
	"time"
)

type CriteriaType string

const (
	CriteriaScore  CriteriaType = "score"
	CriteriaStreak CriteriaType = "streak"
	CriteriaTotal  CriteriaType = "total"
	// CriteriaChallenge counts completed challenges. Badges only.
	CriteriaChallenge CriteriaType = "challenge"
)

type Criteria struct {
	Type   CriteriaType `json:"type" yaml:"type"`
	Target int          `json:"target" yaml:"target"`
}

// Challenge is a catalog definition.
type Challenge struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Description  string   `json:"description" yaml:"description"`
	Category     Category `json:"category" yaml:"category"`
	Criteria     Criteria `json:"criteria" yaml:"criteria"`
	DurationDays int      `json:"duration_days" yaml:"duration"`
	PointReward  int      `json:"point_reward" yaml:"points"`
	BadgeReward  string   `json:"badge_reward,omitempty" yaml:"badge"`
}

func (c Challenge) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("challenge: id is required")
	}
	if !isTrackedCategory(c.Category) {
		return fmt.Errorf("challenge %s: unknown category %q", c.ID, c.Category)
	}
	switch c.Criteria.Type {
	case CriteriaScore, CriteriaStreak, CriteriaTotal:
	default:
		return fmt.Errorf("challenge %s: unknown criteria %q", c.ID, c.Criteria.Type)
	}
	if c.Criteria.Target <= 0 {
		return fmt.Errorf("challenge %s: target must be positive", c.ID)
	}
	if c.DurationDays < 1 {
		return fmt.Errorf("challenge %s: duration must be at least 1 day", c.ID)
	}
	if c.PointReward < 0 {
		return fmt.Errorf("challenge %s: points must not be negative", c.ID)
	}
	return nil
}

func isTrackedCategory(c Category) bool {
	switch c {
	case CategoryHealth, CategoryFitness, CategoryMindfulness, CategoryProductivity, CategoryOverall:
		return true
	}
	return false
}

type ChallengeState string

const (
	ChallengeActive       ChallengeState = "active"
	ChallengeCompleted    ChallengeState = "completed"
	ChallengeExpiredUnmet ChallengeState = "expired_unmet"
)

func (s ChallengeState) Terminal() bool {
	return s == ChallengeCompleted || s == ChallengeExpiredUnmet
}

// ChallengeInstance is one user's run of a challenge. For score criteria,
// Progress is the running mean of daily contributions; otherwise it is the
// percentage of the target reached.
type ChallengeInstance struct {
	ChallengeID     string         `json:"challenge_id"`
	StartDate       time.Time      `json:"start_date"`
	Progress        int            `json:"progress"`
	BaseProgress    int            `json:"-"`
	LastProgressDay *time.Time     `json:"last_progress_day,omitempty"`
	State           ChallengeState `json:"state"`
}

// NewChallengeInstance starts a challenge on the day of now.
func NewChallengeInstance(challengeID string, now time.Time) ChallengeInstance {
	return ChallengeInstance{ChallengeID: challengeID, StartDate: DayKey(now), State: ChallengeActive}
}

func (i ChallengeInstance) Completed() bool { return i.State == ChallengeCompleted }

// Reward is what a completed challenge or a newly earned badge proposes to grant.
type Reward struct {
	Points  int    `json:"points"`
	BadgeID string `json:"badge_id,omitempty"`
	Source  string `json:"source"`
}

// ProgressInput is today's evidence for one challenge or badge.
// CategoryScore is today's Score Engine output for the tracked category;
// HasEntry is false when nothing was logged today.
type ProgressInput struct {
	CategoryScore       int
	HasEntry            bool
	Streak              int
	Total               int
	CompletedChallenges int
}

func (in ProgressInput) value(t CriteriaType) int {
	switch t {
	case CriteriaStreak:
		return in.Streak
	case CriteriaTotal:
		return in.Total
	case CriteriaChallenge:
		return in.CompletedChallenges
	}
	return in.CategoryScore
}

type Advance struct {
	Instance ChallengeInstance `json:"instance"`
	Reward   *Reward           `json:"reward,omitempty"`
	Changed  bool              `json:"changed"`
}

// PercentOf returns min(100, round(value/target*100)).
func PercentOf(value, target int) int {
	if target <= 0 || value <= 0 {
		return 0
	}
	return clampScore(roundHalfUp(float64(value) * 100 / float64(target)))
}

func targetMet(ch Challenge, inst ChallengeInstance) bool {
	if ch.Criteria.Type == CriteriaScore {
		return inst.Progress >= ch.Criteria.Target
	}
	return inst.Progress >= 100
}

func completionReward(ch Challenge) *Reward {
	if ch.PointReward == 0 && ch.BadgeReward == "" {
		return nil
	}
	return &Reward{Points: ch.PointReward, BadgeID: ch.BadgeReward, Source: "challenge:" + ch.ID}
}

// AdvanceChallengeProgress runs one progress tick for an instance. Terminal
// instances are returned unchanged. Duration elapsing is checked before
// today's contribution is folded in, so the final verdict uses the progress
// accumulated up to the previous day.
func AdvanceChallengeProgress(inst ChallengeInstance, ch Challenge, in ProgressInput, now time.Time) (Advance, error) {
	if inst.ChallengeID != ch.ID {
		return Advance{}, &NotFoundError{Kind: "challenge", ID: inst.ChallengeID}
	}
	if inst.State.Terminal() {
		return Advance{Instance: inst}, nil
	}
	if err := ValidateDate(inst.StartDate); err != nil {
		return Advance{}, err
	}

	days := DaysBetween(inst.StartDate, now)
	if days < 0 {
		days = 0
	}

	if days >= ch.DurationDays {
		out := inst
		if targetMet(ch, inst) {
			out.State = ChallengeCompleted
			return Advance{Instance: out, Reward: completionReward(ch), Changed: true}, nil
		}
		out.State = ChallengeExpiredUnmet
		return Advance{Instance: out, Changed: true}, nil
	}

	out := inst
	today := DayKey(now)
	switch ch.Criteria.Type {
	case CriteriaScore:
		if !in.HasEntry {
			return Advance{Instance: inst}, nil
		}
		base := inst.Progress
		if inst.LastProgressDay != nil && IsSameDay(*inst.LastProgressDay, today) {
			base = inst.BaseProgress
		}
		out.BaseProgress = base
		out.Progress = clampScore(roundHalfUp(float64(base*days+in.CategoryScore) / float64(days+1)))
		out.LastProgressDay = &today
	default:
		out.Progress = PercentOf(in.value(ch.Criteria.Type), ch.Criteria.Target)
		out.LastProgressDay = &today
		if out.Progress >= 100 {
			out.State = ChallengeCompleted
			return Advance{Instance: out, Reward: completionReward(ch), Changed: true}, nil
		}
	}

	changed := out.Progress != inst.Progress || out.BaseProgress != inst.BaseProgress ||
		inst.LastProgressDay == nil || !IsSameDay(*inst.LastProgressDay, today)
	return Advance{Instance: out, Changed: changed}, nil
}

// FindChallenge looks a definition up by id.
func FindChallenge(catalog []Challenge, id string) (Challenge, error) {
	for _, c := range catalog {
		if c.ID == id {
			return c, nil
		}
	}
	return Challenge{}, &NotFoundError{Kind: "challenge", ID: id}
}
