package engine

import "fmt"

type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

type Badge struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Icon        string    `json:"icon" yaml:"icon"`
	Category    Category  `json:"category" yaml:"category"`
	Tier        BadgeTier `json:"tier" yaml:"tier"`
	Criteria    Criteria  `json:"criteria" yaml:"criteria"`
	PointReward int       `json:"point_reward" yaml:"points"`
	Secret      bool      `json:"is_secret" yaml:"secret"`
}

func (b Badge) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("badge: id is required")
	}
	if !isTrackedCategory(b.Category) {
		return fmt.Errorf("badge %s: unknown category %q", b.ID, b.Category)
	}
	switch b.Criteria.Type {
	case CriteriaScore, CriteriaStreak, CriteriaTotal, CriteriaChallenge:
	default:
		return fmt.Errorf("badge %s: unknown criteria %q", b.ID, b.Criteria.Type)
	}
	if b.Criteria.Target <= 0 {
		return fmt.Errorf("badge %s: target must be positive", b.ID)
	}
	switch b.Tier {
	case TierBronze, TierSilver, TierGold, TierPlatinum:
	default:
		return fmt.Errorf("badge %s: unknown tier %q", b.ID, b.Tier)
	}
	if b.PointReward < 0 {
		return fmt.Errorf("badge %s: points must not be negative", b.ID)
	}
	return nil
}

type BadgeProgress struct {
	BadgeID  string  `json:"badge_id"`
	Progress int     `json:"progress"`
	Earned   bool    `json:"is_earned"`
	Reward   *Reward `json:"reward,omitempty"`
}

// EvaluateBadge measures the input against the badge criteria. A reward is
// proposed only when the badge is met and not already held; holding it is
// permanent, so held badges always report 100.
func EvaluateBadge(b Badge, in ProgressInput, alreadyEarned bool) BadgeProgress {
	if alreadyEarned {
		return BadgeProgress{BadgeID: b.ID, Progress: 100, Earned: true}
	}
	v := in.value(b.Criteria.Type)
	bp := BadgeProgress{BadgeID: b.ID, Progress: PercentOf(v, b.Criteria.Target)}
	if v >= b.Criteria.Target {
		bp.Earned = true
		bp.Progress = 100
		bp.Reward = &Reward{Points: b.PointReward, BadgeID: b.ID, Source: "badge:" + b.ID}
	}
	return bp
}

func FindBadge(catalog []Badge, id string) (Badge, error) {
	for _, b := range catalog {
		if b.ID == id {
			return b, nil
		}
	}
	return Badge{}, &NotFoundError{Kind: "badge", ID: id}
}
