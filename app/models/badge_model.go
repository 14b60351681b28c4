package models

import (
	"time"

	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/google/uuid"
)

type UserBadge struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID  string    `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

// BadgeView is a catalog badge with the caller's progress. Secret badges that
// are not yet earned hide their name and description.
type BadgeView struct {
	engine.Badge
	Progress int        `json:"progress"`
	IsEarned bool       `json:"is_earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

func NewBadgeView(b engine.Badge, p engine.BadgeProgress, earnedAt *time.Time) BadgeView {
	v := BadgeView{Badge: b, Progress: p.Progress, IsEarned: p.Earned, EarnedAt: earnedAt}
	if b.Secret && !p.Earned {
		v.Name = "???"
		v.Description = "Keep going to discover this badge"
	}
	return v
}
