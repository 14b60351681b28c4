package models

import (
	"time"

	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/google/uuid"
)

// UserChallenge is a stored challenge instance. StartDate and LastProgressDay
// are day keys in the application location.
type UserChallenge struct {
	ID              uuid.UUID             `json:"id" db:"id"`
	UserID          uuid.UUID             `json:"user_id" db:"user_id"`
	ChallengeID     string                `json:"challenge_id" db:"challenge_id"`
	StartDate       string                `json:"start_date" db:"start_date"`
	Progress        int                   `json:"progress" db:"progress"`
	BaseProgress    int                   `json:"-" db:"base_progress"`
	LastProgressDay *string               `json:"last_progress_day,omitempty" db:"last_progress_day"`
	State           engine.ChallengeState `json:"state" db:"state"`
	CompletedAt     *time.Time            `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt       time.Time             `json:"created_at" db:"created_at"`
}

func (uc UserChallenge) Instance(loc *time.Location) (engine.ChallengeInstance, error) {
	start, err := engine.ParseDay(uc.StartDate, loc)
	if err != nil {
		return engine.ChallengeInstance{}, err
	}
	inst := engine.ChallengeInstance{
		ChallengeID:  uc.ChallengeID,
		StartDate:    start,
		Progress:     uc.Progress,
		BaseProgress: uc.BaseProgress,
		State:        uc.State,
	}
	if uc.LastProgressDay != nil {
		d, err := engine.ParseDay(*uc.LastProgressDay, loc)
		if err != nil {
			return engine.ChallengeInstance{}, err
		}
		inst.LastProgressDay = &d
	}
	return inst, nil
}

// WithInstance returns a copy carrying the instance's progress and state.
func (uc UserChallenge) WithInstance(inst engine.ChallengeInstance, now time.Time) UserChallenge {
	uc.Progress = inst.Progress
	uc.BaseProgress = inst.BaseProgress
	uc.State = inst.State
	if inst.LastProgressDay != nil {
		d := inst.LastProgressDay.Format(engine.DateLayout)
		uc.LastProgressDay = &d
	}
	if inst.State == engine.ChallengeCompleted && uc.CompletedAt == nil {
		t := now
		uc.CompletedAt = &t
	}
	return uc
}

// ChallengeView is a catalog challenge with the caller's instance, if any.
type ChallengeView struct {
	engine.Challenge
	Joined   bool           `json:"joined"`
	Instance *UserChallenge `json:"instance,omitempty"`
}

type ChallengeProgressResult struct {
	Challenge engine.Challenge `json:"challenge"`
	Instance  UserChallenge    `json:"instance"`
	Reward    *engine.Reward   `json:"reward,omitempty"`
}
