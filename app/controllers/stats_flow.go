package controllers

import (
	"errors"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/app/queries"
	"github.com/gilanghuda/habit-tracker-backend/pkg/catalog"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/google/uuid"
)

const maxStatsAttempts = 3

// statsSnapshot is what a mutation is built from: the user row as read at the
// start of the attempt and the full entry history.
type statsSnapshot struct {
	User    models.User
	Entries []models.HabitEntry
	Now     time.Time
}

// statsMutation describes one write. Entries is the history as it will be
// after the write, used to advance challenges and derive figures.
type statsMutation struct {
	Events  []engine.StatsEvent
	Write   models.StatsWrite
	Entries []models.HabitEntry
	// AdvanceChallenges folds today's evidence into active challenges.
	AdvanceChallenges bool
}

func (m *statsMutation) empty() bool {
	w := m.Write
	return len(m.Events) == 0 && w.InsertEntry == nil && w.UpdateEntry == nil && w.DeleteEntry == nil &&
		w.StartChallenge == nil && len(w.Challenges) == 0 && len(w.BadgeGrants) == 0
}

type statsResult struct {
	Stats      engine.UserStats
	Challenges []models.ChallengeProgressResult
	Committed  bool
}

type buildFunc func(snap statsSnapshot) (*statsMutation, error)

// mutateStats runs build and commits its write under the user's lock. A lost
// version race rebuilds from fresh state, up to maxStatsAttempts times.
func mutateStats(userID uuid.UUID, build buildFunc) (*statsResult, error) {
	release := utils.DefaultUserLocks.Lock(userID)
	defer release()

	for attempt := 1; ; attempt++ {
		res, err := tryMutateStats(userID, build)
		if errors.Is(err, queries.ErrStatsConflict) && attempt < maxStatsAttempts {
			logger.Warn("stats version conflict, retrying", "user_id", userID, "attempt", attempt)
			continue
		}
		return res, err
	}
}

func tryMutateStats(userID uuid.UUID, build buildFunc) (*statsResult, error) {
	loc := appLocation()
	userQueries := queries.UserQueries{DB: database.DB}
	habitQueries := queries.HabitQueries{DB: database.DB}

	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	entries, err := habitQueries.GetEntriesByUser(userID, "", "")
	if err != nil {
		return nil, err
	}
	snap := statsSnapshot{User: user, Entries: entries, Now: appNow()}

	m, err := build(snap)
	if err != nil {
		return nil, err
	}

	scored, err := models.ScoredEntries(m.Entries, loc)
	if err != nil {
		return nil, err
	}

	res := &statsResult{}
	if m.AdvanceChallenges {
		progress, err := advanceChallenges(userID, scored, m, snap.Now)
		if err != nil {
			return nil, err
		}
		res.Challenges = progress
	}

	stats := engine.ReduceAll(user.Counters.Stats(), m.Events)
	stats, err = engine.DeriveStats(stats, scored, snap.Now)
	if err != nil {
		return nil, err
	}
	res.Stats = stats

	if m.empty() {
		return res, nil
	}

	m.Write.Counters = models.CountersOf(stats)
	m.Write.Now = snap.Now
	statsQueries := queries.StatsQueries{DB: database.DB}
	if err := statsQueries.CommitStats(userID, user.StatsVersion, &m.Write); err != nil {
		return nil, err
	}
	res.Committed = true
	return res, nil
}

// advanceChallenges ticks every active challenge of the user and appends the
// resulting updates, events and badge grants to m. A badge the user already
// holds is never granted twice; the challenge still pays its points.
func advanceChallenges(userID uuid.UUID, scored []engine.ScoredEntry, m *statsMutation, now time.Time) ([]models.ChallengeProgressResult, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	challengeQueries := queries.ChallengeQueries{DB: database.DB}
	badgeQueries := queries.BadgeQueries{DB: database.DB}

	active, err := challengeQueries.GetUserChallenges(userID, engine.ChallengeActive)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return []models.ChallengeProgressResult{}, nil
	}
	earned, err := badgeQueries.GetEarnedBadgeIDs(userID)
	if err != nil {
		return nil, err
	}
	held := func(id string) bool {
		if _, ok := earned[id]; ok {
			return true
		}
		for _, g := range m.Write.BadgeGrants {
			if g == id {
				return true
			}
		}
		return false
	}

	results := make([]models.ChallengeProgressResult, 0, len(active))
	for _, uc := range active {
		ch, err := cat.Challenge(uc.ChallengeID)
		if err != nil {
			logger.Warn("active challenge missing from catalog", "challenge_id", uc.ChallengeID)
			continue
		}
		inst, err := uc.Instance(appLocation())
		if err != nil {
			return nil, err
		}
		in, err := engine.ChallengeEvidence(scored, ch.Category, now)
		if err != nil {
			return nil, err
		}
		adv, err := engine.AdvanceChallengeProgress(inst, ch, in, now)
		if err != nil {
			return nil, err
		}

		updated := uc.WithInstance(adv.Instance, now)
		result := models.ChallengeProgressResult{Challenge: ch, Instance: updated}
		if adv.Changed {
			m.Write.Challenges = append(m.Write.Challenges, updated)
		}
		if adv.Instance.State == engine.ChallengeCompleted {
			var reward *engine.Reward
			if adv.Reward != nil {
				r := *adv.Reward
				if r.BadgeID != "" {
					if held(r.BadgeID) {
						r.BadgeID = ""
					} else {
						m.Write.BadgeGrants = append(m.Write.BadgeGrants, r.BadgeID)
					}
				}
				reward = &r
			}
			m.Events = append(m.Events, engine.StatsEvent{Kind: engine.EventChallengeCompleted, Reward: reward})
			result.Reward = reward
			logger.Info("challenge completed", "user_id", userID, "challenge_id", ch.ID)
		}
		results = append(results, result)
	}
	return results, nil
}
