package queries

import (
	"database/sql"
	"fmt"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/google/uuid"
)

type StatsQueries struct {
	DB *sql.DB
}

// CommitStats applies w in one transaction. The counters are written only if
// the user's stats version still equals expected; otherwise nothing is
// written and ErrStatsConflict is returned so the caller can recompute.
func (q *StatsQueries) CommitStats(userID uuid.UUID, expected int64, w *models.StatsWrite) (err error) {
	tx, err := q.DB.Begin()
	if err != nil {
		return fmt.Errorf("unable to begin stats transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.Exec(`UPDATE users SET total_points = $1, completed_habits = $2, badges_earned = $3,
		completed_challenges = $4, stats_version = stats_version + 1, updated_at = $5
		WHERE uid = $6 AND stats_version = $7`,
		w.Counters.TotalPoints, w.Counters.CompletedHabits, w.Counters.BadgesEarned, w.Counters.CompletedChallenges,
		w.Now.UTC(), userID, expected)
	if err != nil {
		return fmt.Errorf("unable to update stats, DB error: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrStatsConflict
	}

	if w.InsertEntry != nil {
		if err = insertHabit(tx, w.InsertEntry); err != nil {
			return err
		}
	}
	if w.UpdateEntry != nil {
		if err = updateHabit(tx, w.UpdateEntry); err != nil {
			return err
		}
	}
	if w.DeleteEntry != nil {
		if err = deleteHabit(tx, userID, *w.DeleteEntry); err != nil {
			return err
		}
	}
	if w.StartChallenge != nil {
		if err = insertUserChallenge(tx, w.StartChallenge); err != nil {
			return err
		}
	}
	for i := range w.Challenges {
		if err = updateActiveChallenge(tx, &w.Challenges[i]); err != nil {
			return err
		}
	}
	for _, id := range w.BadgeGrants {
		if err = grantBadge(tx, userID, id, w.Now); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("unable to commit stats transaction: %w", err)
	}
	return nil
}
