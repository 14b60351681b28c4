package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/google/uuid"
)

type BadgeQueries struct {
	DB *sql.DB
}

func (q *BadgeQueries) UpsertBadge(b engine.Badge) error {
	query := `INSERT INTO badges (id, name, description, icon, category, tier, criteria_type, target, points, secret)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  ON CONFLICT (id) DO UPDATE SET name = excluded.name, description = excluded.description,
			  icon = excluded.icon, category = excluded.category, tier = excluded.tier,
			  criteria_type = excluded.criteria_type, target = excluded.target, points = excluded.points,
			  secret = excluded.secret`
	_, err := q.DB.Exec(query, b.ID, b.Name, b.Description, b.Icon, b.Category, b.Tier, b.Criteria.Type,
		b.Criteria.Target, b.PointReward, b.Secret)
	if err != nil {
		return fmt.Errorf("unable to upsert badge %s, DB error: %w", b.ID, err)
	}
	return nil
}

// GetUserBadges lists earned badges, oldest first.
func (q *BadgeQueries) GetUserBadges(userID uuid.UUID) ([]models.UserBadge, error) {
	rows, err := q.DB.Query(`SELECT user_id, badge_id, earned_at FROM user_badges WHERE user_id = $1 ORDER BY earned_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("unable to query user badges, DB error: %w", err)
	}
	defer rows.Close()

	out := []models.UserBadge{}
	for rows.Next() {
		var ub models.UserBadge
		if err := rows.Scan(&ub.UserID, &ub.BadgeID, &ub.EarnedAt); err != nil {
			return nil, fmt.Errorf("unable to scan user badge: %w", err)
		}
		out = append(out, ub)
	}
	return out, rows.Err()
}

// GetEarnedBadgeIDs maps badge id to the time it was earned.
func (q *BadgeQueries) GetEarnedBadgeIDs(userID uuid.UUID) (map[string]time.Time, error) {
	badges, err := q.GetUserBadges(userID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(badges))
	for _, b := range badges {
		out[b.BadgeID] = b.EarnedAt
	}
	return out, nil
}

// grantBadge inserts the badge unless already held. A held badge is a lost
// race and fails the enclosing commit.
func grantBadge(ex execer, userID uuid.UUID, badgeID string, now time.Time) error {
	res, err := ex.Exec(`INSERT INTO user_badges (user_id, badge_id, earned_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		userID, badgeID, now.UTC())
	if err != nil {
		return fmt.Errorf("unable to grant badge %s, DB error: %w", badgeID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("badge %s already earned: %w", badgeID, ErrStatsConflict)
	}
	return nil
}
