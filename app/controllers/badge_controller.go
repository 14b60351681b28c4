package controllers

import (
	"time"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/app/queries"
	"github.com/gilanghuda/habit-tracker-backend/pkg/catalog"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// GetBadges lists the catalog with the caller's progress and grants every
// badge whose criteria are met for the first time.
func GetBadges(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	cat, err := catalog.Default()
	if err != nil {
		return respondError(c, err)
	}

	var views []models.BadgeView
	var granted []string
	res, err := mutateStats(userID, func(snap statsSnapshot) (*statsMutation, error) {
		bq := queries.BadgeQueries{DB: database.DB}
		earned, err := bq.GetEarnedBadgeIDs(userID)
		if err != nil {
			return nil, err
		}
		scored, err := models.ScoredEntries(snap.Entries, appLocation())
		if err != nil {
			return nil, err
		}

		m := &statsMutation{Entries: snap.Entries}
		views = make([]models.BadgeView, 0, len(cat.Badges))
		granted = nil
		completed := snap.User.Counters.CompletedChallenges
		for _, b := range cat.Badges {
			earnedAt, held := earned[b.ID]
			in, err := engine.BadgeEvidence(scored, b.Category, snap.Now, completed)
			if err != nil {
				return nil, err
			}
			bp := engine.EvaluateBadge(b, in, held)
			var at *time.Time
			if held {
				t := earnedAt
				at = &t
			}
			if bp.Reward != nil {
				t := snap.Now
				at = &t
				m.Events = append(m.Events, engine.StatsEvent{Kind: engine.EventBadgeGranted, Reward: bp.Reward})
				m.Write.BadgeGrants = append(m.Write.BadgeGrants, b.ID)
				granted = append(granted, b.ID)
			}
			views = append(views, models.NewBadgeView(b, bp, at))
		}
		return m, nil
	})
	if err != nil {
		return respondError(c, err)
	}
	if len(granted) > 0 {
		logger.Info("badges granted", "user_id", userID, "badges", granted)
	}
	if granted == nil {
		granted = []string{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"badges":        views,
		"newly_granted": granted,
		"stats":         res.Stats,
	})
}

func GetMyBadges(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	cat, err := catalog.Default()
	if err != nil {
		return respondError(c, err)
	}

	bq := queries.BadgeQueries{DB: database.DB}
	held, err := bq.GetUserBadges(userID)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]models.BadgeView, 0, len(held))
	for _, ub := range held {
		b, err := cat.Badge(ub.BadgeID)
		if err != nil {
			logger.Warn("earned badge missing from catalog", "badge_id", ub.BadgeID)
			continue
		}
		at := ub.EarnedAt
		views = append(views, models.NewBadgeView(b, engine.EvaluateBadge(b, engine.ProgressInput{}, true), &at))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"badges": views, "count": len(views)})
}
