package controllers

import (
	"errors"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/app/queries"
	"github.com/gilanghuda/habit-tracker-backend/pkg/catalog"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func GetChallenges(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	cat, err := catalog.Default()
	if err != nil {
		return respondError(c, err)
	}

	cq := queries.ChallengeQueries{DB: database.DB}
	instances, err := cq.GetUserChallenges(userID, "")
	if err != nil {
		return respondError(c, err)
	}
	byChallenge := make(map[string]models.UserChallenge, len(instances))
	for _, uc := range instances {
		byChallenge[uc.ChallengeID] = uc
	}

	views := make([]models.ChallengeView, 0, len(cat.Challenges))
	for _, ch := range cat.Challenges {
		v := models.ChallengeView{Challenge: ch}
		if uc, ok := byChallenge[ch.ID]; ok {
			uc := uc
			v.Joined = true
			v.Instance = &uc
		}
		views = append(views, v)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"challenges": views})
}

func challengesByState(c *fiber.Ctx, state engine.ChallengeState) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	cat, err := catalog.Default()
	if err != nil {
		return respondError(c, err)
	}

	cq := queries.ChallengeQueries{DB: database.DB}
	instances, err := cq.GetUserChallenges(userID, state)
	if err != nil {
		return respondError(c, err)
	}

	views := make([]models.ChallengeView, 0, len(instances))
	for i := range instances {
		ch, err := cat.Challenge(instances[i].ChallengeID)
		if err != nil {
			logger.Warn("stored challenge missing from catalog", "challenge_id", instances[i].ChallengeID)
			continue
		}
		views = append(views, models.ChallengeView{Challenge: ch, Joined: true, Instance: &instances[i]})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"challenges": views})
}

func GetActiveChallenges(c *fiber.Ctx) error {
	return challengesByState(c, engine.ChallengeActive)
}

func GetCompletedChallenges(c *fiber.Ctx) error {
	return challengesByState(c, engine.ChallengeCompleted)
}

// StartChallenge joins the caller to a catalog challenge starting today.
func StartChallenge(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	cat, err := catalog.Default()
	if err != nil {
		return respondError(c, err)
	}
	ch, err := cat.Challenge(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	cq := queries.ChallengeQueries{DB: database.DB}
	if _, err := cq.GetUserChallenge(userID, ch.ID); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Challenge already started"})
	} else if !errors.Is(err, queries.ErrNotFound) {
		return respondError(c, err)
	}

	var started models.UserChallenge
	_, err = mutateStats(userID, func(snap statsSnapshot) (*statsMutation, error) {
		inst := engine.NewChallengeInstance(ch.ID, snap.Now)
		started = models.UserChallenge{
			ID:          uuid.New(),
			UserID:      userID,
			ChallengeID: ch.ID,
			StartDate:   inst.StartDate.Format(engine.DateLayout),
			State:       inst.State,
			CreatedAt:   snap.Now,
		}
		return &statsMutation{
			Write:   models.StatsWrite{StartChallenge: &started},
			Entries: snap.Entries,
		}, nil
	})
	if err != nil {
		if errors.Is(err, queries.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Challenge already started"})
		}
		return respondError(c, err)
	}
	logger.Info("challenge started", "user_id", userID, "challenge_id", ch.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Challenge started",
		"challenge": models.ChallengeView{Challenge: ch, Joined: true, Instance: &started},
	})
}

// UpdateChallengeProgress folds today's entries into every active challenge.
func UpdateChallengeProgress(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}

	res, err := mutateStats(userID, func(snap statsSnapshot) (*statsMutation, error) {
		return &statsMutation{Entries: snap.Entries, AdvanceChallenges: true}, nil
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Challenge progress updated",
		"challenges": res.Challenges,
		"stats":      res.Stats,
	})
}
