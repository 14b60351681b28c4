package controllers

import (
	"errors"

	"github.com/gilanghuda/habit-tracker-backend/app/models"
	"github.com/gilanghuda/habit-tracker-backend/app/queries"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/engine"
	"github.com/gilanghuda/habit-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func UserProfile(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, queries.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

func UpdateUser(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	req := &models.UpdateUserRequest{}
	if err := bindBody(c, req); err != nil {
		return respondError(c, err)
	}
	if req.Username == nil && req.Email == nil {
		return respondBadRequest(c, "Nothing to update")
	}

	userQueries := queries.UserQueries{DB: database.DB}
	if err := userQueries.UpdateUser(userID, req); err != nil {
		if errors.Is(err, queries.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already registered"})
		}
		return respondError(c, err)
	}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Profile updated", "user": user})
}

func UpdatePreferences(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}
	req := &models.UpdatePreferencesRequest{}
	if err := bindBody(c, req); err != nil {
		return respondError(c, err)
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	prefs := req.Apply(user.Preferences)
	if err := userQueries.UpdatePreferences(userID, prefs); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Preferences updated", "preferences": prefs})
}

// UserStats returns the stored counters with streaks and weekly figures
// recomputed from the full history.
func UserStats(c *fiber.Ctx) error {
	userID, err := utils.CurrentUserID(c)
	if err != nil {
		return unauthorized(c, err.Error())
	}

	userQueries := queries.UserQueries{DB: database.DB}
	user, err := userQueries.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	habitQueries := queries.HabitQueries{DB: database.DB}
	entries, err := habitQueries.GetEntriesByUser(userID, "", "")
	if err != nil {
		return respondError(c, err)
	}
	scored, err := models.ScoredEntries(entries, appLocation())
	if err != nil {
		return respondError(c, err)
	}
	stats, err := engine.DeriveStats(user.Counters.Stats(), scored, appNow())
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"stats": stats})
}
