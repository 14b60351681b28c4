package routes

import (
	"github.com/gilanghuda/habit-tracker-backend/app/controllers"
	"github.com/gilanghuda/habit-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterChallengeRoutes(api fiber.Router) {
	challenge := api.Group("/challenges", middleware.JWTProtected())
	challenge.Get("/", controllers.GetChallenges)
	challenge.Get("/active", controllers.GetActiveChallenges)
	challenge.Get("/completed", controllers.GetCompletedChallenges)
	challenge.Put("/update-progress", controllers.UpdateChallengeProgress)
	challenge.Post("/:id/start", controllers.StartChallenge)
}
