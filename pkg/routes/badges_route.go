package routes

import (
	"github.com/gilanghuda/habit-tracker-backend/app/controllers"
	"github.com/gilanghuda/habit-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterBadgeRoutes(api fiber.Router) {
	badge := api.Group("/badges", middleware.JWTProtected())
	badge.Get("/", controllers.GetBadges)
	badge.Get("/mine", controllers.GetMyBadges)
}
