package routes

import (
	"github.com/gilanghuda/habit-tracker-backend/app/controllers"
	"github.com/gilanghuda/habit-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterUserRoutes(api fiber.Router) {
	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", controllers.UserSignUp)
	auth.Post("/login", controllers.UserSignIn)
	auth.Post("/refresh", controllers.RefreshToken)
	auth.Post("/logout", middleware.JWTProtected(), controllers.UserLogout)

	user := api.Group("/users", middleware.JWTProtected())
	user.Get("/profile", controllers.UserProfile)
	user.Put("/profile", controllers.UpdateUser)
	user.Put("/preferences", controllers.UpdatePreferences)
	user.Get("/stats", controllers.UserStats)
}
