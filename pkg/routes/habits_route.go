package routes

import (
	"github.com/gilanghuda/habit-tracker-backend/app/controllers"
	"github.com/gilanghuda/habit-tracker-backend/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func RegisterHabitRoutes(api fiber.Router) {
	habit := api.Group("/habits", middleware.JWTProtected())
	habit.Get("/", controllers.GetHabits)
	habit.Post("/", controllers.CreateHabit)
	habit.Post("/score", controllers.PreviewScore)
	habit.Get("/weekly", controllers.GetWeeklyHabits)
	habit.Get("/stats", controllers.GetHabitStats)
	habit.Get("/date/:date", controllers.GetHabitsByDate)
	habit.Put("/:id", controllers.UpdateHabit)
	habit.Delete("/:id", controllers.DeleteHabit)
}
