package rating

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API рейтингов
func (s *RatingService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/ratings")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для выставления оценки пользователю
	api.Post("/user", s.RateUser)
}
