package user

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API пользователей
func (s *UserService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/users")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Лента и подбор партнеров
	api.Get("/all", s.GetAllUsers)
	api.Get("/matches", s.GetMatches)

	// Профиль
	api.Get("/profile", s.GetProfile)
	api.Patch("/profile", s.PatchProfile)
}
