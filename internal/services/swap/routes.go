package swap

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/skillswap-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *SwapService) SetupRoutes(app *fiber.App) {
	// Группа для API обменов
	api := app.Group("/api/swaps")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания предложения обмена
	api.Post("/", s.CreateSwap)

	// Маршрут для получения своих предложений обмена
	api.Get("/mine", s.GetMySwaps)

	// Маршруты переходов жизненного цикла
	api.Patch("/:id/respond", s.RespondSwap)
	api.Patch("/:id/complete", s.CompleteSwap)
}
