// app/routes/routes.go
package routes

import (
	"time"

	"skillswap/app/controllers"
	"skillswap/app/middlewares"
	"skillswap/config"
	"skillswap/database"
	"skillswap/redis"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes wires the REST API onto the Fiber app
func SetupRoutes(
	app *fiber.App,
	matchController *controllers.MatchController,
	requestController *controllers.RequestController,
	chatController *controllers.ChatController,
	redisService *redis.Service,
) {
	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		health := map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services":  map[string]string{},
		}

		// Check MongoDB connection
		if err := database.HealthCheck(); err != nil {
			health["services"].(map[string]string)["mongodb"] = "error: " + err.Error()
		} else {
			health["services"].(map[string]string)["mongodb"] = "ok"
		}

		// Check Redis connection
		if _, err := redisService.GetClient().Ping(redisService.GetContext()).Result(); err != nil {
			health["services"].(map[string]string)["redis"] = "error: " + err.Error()
		} else {
			health["services"].(map[string]string)["redis"] = "ok"
		}

		return c.JSON(health)
	})

	// API version endpoint
	app.Get("/api/version", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"version":   config.AppVersion,
			"name":      config.AppName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := app.Group("/api", middlewares.AuthRequired())

	// Matching
	api.Post("/matches/find", matchController.FindMatches)
	api.Get("/matches/suggestions", matchController.GetSuggestions)
	api.Post("/matches/rescore", matchController.Rescore)
	api.Get("/matches", matchController.GetMatches)

	// Connection requests
	api.Post("/requests", requestController.Create)
	api.Get("/requests", requestController.List)
	api.Put("/requests/:id/accept", requestController.Accept)
	api.Put("/requests/:id/decline", requestController.Decline)
	api.Delete("/requests/:id", requestController.Cancel)

	// Chat history
	api.Get("/chat/unread", chatController.GetUnreadCounts)
	api.Get("/chat/:matchId/messages", chatController.GetMessages)
}
