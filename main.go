// main.go
package main

import (
	"fmt"
	"log"
	"skillswap/app/controllers"
	"skillswap/app/routes"
	"skillswap/app/services"
	"skillswap/config"
	"skillswap/database"
	"skillswap/realtime"
	"skillswap/redis"

	"github.com/gofiber/fiber/v2"
)

func main() {
	app := fiber.New(fiber.Config{
		Prefork:       false,
		CaseSensitive: true,
		StrictRouting: true,
		ServerHeader:  "Fiber",
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			ctx.Status(code)
			return ctx.JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Initialize database first
	fmt.Println("🔌 Initializing database connection...")
	if err := database.InitDB(); err != nil {
		log.Fatalf("❌ Failed to connect to the database: %v", err)
	}
	fmt.Println("✅ Database initialized successfully")

	redisService := redis.NewService()

	// Core services
	matchmakingService := services.NewMatchmakingService(
		database.UsersCollection,
		database.SkillsCollection,
		database.MatchesCollection,
	)
	chatService := services.NewChatService(database.MatchesCollection, database.MessagesCollection)
	requestService := services.NewRequestService(database.MatchesCollection, database.RequestsCollection)
	notificationService := services.NewNotificationService(database.UsersCollection)
	presence := services.NewPresenceRegistry()

	// Realtime router
	fmt.Println("🔌 Initializing Socket.IO handler...")
	socketHandler := realtime.NewSocketHandler(
		presence,
		chatService,
		matchmakingService,
		notificationService,
		database.UsersCollection,
		redisService,
	)
	requestService.SetRealtime(socketHandler)
	fmt.Println("✅ Socket.IO handler initialized")

	// Setup Socket.IO routes (this should be before regular routes)
	socketHandler.SetupSocketRoutes(app)

	// REST controllers and routes
	matchController := controllers.NewMatchController(matchmakingService, redisService)
	requestController := controllers.NewRequestController(requestService)
	chatController := controllers.NewChatController(chatService)
	routes.SetupRoutes(app, matchController, requestController, chatController, redisService)

	// Periodic rescoring
	cronService := services.NewCronService(matchmakingService)
	cronService.StartRescoreCron(config.RescoreInterval)

	port := config.ServerPort
	fmt.Printf("🚀 Server starting on port :%d\n", port)
	fmt.Printf("🔌 Socket.IO server available at :%d/socket.io\n", port)

	log.Fatal(app.Listen(fmt.Sprintf(":%d", port)))
}
