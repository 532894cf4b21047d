// ~/Documents/CODING/skillup/main.go
package main

import (
	"log"
	"os"
	"time"

	"skillup/database"
	"skillup/handlers"
	"skillup/middleware"
	"skillup/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Validate critical environment variables
	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Initialize cleanup service
	services.InitCleanupService()
	defer func() {
		if cleanupService := services.GetCleanupService(); cleanupService != nil {
			cleanupService.Stop()
		}
	}()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB, enough for avatar uploads
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.RateLimitMiddleware())

	// Serve uploaded avatars
	app.Static("/uploads", "./uploads")

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)

	// User routes (require authentication)
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetCurrentUser)

	// Goal routes
	goalGroup := api.Group("/goals")
	goalGroup.Use(middleware.AuthMiddleware)
	goalGroup.Post("/", handlers.CreateGoal)
	goalGroup.Get("/", handlers.GetGoals)
	goalGroup.Get("/:id", handlers.GetGoal)
	goalGroup.Put("/:id", handlers.UpdateGoal)
	goalGroup.Patch("/:id/progress", handlers.UpdateGoalProgress)
	goalGroup.Patch("/:id/status", handlers.UpdateGoalStatus)
	goalGroup.Delete("/:id", handlers.DeleteGoal)

	// Task routes
	taskGroup := api.Group("/tasks")
	taskGroup.Use(middleware.AuthMiddleware)
	taskGroup.Post("/", handlers.CreateTask)
	taskGroup.Get("/", handlers.GetTasks)
	taskGroup.Get("/:id", handlers.GetTask)
	taskGroup.Put("/:id", handlers.UpdateTask)
	taskGroup.Patch("/:id/status", handlers.UpdateTaskStatus)
	taskGroup.Delete("/:id", handlers.DeleteTask)

	// Note routes
	noteGroup := api.Group("/notes")
	noteGroup.Use(middleware.AuthMiddleware)
	noteGroup.Post("/", handlers.CreateNote)
	noteGroup.Get("/", handlers.GetNotes)
	noteGroup.Get("/:id", handlers.GetNote)
	noteGroup.Put("/:id", handlers.UpdateNote)
	noteGroup.Delete("/:id", handlers.DeleteNote)

	// Achievement routes
	achievementGroup := api.Group("/achievements")
	achievementGroup.Use(middleware.AuthMiddleware)
	achievementGroup.Get("/", handlers.GetAchievements)
	achievementGroup.Get("/:id", handlers.GetAchievement)
	achievementGroup.Post("/refresh", handlers.RefreshAchievements)

	// Profile routes
	profileGroup := api.Group("/profile")
	profileGroup.Use(middleware.AuthMiddleware)
	profileGroup.Get("/", handlers.GetProfile)
	profileGroup.Put("/", handlers.UpdateProfile)
	profileGroup.Get("/stats", handlers.GetProfileStats)
	profileGroup.Post("/avatar", handlers.UploadAvatar)
	profileGroup.Post("/password", handlers.ChangePassword)

	// Chat routes
	chatGroup := api.Group("/chat-sessions")
	chatGroup.Use(middleware.AuthMiddleware)
	chatGroup.Post("/", handlers.CreateChatSession)
	chatGroup.Get("/", handlers.GetChatSessions)
	chatGroup.Get("/:id", handlers.GetChatSession)
	chatGroup.Delete("/:id", handlers.DeleteChatSession)
	chatGroup.Post("/:id/messages", handlers.CreateChatMessage)
	chatGroup.Get("/:id/messages", handlers.GetChatMessages)
	chatGroup.Post("/:id/ai-response", handlers.GenerateAIResponse)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🤖 AI model: %s", getEnv("OPENROUTER_MODEL", "google/gemma-3n-e4b-it:free"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("OPENROUTER_API_KEY") == "" {
		log.Println("WARNING: OPENROUTER_API_KEY not set, AI chat will return fallback replies")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
