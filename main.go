package main

import (
	"log"
	"os"
	"time"

	"scriptura/database"
	"scriptura/handlers"
	"scriptura/handlers/admin"
	"scriptura/middleware"
	"scriptura/services"

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

	validateEnvironment()

	// Initialize database (API keys, admin users)
	database.InitDB()
	defer database.CloseDB()

	// Load translations and commentaries
	log.Println("Loading Bible translations...")
	store := services.LoadVersions(getEnv("DATA_DIR", "data"))
	commentaries := services.LoadCommentaries(getEnv("COMMENTARIES_DIR", "commentaries"))
	handlers.Init(store, commentaries)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "*"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-api-key",
	}))

	app.Use(middleware.GeneralRateLimit())

	// Serve the static site
	app.Static("/site", "./site")
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendFile("./site/index.html")
	})

	// API Routes
	api := app.Group("/api")

	// Bible text routes, each with the budget its cost warrants
	api.Get("/random", middleware.PerMinute(20), handlers.GetRandom)
	api.Get("/verse", middleware.PerMinute(30), handlers.GetVerse)
	api.Get("/passage", middleware.PerMinute(10), handlers.GetPassage)
	api.Get("/books", middleware.PerMinute(30), handlers.GetBooks)
	api.Get("/chapters", middleware.PerMinute(30), handlers.GetChapters)
	api.Get("/verses", middleware.PerMinute(30), handlers.GetVerseNumbers)
	api.Get("/search", middleware.PerMinute(10), handlers.Search)
	api.Get("/daytext", middleware.PerMinute(5), handlers.GetDaytext)
	api.Get("/versions", middleware.PerMinute(10), handlers.GetVersions)
	api.Get("/chapter", middleware.PerMinute(20), handlers.GetChapter)
	api.Get("/commentary", middleware.PerMinute(20), handlers.GetCommentary)

	// Reference parsing routes
	api.Post("/parse/reference", middleware.PerMinute(20), handlers.ParseReference)
	api.Get("/parse/reference/:reference", middleware.PerMinute(20), handlers.ParseSingleReference)
	api.Post("/parse/references", middleware.PerMinute(10), handlers.ParseMultipleReferences)

	// API-key protected routes
	app.Get("/secure-data", middleware.PerMinute(10), middleware.APIKeyMiddleware, handlers.SecureData)

	// Payment webhook
	app.Post("/stripe/webhook", middleware.PerMinute(5), handlers.StripeWebhook)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", middleware.PerMinute(5), admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)
	adminProtected.Get("/keys", admin.GetKeys)
	adminProtected.Post("/keys", admin.CreateKey)
	adminProtected.Put("/keys/:id/revoke", admin.RevokeKey)
	adminProtected.Put("/keys/:id/activate", admin.ActivateKey)

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
		port = "8081"
	}

	log.Printf("🚀 Scriptura API starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("📖 Translations loaded: %d", len(store.Versions()))

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

	if os.Getenv("STRIPE_WEBHOOK_SECRET") == "" {
		log.Println("WARNING: STRIPE_WEBHOOK_SECRET not set; the payment webhook will reject all events")
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

	log.Printf("HTTP %d: %s - %s", code, message, c.Path())

	return c.Status(code).JSON(fiber.Map{
		"error":   code,
		"message": message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
