package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spsc-alumni/internal/adapters/http/middleware"
	"spsc-alumni/internal/adapters/http/routes"
	"spsc-alumni/internal/adapters/persistence/models"
	"spsc-alumni/internal/adapters/persistence/repositories"
	"spsc-alumni/internal/config"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to MySQL
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Connect to MongoDB (notification inbox)
	mdb, err := config.ConnectMongo(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to mongodb: %v", err)
	}

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Ensure Mongo indexes (TTL on notification expiry)
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repositories.NewNotificationRepository(mdb).EnsureIndexes(indexCtx); err != nil {
		log.Printf("⚠️ Warning: Failed to ensure mongo indexes: %v", err)
	}
	cancel()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "SPSC Alumni API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // uploads ride the registration form
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (wires repositories, services and handlers)
	housekeeping := routes.Setup(app, db, mdb, cfg)
	housekeeping.Start()
	defer housekeeping.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
