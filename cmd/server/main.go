package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"labis-admin/internal/adapters/http/middleware"
	"labis-admin/internal/adapters/http/routes"
	"labis-admin/internal/adapters/persistence/models"
	"labis-admin/internal/config"

	_ "labis-admin/docs"

	"github.com/gofiber/fiber/v2"
)

// @title LabIS Admin API
// @version 1.0
// @description Backend for the hospital laboratory information system admin console: authentication, reference data management and HIS integration.
// @host localhost:3333
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// 2. Connect to database
	if _, err := config.ConnectDatabase(cfg); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	// 3. Run migrations
	if err := models.AutoMigrate(config.DB); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}
	log.Println("✅ Database migrated successfully")

	// 4. Seed initial data
	if err := config.Seed(config.DB); err != nil {
		log.Fatalf("❌ Failed to seed database: %v", err)
	}

	// 5. Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LabIS Admin API",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// 6. Setup middlewares
	middleware.Setup(app, cfg)

	// 7. Setup routes (wires repositories, services and handlers)
	cronService := routes.Setup(app, cfg)

	// 8. Start background jobs
	cronService.Start()

	// 9. Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("🛑 Shutting down server...")
		cronService.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server shutdown error: %v", err)
		}
		config.CloseDatabase()
	}()

	// 10. Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
