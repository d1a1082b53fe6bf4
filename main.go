package main

import (
	"log"
	"os"

	"github.com/ABAKHAR721/sakane-be/config"
	"github.com/ABAKHAR721/sakane-be/routes"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Connect to database and apply the schema
	config.ConnectDatabase()

	// Seed migrations (default admin, signup-bonus backfill)
	sqlDB, err := config.GetSQLDB()
	if err != nil {
		log.Fatal("Failed to access database handle:", err)
	}
	if err := config.RunMigrations(sqlDB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Live dashboard events
	config.InitializeWebSocketHub()

	// Setup routes
	r := routes.SetupRoutes()

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
