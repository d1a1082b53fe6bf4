package config

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/ABAKHAR721/sakane-be/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations executes all pending goose migrations (seed data that
// AutoMigrate cannot express: default admin, signup-bonus backfill).
func RunMigrations(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// For Go migrations the directory is only used for version tracking.
	if err := goose.Up(db, "./migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Migrations goose exécutées avec succès")
	return nil
}

// GetSQLDB returns the underlying *sql.DB from the gorm.DB instance.
func GetSQLDB() (*sql.DB, error) {
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB, nil
}
