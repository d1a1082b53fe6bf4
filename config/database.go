package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ABAKHAR721/sakane-be/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	// TranslateError lets the purchase path detect the (user_id, lead_id)
	// unique violation as gorm.ErrDuplicatedKey.
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Erreur de connexion à la base de données:", err)
	}

	DB = database

	if err := Migrate(DB); err != nil {
		log.Fatal("Erreur de migration de la base de données:", err)
	}

	log.Println("Base de données connectée et migrée avec succès")
}

// Migrate applies the gorm schema. Shared with the test setup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CreditLedgerEntry{},
		&models.Lead{},
		&models.LeadPurchase{},
		&models.AuditLog{},
	)
}
