package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/placement-nexus/placement-backend/internal/models"
)

// Connect opens the Postgres connection and runs migrations.
func Connect(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")

	// Migration: creates the tables in Postgres automatically
	log.Println("Running Migrations...")
	if err := db.AutoMigrate(&models.User{}, &models.Job{}, &models.Application{}); err != nil {
		log.Fatal("Migration failed:", err)
	}
	return db
}
