package database

import (
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/justsurfingit/skycareers/internal/config"
	"github.com/justsurfingit/skycareers/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 30

// Connect opens the configured database, retrying while it comes up, and migrates the schema.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		dialector = postgres.Open(cfg.DatabaseDSN)
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err = Open(dialector)
		if err == nil {
			break
		}
		log.Printf("Database not ready (attempt %d/%d): %v", attempt, connectAttempts, err)
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Println("Database connection established")

	log.Println("Running Migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Open returns a handle with driver errors translated to gorm sentinels, so
// unique violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Job{}, &models.JobApplication{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
