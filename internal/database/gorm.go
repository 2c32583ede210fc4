package database

import (
	"fmt"
	"log"

	"rcs-gateway/internal/config"
	"rcs-gateway/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

// InitGorm opens the send-history database. SQLite is the default so the
// gateway runs as a single binary; DB_DRIVER=postgres switches to a shared
// instance.
func InitGorm(cfg *config.Config) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.DBPath)
	}

	var err error
	GormDB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database (%s): %v", cfg.DBDriver, err)
	}

	if err := GormDB.AutoMigrate(&models.MessageLog{}); err != nil {
		log.Fatalf("Failed to run auto-migration: %v", err)
	}

	log.Printf("Database initialized (%s)", cfg.DBDriver)
}
