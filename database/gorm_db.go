package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/footprintlab/scanner/models"
)

// InitGormDB initializes and returns a GORM database instance
func InitGormDB(dataSourceName string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("GORM Database initialized successfully at", dataSourceName)
	return db, nil
}

// AutoMigrateModels migrates the full schema. Call once at startup.
func AutoMigrateModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Subject{},
		&models.SecondaryEmail{},
		&models.SecondaryPhone{},
		&models.Address{},
		&models.Picture{},
		&models.Source{},
		&models.Footprint{},
		&models.PersonalIdentity{},
		&models.ActivityLog{},
		&models.SubjectFootprint{},
	)
	if err != nil {
		return fmt.Errorf("GORM AutoMigrate failed: %w", err)
	}

	// SQLite treats NULLs as distinct in unique indexes, so the tag-level
	// index never fires for footprints without media; a partial index
	// closes that gap
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_reference_url_no_media
		ON digital_footprints(reference_url) WHERE media_path IS NULL`).Error
	if err != nil {
		return fmt.Errorf("failed to create footprint natural key index: %w", err)
	}
	log.Println("GORM AutoMigrate completed successfully.")
	return nil
}

// IsUniqueViolation reports whether err is a uniqueness-constraint violation.
// The loader treats these as "row already exists", never as generic failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed") && strings.Contains(msg, "unique")
}
