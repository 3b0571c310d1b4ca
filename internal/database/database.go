package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options returns GORM options shared by the server and tests. Single statements
// run without an implicit transaction, and driver errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey.
func Options() *gorm.Config {
	return &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), Options())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Application{},
		&models.User{},
		&models.Review{},
		&models.Report{},
		&models.Coupon{},
		&models.SystemLog{},
	)
}
