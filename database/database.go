package database

import (
	"fmt"
	"time"

	"mesto-restful/config"
	"mesto-restful/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and migrates the schema.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = mysql.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, GormConfig(log, cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Database connection successful and migrations complete", zap.String("driver", cfg.DatabaseDriver))
	return db, nil
}

// GormConfig routes GORM's own logging through zap.
func GormConfig(log *zap.Logger, level string) *gorm.Config {
	logLevel := logger.Warn
	if level == "debug" {
		logLevel = logger.Info
	}

	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	return &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}
}

// Migrate creates or updates the tables, including the likes join table.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Card{}, "Likes", &models.CardLike{}); err != nil {
		return fmt.Errorf("failed to set up likes join table: %w", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Card{}, &models.CardLike{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
