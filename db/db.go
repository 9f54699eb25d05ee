package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/config"
	"github.com/Bekzhanizb/GreenVerseBackend/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const maxRetries = 10

// Connect opens the configured database, retrying while a server driver is
// still coming up.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	attempts := 1
	if cfg.Driver == "postgres" {
		attempts = maxRetries
	}

	var conn *gorm.DB
	for i := 0; i < attempts; i++ {
		conn, err = gorm.Open(dialector, &gorm.Config{
			Logger: gormLogger,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			TranslateError: true,
		})

		if err == nil {
			sqlDB, pingErr := conn.DB()
			if pingErr == nil {
				if pingErr = sqlDB.Ping(); pingErr == nil {
					if cfg.Driver == "postgres" {
						sqlDB.SetMaxIdleConns(10)
						sqlDB.SetMaxOpenConns(100)
						sqlDB.SetConnMaxLifetime(time.Hour)
					}
					return conn, nil
				}
			}
			err = pingErr
		}

		if i+1 < attempts {
			fmt.Printf("Waiting for database connection... (attempt %d/%d)\n", i+1, attempts)
			time.Sleep(2 * time.Second)
		}
	}

	return nil, fmt.Errorf("connect %s database: %w", cfg.Driver, err)
}

// Migrate creates or updates every table the service owns.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.PlantAnalysis{},
		&models.QuizAttempt{},
		&models.Achievement{},
		&models.Notification{},
	)
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "sqlite":
		// WAL lets readers proceed while the single writer commits.
		dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", cfg.Path)
		return sqlite.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}
