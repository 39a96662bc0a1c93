package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"civic-sense/internal/config"
	"civic-sense/internal/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	maxAttempts  = 10
	retryBackoff = 2 * time.Second

	sqliteBusyTimeoutMs = 5000
)

// Open connects to the configured store. Network drivers are retried,
// sqlite files are opened once.
func Open(ctx context.Context, driver, dsn string, log logger.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	attempts := maxAttempts
	if driver == config.DriverSQLite {
		attempts = 1
	}

	var db *gorm.DB
	for i := 1; i <= attempts; i++ {
		log.Debug("connecting to database", "driver", driver, "attempt", i, "of", attempts)

		db, err = gorm.Open(dialector, &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}

		log.Warn("failed to connect to database", "driver", driver, "attempt", i, "error", err)
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("database: connect after %d attempts: %w", attempts, err)
	}

	if driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("database: sqlite handle: %w", err)
		}
		// one writer at a time; sqlite serializes the rest via busy_timeout
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info("connected to database", "driver", driver)
	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: close: %w", err)
	}
	return sqlDB.Close()
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.Open(sqliteDSN(dsn)), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "_pragma=busy_timeout") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)", path, sep, sqliteBusyTimeoutMs)
}
