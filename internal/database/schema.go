package database

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	"civic-sense/internal/config"
	"civic-sense/internal/logger"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps its FS and dialect in package globals
var gooseMu sync.Mutex

// InitSchema brings the users and reports tables up to the latest migration.
func InitSchema(ctx context.Context, db *gorm.DB, driver string, log logger.Logger) error {
	dialect, dir, err := gooseTarget(driver)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: schema handle: %w", err)
	}

	gooseMu.Lock()
	defer func() {
		goose.SetBaseFS(nil)
		gooseMu.Unlock()
	}()
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("database: set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("database: apply schema: %w", err)
	}

	log.Info("Database initialized successfully", "driver", driver)
	return nil
}

func gooseTarget(driver string) (dialect, dir string, err error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	case config.DriverPostgres:
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("database: unsupported driver %q", driver)
	}
}

// MigrateEmailColumn adds users.email to databases created before the column
// existed. An already present column is logged and is not an error.
func MigrateEmailColumn(ctx context.Context, db *gorm.DB, log logger.Logger) error {
	err := db.WithContext(ctx).Exec("ALTER TABLE users ADD COLUMN email TEXT").Error
	if err != nil {
		if isDuplicateColumn(err) {
			log.Warn("migration might have already run", "error", err)
			return nil
		}
		return fmt.Errorf("database: add email column: %w", err)
	}
	log.Info("added email column to users table")
	return nil
}

func isDuplicateColumn(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") ||
		(strings.Contains(msg, "column") && strings.Contains(msg, "already exists"))
}
