package cli

import (
	"context"

	"civic-sense/internal/database"
	"civic-sense/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// SetupDBCmd creates the users and reports tables if they do not exist.
func SetupDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup-db",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, db *gorm.DB, driver string, log logger.Logger) error {
				return database.InitSchema(ctx, db, driver, log)
			})
		},
	}
}

// MigrateDBCmd adds the email column to databases created before it existed,
// then applies any pending schema migrations.
func MigrateDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-db",
		Short: "Add the users.email column to an older database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd, func(ctx context.Context, db *gorm.DB, driver string, log logger.Logger) error {
				if err := database.MigrateEmailColumn(ctx, db, log); err != nil {
					return err
				}
				return database.InitSchema(ctx, db, driver, log)
			})
		},
	}
}

func withDB(cmd *cobra.Command, fn func(ctx context.Context, db *gorm.DB, driver string, log logger.Logger) error) error {
	cfg, log, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("closing database", "error", err)
		}
	}()
	return fn(ctx, db, cfg.DBDriver, log)
}
