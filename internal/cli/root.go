package cli

import (
	"civic-sense/internal/config"
	"civic-sense/internal/logger"

	"github.com/spf13/cobra"
)

const (
	flagLogLevel = "log-level"
	flagLogJSON  = "log-json"
)

// RootCmd builds the civicsense command tree. Running it without a
// subcommand starts the server.
func RootCmd() *cobra.Command {
	serve := ServeCmd()

	root := &cobra.Command{
		Use:           "civicsense",
		Short:         "Civic Sense issue reporting service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.PersistentFlags().String(flagLogLevel, "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	root.PersistentFlags().Bool(flagLogJSON, false, "log as JSON (overrides LOG_JSON)")

	root.AddCommand(
		serve,
		SetupDBCmd(),
		MigrateDBCmd(),
	)
	return root
}

// bootstrap loads configuration and builds the logger; command line
// flags win over the environment.
func bootstrap(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed(flagLogLevel) {
		if cfg.LogLevel, err = flags.GetString(flagLogLevel); err != nil {
			return nil, nil, err
		}
	}
	if flags.Changed(flagLogJSON) {
		if cfg.LogJSON, err = flags.GetBool(flagLogJSON); err != nil {
			return nil, nil, err
		}
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.JSON = cfg.LogJSON
	logCfg.Output = cmd.ErrOrStderr()
	return cfg, logger.New(logCfg), nil
}
