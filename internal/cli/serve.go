package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"civic-sense/internal/config"
	"civic-sense/internal/database"
	"civic-sense/internal/logger"
	"civic-sense/internal/mail"
	"civic-sense/internal/metrics"
	"civic-sense/internal/server"

	"github.com/spf13/cobra"
)

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := database.Open(ctx, cfg.DBDriver, cfg.DBDSN, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := database.Close(db); err != nil {
					log.Warn("closing database", "error", err)
				}
			}()

			if cfg.DBAutoSetup {
				if err := database.InitSchema(ctx, db, cfg.DBDriver, log); err != nil {
					return err
				}
			}

			router, err := server.NewRouter(cfg, server.Deps{
				Store:   database.NewStore(db),
				Mailer:  newMailer(cfg, log),
				Logger:  log,
				Metrics: metrics.New(),
			})
			if err != nil {
				return err
			}

			return server.Run(ctx, fmt.Sprintf(":%s", cfg.ServerPort), router, log)
		},
	}
}

func newMailer(cfg *config.Config, log logger.Logger) mail.Mailer {
	if cfg.SendGridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, recovery passwords will be written to the log")
		return mail.NewLogMailer(log)
	}
	return mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromEmail)
}
