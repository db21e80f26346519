package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/lib/email"
	"github.com/deppfellow/muslimah-travel/internal/lib/job"
	"github.com/deppfellow/muslimah-travel/internal/lib/metrics"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, loggerService, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		return database.Migrate(cmd.Context(), log, cfg)
	},
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background email workers without the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, loggerService, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		mailer, err := email.NewClient(cfg, log)
		if err != nil {
			return err
		}

		jobs := job.NewJobService(log, cfg, mailer, metrics.New())
		if err := jobs.Start(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		jobs.Stop()
		return nil
	},
}

var emailPreviewCmd = &cobra.Command{
	Use:       "email-preview <template>",
	Short:     "Render an email template with sample data",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(email.TemplateWelcome), string(email.TemplatePasswordReset), string(email.TemplateBookingCreated)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, loggerService, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		mailer, err := email.NewClient(cfg, log)
		if err != nil {
			return err
		}

		html, err := mailer.Preview(email.Template(args[0]))
		if err != nil {
			return errors.Wrap(err, "render preview")
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	},
}
