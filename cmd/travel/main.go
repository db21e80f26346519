// Command travel runs the Muslimah Travel API.
//
//	travel serve            HTTP API + background workers
//	travel migrate          apply embedded database migrations
//	travel worker           background workers only
//	travel email-preview    render an email template to stdout
package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/deppfellow/muslimah-travel/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "travel",
	Short:         "Muslimah Travel booking API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, workerCmd, emailPreviewCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the root logger. The returned
// LoggerService must be shut down by the caller to flush New Relic.
func bootstrap() (*config.Config, *zerolog.Logger, *logger.LoggerService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, &log, loggerService, nil
}
