package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/handler"
	"github.com/deppfellow/muslimah-travel/internal/middleware"
	"github.com/deppfellow/muslimah-travel/internal/repository"
	"github.com/deppfellow/muslimah-travel/internal/router"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/deppfellow/muslimah-travel/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var (
	serveMigrate bool
	serveWorkers bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply pending migrations before serving")
	serveCmd.Flags().BoolVar(&serveWorkers, "workers", true, "run background workers in this process")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, loggerService, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveMigrate {
		if err := database.Migrate(ctx, log, cfg); err != nil {
			return errors.Wrap(err, "failed to migrate database")
		}
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		return errors.Wrap(err, "could not create services")
	}

	handlers := handler.NewHandlers(srv, services)
	middlewares := middleware.NewMiddlewares(srv, services.Tokens)
	r := router.NewRouter(srv, handlers, middlewares)

	srv.SetupHTTPServer(r)

	if serveWorkers {
		if err := srv.Job.Start(); err != nil {
			return err
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
	return nil
}
