package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/seedtrial/seedtrial/config"
	"github.com/seedtrial/seedtrial/internal/api"
	"github.com/seedtrial/seedtrial/internal/api/handlers"
	"github.com/seedtrial/seedtrial/internal/core/auth"
	"github.com/seedtrial/seedtrial/internal/core/incident"
	"github.com/seedtrial/seedtrial/internal/core/plot"
	"github.com/seedtrial/seedtrial/internal/core/profile"
	"github.com/seedtrial/seedtrial/internal/core/seed"
	"github.com/seedtrial/seedtrial/internal/core/trial"
	"github.com/seedtrial/seedtrial/internal/logging"
	"github.com/seedtrial/seedtrial/internal/metrics"
	"github.com/seedtrial/seedtrial/internal/storage/postgres"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Apply pending migrations and run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	rootCmd := &cobra.Command{
		Use:          "seedtrial",
		Short:        "Seed trial record keeping API",
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger := logging.New(&cfg.Log)

			db, err := postgres.NewClient(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return migrate(cmd.Context(), db, logger)
		},
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)
	return rootCmd
}

func migrate(ctx context.Context, db *postgres.Client, logger *slog.Logger) error {
	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(applied) == 0 {
		logger.Info("schema up to date")
	}
	for _, name := range applied {
		logger.Info("applied migration", "name", name)
	}
	return nil
}

func serve(ctx context.Context) error {
	cfg := config.Load()
	logger := logging.New(&cfg.Log)
	slog.SetDefault(logger)

	if cfg.JWT.Secret == "" {
		logger.Error("JWT_SECRET environment variable is required")
		return errors.New("missing JWT_SECRET")
	}

	db, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()
	logger.Info("connected to database", "host", cfg.Database.Host, "name", cfg.Database.Name)

	if err := migrate(ctx, db, logger); err != nil {
		logger.Error("migration failed", "error", err)
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics, err := metrics.NewHTTPMetrics(registry)
	if err != nil {
		return err
	}

	// Services
	authService := auth.NewService(auth.NewRepository(db), &cfg.JWT)
	incidentService := incident.NewService(incident.NewRepository(db))
	trialService := trial.NewService(trial.NewRepository(db), incidentService)
	seedService := seed.NewService(seed.NewRepository(db), trialService, incidentService)
	plotService := plot.NewService(plot.NewRepository(db), trialService, incidentService)
	profileService := profile.NewService(profile.NewRepository(db), trialService, incidentService)

	router := api.NewRouter(logger, httpMetrics, authService, api.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Seed:     handlers.NewSeedHandler(seedService, httpMetrics),
		Plot:     handlers.NewPlotHandler(plotService, httpMetrics),
		Trial:    handlers.NewTrialHandler(trialService, httpMetrics),
		Incident: handlers.NewIncidentHandler(incidentService, httpMetrics),
		Profile:  handlers.NewProfileHandler(profileService, httpMetrics),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router.Setup(cfg.Server.Mode),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
