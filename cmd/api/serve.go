package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-wizard/internal/autocomplete"
	"github.com/pkordes/trip-wizard/internal/config"
	"github.com/pkordes/trip-wizard/internal/handler"
	"github.com/pkordes/trip-wizard/internal/lookup"
	"github.com/pkordes/trip-wizard/internal/middleware"
	"github.com/pkordes/trip-wizard/internal/repo"
	"github.com/pkordes/trip-wizard/internal/service"
	"github.com/pkordes/trip-wizard/internal/submit"
	"github.com/pkordes/trip-wizard/internal/wizard"
)

// maxBodyBytes caps request bodies; the largest legitimate one is a draft patch.
const maxBodyBytes = 64 << 10

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Session store ----------------------------------------------------
	var sessions repo.SessionRepo
	if cfg.DatabaseURL != "" {
		// pgxpool.New does not connect; the ping verifies the DB before
		// accepting traffic.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("create database pool: %w", err)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("database connection established")
		sessions = repo.NewSessionRepo(pool)
	} else {
		logger.Warn("DATABASE_URL not set; sessions are kept in memory")
		sessions = repo.NewMemorySessionRepo()
	}

	// --- Upstream and services --------------------------------------------
	profiles, err := wizard.LoadProfiles(cfg.WizardProfilesFile)
	if err != nil {
		return err
	}

	upstream := lookup.New(lookup.Config{
		BaseURL: cfg.UpstreamURL,
		Timeout: cfg.UpstreamTimeout,
	}, logger)

	reference := service.NewReferenceService(upstream, cfg.ReferenceTTL, logger)
	if err := reference.Preload(ctx); err != nil {
		// The selectors degrade to empty lists; the next request retries.
		logger.Warn("reference data preload failed", "error", err)
	}

	wizardSvc := service.NewSessionService(
		sessions,
		profiles,
		submit.NewAdapter(upstream, logger),
		upstream,
		service.SessionConfig{
			DefaultProfile:  cfg.WizardProfile,
			DefaultCurrency: cfg.DefaultCurrency,
			Autocomplete: autocomplete.Options{
				Debounce:  cfg.AutocompleteDebounce,
				BlurGrace: cfg.AutocompleteBlurGrace,
				Logger:    logger,
			},
			IdleTTL: cfg.SessionIdleTTL,
		},
		logger,
	)
	defer wizardSvc.Close()
	go wizardSvc.RunSweeper(ctx, cfg.SessionSweepInterval)

	// --- Router -----------------------------------------------------------
	// RequestID → RealIP → Logger → CORS → MaxBodySize → Recoverer.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))
	r.Use(chimiddleware.Recoverer)
	r.Mount("/", handler.NewServer(wizardSvc, reference, logger).Routes())

	// --- HTTP server ------------------------------------------------------
	// WriteTimeout leaves room for one trip generation call.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "profiles", profiles.Names())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
