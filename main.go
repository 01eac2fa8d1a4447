package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/go-rental-marketplace/app/db"
	appLogger "github.com/FACorreiaa/go-rental-marketplace/app/logger"
	"github.com/FACorreiaa/go-rental-marketplace/app/observability/metrics"
	"github.com/FACorreiaa/go-rental-marketplace/app/tracer"
	"github.com/FACorreiaa/go-rental-marketplace/config"
	"github.com/FACorreiaa/go-rental-marketplace/internal/container"
	"github.com/FACorreiaa/go-rental-marketplace/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	metricsHandler, err := tracer.InitTracingAndMetrics()
	if err != nil {
		logger.Error("Failed to initialize tracing and metrics", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Database ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before the container opens the main pool
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Dependency Injection ---
	c, err := container.NewContainer(&cfg, logger)
	if err != nil {
		logger.Error("Failed to build container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	if !database.WaitForDB(ctx, c.Pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Router ---
	apiRouter := router.SetupRouter(c)

	mux := chi.NewMux()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(appLogger.StructuredLogger(logger))
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(middleware.Timeout(60 * time.Second))
	mux.Use(middleware.Compress(5, "application/json"))
	mux.Mount("/", apiRouter)

	// --- Servers ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler)
	metricsSrv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.MetricsPort),
		Handler:      metricsMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", metricsSrv.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
