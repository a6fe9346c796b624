package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/vivek-portfolio/portfolio-api/internal/config"
	"github.com/vivek-portfolio/portfolio-api/internal/database"
	"github.com/vivek-portfolio/portfolio-api/internal/handler"
	"github.com/vivek-portfolio/portfolio-api/internal/monitor"
	"github.com/vivek-portfolio/portfolio-api/internal/service"
	"github.com/vivek-portfolio/portfolio-api/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting Portfolio API", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	db, err := database.Connect(ctx, database.Options{
		URI:                    cfg.MongoURL,
		Database:               cfg.DBName,
		TLS:                    cfg.MongoTLS,
		ConnectTimeout:         cfg.MongoConnectTimeout,
		ServerSelectionTimeout: cfg.MongoServerSelectionTimeout,
		Timeout:                cfg.MongoTimeout,
	})
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize repository and service
	statusCheckRepo := database.NewStatusCheckRepository(db)
	statusCheckService := service.NewStatusCheckService(statusCheckRepo)

	// Store monitor
	storeMonitor := monitor.NewStoreMonitor(db, cfg.MonitorSchedule, 5*time.Second)
	if cfg.MonitorEnabled {
		if err := storeMonitor.Start(ctx); err != nil {
			slog.Error("Failed to start store monitor", "error", err)
			disconnect(db)
			os.Exit(1)
		}
	}

	// Initialize handlers
	rootHandler := handler.NewRootHandler(cfg.APITitle, version)
	statusCheckHandler := handler.NewStatusCheckHandler(statusCheckService)
	healthHandler := handler.NewHealthHandler(db, storeMonitor, version)

	corsConfig := middleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxAge:         cfg.CORSMaxAge,
	}

	router := handler.NewRouter(rootHandler, statusCheckHandler, healthHandler, corsConfig)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-sigChan:
		slog.Info("Received shutdown signal, initiating graceful shutdown")
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		exitCode = 1
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if cfg.MonitorEnabled {
		slog.Info("Stopping store monitor...")
		storeMonitor.Stop(shutdownCtx)
	}

	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// The store closes last so in-flight requests can finish
	disconnect(db)

	slog.Info("Portfolio API stopped")
	if exitCode != 0 {
		shutdownCancel()
		os.Exit(exitCode)
	}
}

func disconnect(db *database.MongoDB) {
	if err := db.Disconnect(context.Background()); err != nil {
		slog.Error("Failed to disconnect from MongoDB", "error", err)
	}
}
