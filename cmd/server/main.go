package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/S-Forouzandeh/NEM12/internal/config"
	"github.com/S-Forouzandeh/NEM12/internal/core"
	"github.com/S-Forouzandeh/NEM12/internal/logging"
	"github.com/S-Forouzandeh/NEM12/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"from_participant", cfg.Header.FromParticipant,
		"to_participant", cfg.Header.ToParticipant,
		"generate_max_concurrent", cfg.Generate.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Create service with config
	service := core.NewService(core.Options{
		FromParticipant: cfg.Header.FromParticipant,
		ToParticipant:   cfg.Header.ToParticipant,
		MaxFileSize:     cfg.Generate.MaxFileSize,
		MaxConcurrent:   cfg.Generate.MaxConcurrent,
		MaxWaitTime:     cfg.Generate.MaxWaitTime,
		RunTimeout:      cfg.Generate.Timeout,
		ResultTTL:       cfg.Generate.ResultTTL,
	})

	// Create server with config
	server := web.NewServer(cfg, service)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active runs to complete (with timeout)
		status := service.LimiterStatus()
		if status.Active > 0 {
			slog.Info("waiting for runs to complete", "active", status.Active)
			if err := service.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("runs did not complete in time", "error", err)
			} else {
				slog.Info("all runs completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && err != http.ErrServerClosed {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
