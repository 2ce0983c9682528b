package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"investdash/internal/auth"
	"investdash/internal/cache"
	"investdash/internal/config"
	"investdash/internal/logger"
	"investdash/internal/metrics"
	"investdash/internal/platform"
	"investdash/internal/server"
)

// @title InvestDash API
// @version 1.0
// @description Dashboard backend for the multi-wallet investment platform.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting InvestDash application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	store := cache.New(cfg.RedisAddr, cfg.CacheTTL)

	// An expired platform token invalidates everything we cached for that
	// user; the frontend re-authenticates on the 401 it receives.
	onExpired := func(s auth.Session) {
		metrics.RecordSessionExpiry()
		logger.Info("platform session expired", "user_id", s.UserID)
		store.Purge(context.Background(), s.UserID)
	}

	client := platform.New(cfg.PlatformAPIURL, cfg.PlatformAPITimeout, onExpired)

	srv := server.New(cfg, client, store)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
