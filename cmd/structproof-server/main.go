// Package main provides the HTTP validation server for structproof.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/structproof/internal/audit"
	"github.com/raphaelgruber/structproof/internal/config"
	"github.com/raphaelgruber/structproof/internal/metrics"
	"github.com/raphaelgruber/structproof/internal/server"
	"github.com/raphaelgruber/structproof/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logging
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()

	logger.Info("starting structproof-server", "port", cfg.ServerPort)

	// Open the audit decision log if configured
	var auditStore *audit.Store
	if cfg.AuditDBPath != "" {
		var err error
		auditStore, err = audit.Open(cfg.AuditDBPath)
		if err != nil {
			logger.Error("failed to open audit store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := auditStore.Close(); err != nil {
				logger.Error("failed to close audit store", "error", err)
			}
		}()
	}

	svc := service.NewValidationService(logger, metrics.NewCollector(), auditStore)
	srv := server.New(svc, cfg.Validation(), logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // validation of huge payloads can be slow
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("validation endpoint available", "url", fmt.Sprintf("http://localhost:%s/v1/validate", cfg.ServerPort))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
