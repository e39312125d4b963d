package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/app"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/pkg/config"
	"portfolio-assistant/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	assistant, err := services.Bootstrap(app.DatasetPaths(cfg))
	if err != nil {
		log.Fatal("Failed to load datasets", zap.Error(err))
	}

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, cfg, assistant); err != nil {
		log.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
}
