package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/app"
	"portfolio-assistant/backend/internal/discord"
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
	log.Info("Starting Discord bot...")

	if err := cfg.ValidateDiscord(); err != nil {
		log.Fatal("Discord is not configured", zap.Error(err))
	}

	assistant, err := services.Bootstrap(app.DatasetPaths(cfg))
	if err != nil {
		log.Fatal("Failed to load datasets", zap.Error(err))
	}

	handler := discord.NewHandler(assistant, cfg.SuggestionLimit, log)
	dg, err := discord.NewSession(cfg.DiscordBotToken, handler)
	if err != nil {
		log.Fatal("Failed to create Discord session", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := discord.Run(ctx, dg, log); err != nil {
		log.Fatal("Discord bot failed", zap.Error(err))
	}
}
