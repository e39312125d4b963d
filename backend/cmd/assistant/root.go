package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"portfolio-assistant/backend/internal/app"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/pkg/config"
	"portfolio-assistant/backend/pkg/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assistant",
		Short: "Portfolio question-answering assistant",
		Long: `Answers questions about a portfolio owner from a curated FAQ table and a
knowledge graph of their education, skills, projects and goals.

Configuration comes from .env, the environment and the flags below.`,
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := root.PersistentFlags()
	flags.String("env", "development", "runtime environment (development or production)")
	flags.String("log-level", "", "log level override (debug, info, warn, error)")
	flags.String("knowledge-file", "", "knowledge dataset YAML (default: embedded)")
	flags.String("faq-file", "", "FAQ dataset YAML (default: embedded)")

	root.AddCommand(
		newServeCmd(),
		newAskCmd(),
		newEvalCmd(),
		newSyncGraphCmd(),
		newMCPCmd(),
	)
	return root
}

// setup loads configuration from the command's flags and initializes the logger
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadWithFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// bootstrap loads configuration and builds the assistant
func bootstrap(cmd *cobra.Command) (*config.Config, *services.Assistant, error) {
	cfg, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	assistant, err := services.Bootstrap(app.DatasetPaths(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, assistant, nil
}
