package app

import (
	"context"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio-assistant/backend/internal/server"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/internal/tools"
	"portfolio-assistant/backend/pkg/config"
	"portfolio-assistant/backend/pkg/logger"
)

// Version is reported by the MCP server and the CLI
var Version = "dev"

// DatasetPaths maps the configured dataset overrides onto loader paths
func DatasetPaths(cfg *config.Config) services.DatasetPaths {
	return services.DatasetPaths{
		Knowledge: cfg.KnowledgeFile,
		FAQ:       cfg.FAQFile,
	}
}

// Serve runs the HTTP API until ctx is cancelled. When MCP is configured for
// HTTP it is served alongside on its own port; either failing stops both.
func Serve(ctx context.Context, cfg *config.Config, assistant *services.Assistant) error {
	log := logger.Get()
	g, ctx := errgroup.WithContext(ctx)

	api := server.New(assistant, server.OptionsFromConfig(cfg))
	g.Go(func() error {
		return api.Run(ctx)
	})

	if cfg.MCPTransport == string(tools.TransportHTTP) {
		mcpServer := tools.NewServer(assistant, Version)
		addr := net.JoinHostPort("", cfg.MCPPort)
		g.Go(func() error {
			return tools.Serve(ctx, mcpServer, tools.TransportHTTP, addr)
		})
	}

	err := g.Wait()
	if err != nil {
		log.Error("Serving stopped with error", zap.Error(err))
	}
	return err
}
