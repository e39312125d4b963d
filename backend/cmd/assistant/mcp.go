package main

import (
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portfolio-assistant/backend/internal/app"
	"portfolio-assistant/backend/internal/tools"
	"portfolio-assistant/backend/pkg/logger"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose the assistant as MCP tools",
		Long: `Serves the ask_portfolio, list_faqs, find_entities and explain_path tools
over stdio (for local MCP clients) or streamable HTTP.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, assistant, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := tools.NewServer(assistant, app.Version)
			return tools.Serve(ctx, srv, tools.Transport(cfg.MCPTransport), net.JoinHostPort("", cfg.MCPPort))
		},
	}

	cmd.Flags().String("mcp-transport", "stdio", "stdio or http")
	cmd.Flags().String("mcp-port", "8081", "HTTP port when --mcp-transport=http")
	return cmd
}
