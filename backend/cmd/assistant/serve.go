package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"portfolio-assistant/backend/internal/app"
	"portfolio-assistant/backend/pkg/logger"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and WebSocket chat API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, assistant, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return app.Serve(ctx, cfg, assistant)
		},
	}

	cmd.Flags().String("port", "8080", "HTTP port")
	cmd.Flags().String("allowed-origins", "*", "comma separated CORS origins")
	cmd.Flags().Float64("rate-limit-rps", 5, "requests per second allowed per client IP")
	cmd.Flags().Int("rate-limit-burst", 10, "burst size per client IP")
	cmd.Flags().String("mcp-transport", "stdio", "also serve MCP over HTTP when set to http")
	cmd.Flags().String("mcp-port", "8081", "MCP HTTP port")
	return cmd
}
