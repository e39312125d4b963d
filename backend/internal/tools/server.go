package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/pkg/logger"
)

// Transport selects how the MCP server is exposed
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

// NewServer creates an MCP server with every portfolio tool registered
func NewServer(assistant *services.Assistant, version string) *mcp.Server {
	pt := &PortfolioTools{assistant: assistant, logger: logger.Get()}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "portfolio-assistant",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolAskPortfolio,
		Description: "Answer a question about the portfolio owner from the FAQ table and knowledge graph",
	}, pt.AskPortfolio)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolListFAQs,
		Description: "List the curated FAQ questions and answers in table order",
	}, pt.ListFAQs)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolFindEntities,
		Description: "Find knowledge graph entities by free text and/or entity type",
	}, pt.FindEntities)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        ToolExplainPath,
		Description: "Explain every directed path between two knowledge graph entities, best first",
	}, pt.ExplainPath)

	return srv
}

// Serve runs srv over the chosen transport until ctx is cancelled
func Serve(ctx context.Context, srv *mcp.Server, transport Transport, addr string) error {
	log := logger.Get()

	switch transport {
	case TransportStdio, "":
		log.Info("MCP server starting", zap.String("transport", "stdio"))
		return srv.Run(ctx, &mcp.StdioTransport{})

	case TransportHTTP:
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return srv
		}, nil)
		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("MCP server listening", zap.String("transport", "http"), zap.String("addr", addr))
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)

	default:
		return fmt.Errorf("unknown MCP transport %q (use stdio or http)", transport)
	}
}
