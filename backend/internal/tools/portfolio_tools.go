package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/reasoning"
	"portfolio-assistant/backend/internal/services"
)

// PortfolioTools holds the handlers of every MCP tool
type PortfolioTools struct {
	assistant *services.Assistant
	logger    *zap.Logger
}

// PathsResult is the result of explain_path
type PathsResult struct {
	From     string           `json:"from"`
	To       string           `json:"to"`
	MaxDepth int              `json:"max_depth"`
	Paths    []reasoning.Path `json:"paths"`
}

func (t *PortfolioTools) AskPortfolio(ctx context.Context, _ *mcp.CallToolRequest, input AskPortfolioInput) (*mcp.CallToolResult, any, error) {
	t.logger.Debug("MCP ask_portfolio", zap.String("question", input.Question))

	if input.Debug {
		return toolJSON(t.assistant.AskWithDebug(ctx, services.SurfaceMCP, input.Question))
	}
	return toolJSON(t.assistant.Ask(ctx, services.SurfaceMCP, input.Question))
}

func (t *PortfolioTools) ListFAQs(_ context.Context, _ *mcp.CallToolRequest, input ListFAQsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit < 0 {
		return toolError("limit must not be negative"), nil, nil
	}

	records := t.assistant.Orchestrator().AvailableFAQs()
	if input.Limit > 0 && input.Limit < len(records) {
		records = records[:input.Limit]
	}
	if records == nil {
		records = []faq.Record{}
	}
	return toolJSON(records)
}

func (t *PortfolioTools) FindEntities(_ context.Context, _ *mcp.CallToolRequest, input FindEntitiesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit < 0 {
		return toolError("limit must not be negative"), nil, nil
	}

	orch := t.assistant.Orchestrator()
	store := orch.Store()

	var entities []knowledge.Entity
	if q := strings.TrimSpace(input.Query); q != "" {
		entities = orch.CandidateEntities(q)
	} else {
		entities = store.Entities()
	}

	if input.Type != "" {
		et := knowledge.EntityType(strings.ToLower(input.Type))
		if !et.Valid() {
			return toolError("Unknown entity type %q", input.Type), nil, nil
		}
		filtered := entities[:0:0]
		for _, e := range entities {
			if e.Type == et {
				filtered = append(filtered, e)
			}
		}
		entities = filtered
	}

	if input.Limit > 0 && input.Limit < len(entities) {
		entities = entities[:input.Limit]
	}
	if entities == nil {
		entities = []knowledge.Entity{}
	}
	return toolJSON(entities)
}

func (t *PortfolioTools) ExplainPath(_ context.Context, _ *mcp.CallToolRequest, input ExplainPathInput) (*mcp.CallToolResult, any, error) {
	if input.From == "" || input.To == "" {
		return toolError("Both from and to entity ids are required"), nil, nil
	}

	depth := input.MaxDepth
	if depth == 0 {
		depth = constants.GraphMaxDepth
	}
	if depth < 1 || depth > constants.GraphMaxDepth {
		return toolError("max_depth must be between 1 and %d", constants.GraphMaxDepth), nil, nil
	}

	store := t.assistant.Orchestrator().Store()
	for _, id := range []string{input.From, input.To} {
		if _, ok := store.Entity(id); !ok {
			return toolError("Entity %q not found", id), nil, nil
		}
	}

	paths := t.assistant.Orchestrator().ExplainPaths(input.From, input.To, depth)
	if paths == nil {
		paths = []reasoning.Path{}
	}
	return toolJSON(PathsResult{From: input.From, To: input.To, MaxDepth: depth, Paths: paths})
}
