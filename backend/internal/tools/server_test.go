package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-assistant/backend/internal/agent"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/services"
)

// setupSession connects a client to a fresh server over in-memory transports
func setupSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	a, err := services.Bootstrap(services.DatasetPaths{})
	require.NoError(t, err)
	srv := NewServer(a, "test")

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	_, err = srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text, result.IsError
}

func TestListTools(t *testing.T) {
	session := setupSession(t)

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolAskPortfolio, ToolListFAQs, ToolFindEntities, ToolExplainPath}, names)
}

func TestAskPortfolio(t *testing.T) {
	session := setupSession(t)

	text, isErr := callTool(t, session, ToolAskPortfolio, map[string]any{"question": "What is your email address?"})
	require.False(t, isErr, text)

	var resp agent.Response
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	assert.Equal(t, agent.SourceFAQ, resp.Source)
	assert.Equal(t, "muneebashraf.edu@gmail.com", resp.Answer)

	text, isErr = callTool(t, session, ToolAskPortfolio, map[string]any{
		"question": "Can you help me learn calculus for machine learning?",
		"debug":    true,
	})
	require.False(t, isErr, text)

	var debug agent.DebugResponse
	require.NoError(t, json.Unmarshal([]byte(text), &debug))
	assert.Equal(t, agent.SourceGraph, debug.Source)
	assert.InDelta(t, 0.95, debug.Confidence, 1e-9)
	assert.NotEmpty(t, debug.Debug.NormalizedQuestion)
}

func TestListFAQsTool(t *testing.T) {
	session := setupSession(t)

	text, isErr := callTool(t, session, ToolListFAQs, map[string]any{"limit": 2})
	require.False(t, isErr, text)

	var records []faq.Record
	require.NoError(t, json.Unmarshal([]byte(text), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "How can I contact you?", records[0].Question)

	text, _ = callTool(t, session, ToolListFAQs, nil)
	require.NoError(t, json.Unmarshal([]byte(text), &records))
	assert.Len(t, records, 33)
}

func TestFindEntitiesTool(t *testing.T) {
	session := setupSession(t)

	text, isErr := callTool(t, session, ToolFindEntities, map[string]any{"type": "goal"})
	require.False(t, isErr, text)

	var entities []knowledge.Entity
	require.NoError(t, json.Unmarshal([]byte(text), &entities))
	assert.Len(t, entities, 5)
	for _, e := range entities {
		assert.Equal(t, knowledge.EntityGoal, e.Type)
	}

	text, isErr = callTool(t, session, ToolFindEntities, map[string]any{"query": "calculus", "type": "subject"})
	require.False(t, isErr, text)
	require.NoError(t, json.Unmarshal([]byte(text), &entities))
	require.NotEmpty(t, entities)
	assert.Equal(t, "calculus", entities[0].ID)

	text, isErr = callTool(t, session, ToolFindEntities, map[string]any{"type": "planet"})
	assert.True(t, isErr)
	assert.Contains(t, text, "Unknown entity type")
}

func TestExplainPathTool(t *testing.T) {
	session := setupSession(t)

	text, isErr := callTool(t, session, ToolExplainPath, map[string]any{"from": "muneeb_ashraf", "to": "calculus"})
	require.False(t, isErr, text)

	var res PathsResult
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	assert.Equal(t, 3, res.MaxDepth)
	require.Len(t, res.Paths, 2)
	assert.Equal(t, "muneeb_ashraf", res.Paths[0].Entities[0].ID)

	text, isErr = callTool(t, session, ToolExplainPath, map[string]any{"from": "muneeb_ashraf", "to": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	_, isErr = callTool(t, session, ToolExplainPath, map[string]any{"from": "muneeb_ashraf", "to": "calculus", "max_depth": 9})
	assert.True(t, isErr)

	text, isErr = callTool(t, session, ToolExplainPath, map[string]any{"from": "muneeb_ashraf", "to": ""})
	assert.True(t, isErr)
	assert.Contains(t, text, "required")

	// schema validation rejects the call before the handler runs
	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolExplainPath,
		Arguments: map[string]any{"from": "muneeb_ashraf"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing properties")
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	a, err := services.Bootstrap(services.DatasetPaths{})
	require.NoError(t, err)

	err = Serve(context.Background(), NewServer(a, "test"), Transport("carrier-pigeon"), "")
	assert.ErrorContains(t, err, "unknown MCP transport")
}
