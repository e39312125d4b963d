package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"portfolio-assistant/backend/internal/agent"
	"portfolio-assistant/backend/internal/state"
	"portfolio-assistant/backend/internal/telemetry"
)

func TestBootstrapEmbedded(t *testing.T) {
	a, err := Bootstrap(DatasetPaths{})
	require.NoError(t, err)

	resp := a.Ask(context.Background(), SurfaceCLI, "What is your email address?")
	assert.Equal(t, agent.SourceFAQ, resp.Source)
	assert.Equal(t, "muneebashraf.edu@gmail.com", resp.Answer)

	debug := a.AskWithDebug(context.Background(), SurfaceCLI, "What's your favorite pizza topping?")
	assert.Equal(t, agent.SourceFallback, debug.Source)
	assert.Equal(t, "what's your favorite pizza topping", debug.Debug.NormalizedQuestion)
	assert.Empty(t, debug.Debug.PriorityAreas)

	assert.Len(t, a.Suggest(nil, 3), 3)
	assert.Len(t, a.Orchestrator().AvailableFAQs(), 33)
}

func TestAskRecordsSpans(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	recorder, err := telemetry.NewRecorder(telemetry.WithTracerProvider(tp))
	require.NoError(t, err)

	store, faqs, err := LoadDatasets(DatasetPaths{})
	require.NoError(t, err)
	a, err := NewAssistant(store, faqs, recorder)
	require.NoError(t, err)

	a.Ask(context.Background(), SurfaceHTTP, "Can you help me learn calculus for machine learning?")

	ended := spans.Ended()
	require.Len(t, ended, 1)
	var source string
	for _, kv := range ended[0].Attributes() {
		if kv.Key == "assistant.source" {
			source = kv.Value.AsString()
		}
	}
	assert.Equal(t, "graph", source)
}

func TestLoadDatasetsFromFiles(t *testing.T) {
	dir := t.TempDir()
	knowledgePath := filepath.Join(dir, "knowledge.yaml")
	faqPath := filepath.Join(dir, "faqs.yaml")

	require.NoError(t, os.WriteFile(knowledgePath, []byte(`
subject: me
entities:
  - id: me
    type: person
    name: Me
    metadata:
      email: me@example.com
  - id: go
    type: skill
    name: Golang
relationships:
  - from: me
    to: go
    type: skillOf
`), 0o600))
	require.NoError(t, os.WriteFile(faqPath, []byte(`
faqs:
  - question: What is your favourite language?
    answer: Go.
    keywords: [language, favourite]
`), 0o600))

	store, faqs, err := LoadDatasets(DatasetPaths{Knowledge: knowledgePath, FAQ: faqPath})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Stats().Entities)
	assert.Equal(t, 1, faqs.Len())

	a, err := NewAssistant(store, faqs, nil)
	require.NoError(t, err)
	assert.Equal(t, "Go.", a.Ask(context.Background(), SurfaceCLI, "What is your favourite language?").Answer)

	resp := a.Ask(context.Background(), SurfaceCLI, "Do you write golang?")
	assert.Equal(t, agent.SourceGraph, resp.Source)

	msgs := []state.ChatMessage{state.NewMessage(state.SenderUser, "what language")}
	assert.Len(t, a.Suggest(msgs, 5), 1)
}

func TestLoadDatasetsReportsBadFiles(t *testing.T) {
	_, _, err := LoadDatasets(DatasetPaths{Knowledge: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "faqs.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("faqs:\n  - question: q\n"), 0o600))
	_, _, err = LoadDatasets(DatasetPaths{FAQ: bad})
	assert.Error(t, err)
}
