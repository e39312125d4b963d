package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/agent"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/state"
	"portfolio-assistant/backend/internal/suggest"
	"portfolio-assistant/backend/internal/telemetry"
	"portfolio-assistant/backend/pkg/logger"
)

// Surface names the hosting front end a question arrived through
type Surface string

const (
	SurfaceHTTP      Surface = "http"
	SurfaceWebSocket Surface = "websocket"
	SurfaceDiscord   Surface = "discord"
	SurfaceMCP       Surface = "mcp"
	SurfaceCLI       Surface = "cli"
)

// Assistant is what every surface talks to: the answer engine, the
// suggestion ranker and telemetry, built once and shared read-only
type Assistant struct {
	orchestrator *agent.Orchestrator
	ranker       *suggest.Ranker
	recorder     *telemetry.Recorder
	logger       *zap.Logger
}

// DatasetPaths points at dataset files on disk. Empty paths use the
// datasets compiled into the binary.
type DatasetPaths struct {
	Knowledge string
	FAQ       string
}

// LoadDatasets builds and validates the knowledge store and FAQ table
func LoadDatasets(paths DatasetPaths) (*knowledge.Store, *faq.Table, error) {
	var (
		store *knowledge.Store
		faqs  *faq.Table
		err   error
	)

	if paths.Knowledge != "" {
		store, err = knowledge.LoadFile(paths.Knowledge)
	} else {
		store, err = knowledge.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load knowledge dataset: %w", err)
	}

	if paths.FAQ != "" {
		faqs, err = faq.LoadFile(paths.FAQ)
	} else {
		faqs, err = faq.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load faq dataset: %w", err)
	}

	return store, faqs, nil
}

// NewAssistant wires the engine over already-loaded datasets. A nil
// recorder records through the global otel providers.
func NewAssistant(store *knowledge.Store, faqs *faq.Table, recorder *telemetry.Recorder) (*Assistant, error) {
	if recorder == nil {
		var err error
		recorder, err = telemetry.NewRecorder()
		if err != nil {
			return nil, fmt.Errorf("failed to create telemetry recorder: %w", err)
		}
	}

	a := &Assistant{
		orchestrator: agent.NewOrchestrator(store, faqs),
		ranker:       suggest.NewRanker(faqs),
		recorder:     recorder,
		logger:       logger.Get(),
	}

	stats := store.Stats()
	a.logger.Info("Assistant ready",
		zap.Int("entities", stats.Entities),
		zap.Int("relationships", stats.Relationships),
		zap.Int("faqs", faqs.Len()),
	)
	return a, nil
}

// Bootstrap loads the datasets and builds an assistant in one step
func Bootstrap(paths DatasetPaths) (*Assistant, error) {
	store, faqs, err := LoadDatasets(paths)
	if err != nil {
		return nil, err
	}
	return NewAssistant(store, faqs, nil)
}

func outcome(resp agent.Response) telemetry.Outcome {
	out := telemetry.Outcome{
		Source:     string(resp.Source),
		Confidence: resp.Confidence,
	}
	if resp.Reasoning != nil {
		out.Intent = string(resp.Reasoning.Intent)
	}
	return out
}

// Ask answers one question on behalf of a surface
func (a *Assistant) Ask(ctx context.Context, surface Surface, question string) agent.Response {
	var resp agent.Response
	a.recorder.Answer(ctx, string(surface), func(context.Context) telemetry.Outcome {
		resp = a.orchestrator.AnswerQuestion(question)
		return outcome(resp)
	})
	return resp
}

// AskWithDebug answers one question and includes classifier details
func (a *Assistant) AskWithDebug(ctx context.Context, surface Surface, question string) agent.DebugResponse {
	var resp agent.DebugResponse
	a.recorder.Answer(ctx, string(surface), func(context.Context) telemetry.Outcome {
		resp = a.orchestrator.AnswerWithDebug(question)
		return outcome(resp.Response)
	})
	return resp
}

// Suggest ranks follow-up FAQ questions for a caller-owned transcript
func (a *Assistant) Suggest(messages []state.ChatMessage, limit int) []faq.Record {
	return a.ranker.Rank(messages, limit)
}

// Orchestrator exposes the answer engine for read-only graph queries
func (a *Assistant) Orchestrator() *agent.Orchestrator {
	return a.orchestrator
}
