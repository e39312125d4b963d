package agent

import (
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/intent"
	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/reasoning"
	"portfolio-assistant/backend/internal/utils"
	"portfolio-assistant/backend/pkg/logger"
)

// Source names the tier that produced an answer
type Source string

const (
	SourceFAQ      Source = "faq"
	SourceGraph    Source = "graph"
	SourceFallback Source = "fallback"
)

// Reasoning carries the intent and ranked paths behind a graph answer
type Reasoning struct {
	Intent intent.Intent    `json:"intent"`
	Paths  []reasoning.Path `json:"paths,omitempty"`
}

// Response is the single answer returned for a question
type Response struct {
	Answer     string     `json:"answer"`
	Source     Source     `json:"source"`
	Confidence float64    `json:"confidence"`
	Links      []faq.Link `json:"links,omitempty"`
	Reasoning  *Reasoning `json:"reasoning,omitempty"`
}

// Debug describes how a question was read
type Debug struct {
	Intent             intent.Intent `json:"intent"`
	IntentConfidence   float64       `json:"intent_confidence"`
	PriorityAreas      []string      `json:"priority_areas"`
	NormalizedQuestion string        `json:"normalized_question"`
}

// DebugResponse is a Response plus classifier details
type DebugResponse struct {
	Response
	Debug Debug `json:"debug"`
}

// Orchestrator resolves a question through the FAQ, graph and fallback tiers.
// Everything it holds is built once in NewOrchestrator and only read
// afterwards, so one instance can serve concurrent callers.
type Orchestrator struct {
	store    *knowledge.Store
	faqs     *faq.Table
	matcher  *faqMatcher
	detector *intent.Detector
	reasoner *reasoning.Reasoner
	contact  knowledge.Contact
	logger   *zap.Logger
}

// NewOrchestrator creates a new orchestrator over a frozen store and FAQ table
func NewOrchestrator(store *knowledge.Store, faqs *faq.Table) *Orchestrator {
	return &Orchestrator{
		store:    store,
		faqs:     faqs,
		matcher:  newFAQMatcher(faqs),
		detector: intent.NewDetector(),
		reasoner: reasoning.NewReasoner(store),
		contact:  store.Contact(),
		logger:   logger.Get(),
	}
}

// AnswerQuestion runs the tiers in order and never fails: questions nothing
// can answer, including blank ones, get the contact-redirect fallback.
func (o *Orchestrator) AnswerQuestion(question string) Response {
	normalized := utils.NormalizeQuestion(question)
	if normalized == "" {
		o.logger.Debug("Blank question, using fallback")
		return o.fallback(intent.Unknown)
	}

	// Tier 1: curated FAQ
	if record, score, ok := o.matcher.match(normalized); ok {
		o.logger.Debug("FAQ match",
			zap.String("question", record.Question),
			zap.Float64("score", score),
		)
		return Response{
			Answer:     record.Answer,
			Source:     SourceFAQ,
			Confidence: constants.FAQConfidence,
			Links:      record.Links,
		}
	}

	// Tier 2: intent + graph reasoning
	detected := o.detector.Detect(question)
	if result, ok := o.reasoner.Answer(question); ok && len(result.Paths) > 0 {
		best := result.Paths[0]
		confidence := min(constants.GraphConfidenceCap, best.Confidence*detected.Confidence)

		o.logger.Debug("Graph answer",
			zap.String("intent", string(detected.Intent)),
			zap.Float64("path_confidence", best.Confidence),
			zap.Float64("intent_confidence", detected.Confidence),
		)
		return Response{
			Answer:     shapeAnswer(result.Answer, detected.Intent, best),
			Source:     SourceGraph,
			Confidence: confidence,
			Reasoning: &Reasoning{
				Intent: detected.Intent,
				Paths:  result.Paths,
			},
		}
	}

	// Tier 3: contact redirect
	o.logger.Debug("No FAQ or graph answer, using fallback",
		zap.String("intent", string(detected.Intent)),
	)
	return o.fallback(detected.Intent)
}

// AnswerWithDebug answers and reports how the question was classified
func (o *Orchestrator) AnswerWithDebug(question string) DebugResponse {
	detected := o.detector.Detect(question)
	return DebugResponse{
		Response: o.AnswerQuestion(question),
		Debug: Debug{
			Intent:             detected.Intent,
			IntentConfidence:   detected.Confidence,
			PriorityAreas:      intent.PriorityAreas(detected.Intent),
			NormalizedQuestion: utils.NormalizeQuestion(question),
		},
	}
}

// IsAnswerable reports whether the answer's confidence reaches threshold.
// A non-positive threshold uses the default of 0.5.
func (o *Orchestrator) IsAnswerable(question string, threshold float64) bool {
	if threshold <= 0 {
		threshold = constants.DefaultAnswerableThreshold
	}
	return o.AnswerQuestion(question).Confidence >= threshold
}

// AvailableFAQs returns every curated record in declaration order
func (o *Orchestrator) AvailableFAQs() []faq.Record {
	return o.faqs.Records()
}

// DetectIntent exposes the classifier used by the graph tier
func (o *Orchestrator) DetectIntent(question string) intent.Result {
	return o.detector.Detect(question)
}

// CandidateEntities lists the entities the graph tier would target
func (o *Orchestrator) CandidateEntities(question string) []knowledge.Entity {
	return o.reasoner.CandidateEntities(question)
}

// Store returns the knowledge store the orchestrator reads
func (o *Orchestrator) Store() *knowledge.Store {
	return o.store
}

// Contact returns the contact channels embedded in fallback answers
func (o *Orchestrator) Contact() knowledge.Contact {
	return o.contact
}

// ExplainPaths renders every path between two entities as explanation
// fragments, best first
func (o *Orchestrator) ExplainPaths(fromID, toID string, maxDepth int) []reasoning.Path {
	return o.reasoner.PathsBetween(fromID, toID, maxDepth)
}
