package reasoning

import (
	"sort"

	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/utils"
	"portfolio-assistant/backend/pkg/logger"
)

// Path is one explanatory chain from a subject-connected entity to a
// question-relevant entity
type Path struct {
	Entities      []knowledge.Entity       `json:"entities"`
	Relationships []knowledge.Relationship `json:"relationships"`
	Confidence    float64                  `json:"confidence"`
	Explanation   []string                 `json:"explanation"`
}

// Result is a synthesized answer plus every ranked path behind it
type Result struct {
	Answer string `json:"answer"`
	Paths  []Path `json:"paths"`
}

// Reasoner answers questions by walking the knowledge store. It only reads
// the store and is safe for concurrent use.
type Reasoner struct {
	store    *knowledge.Store
	maxDepth int
	logger   *zap.Logger
}

// NewReasoner creates a reasoner over store
func NewReasoner(store *knowledge.Store) *Reasoner {
	return &Reasoner{
		store:    store,
		maxDepth: constants.GraphMaxDepth,
		logger:   logger.Get(),
	}
}

// ExtractKeywords returns the question's significant tokens
func ExtractKeywords(question string) []string {
	return utils.SignificantTokens(question)
}

// RelevantEntities returns, in declaration order, the entities whose name,
// description or aliases contain any keyword
func (r *Reasoner) RelevantEntities(keywords []string) []knowledge.Entity {
	if len(keywords) == 0 {
		return nil
	}
	var out []knowledge.Entity
	for _, e := range r.store.Entities() {
		if e.Matches(keywords) {
			out = append(out, e)
		}
	}
	return out
}

// CandidateEntities returns the entities relevant to a free-text query
func (r *Reasoner) CandidateEntities(query string) []knowledge.Entity {
	return r.RelevantEntities(ExtractKeywords(query))
}

// BuildPaths pairs every entity connected to start with every keyword-relevant
// target and materializes each path found between them. Paths are sorted by
// descending confidence; equal confidences keep discovery order.
func (r *Reasoner) BuildPaths(start knowledge.Entity, keywords []string) []Path {
	targets := r.RelevantEntities(keywords)
	if len(targets) == 0 {
		return nil
	}

	var paths []Path
	for _, connected := range r.store.Connected(start.ID, r.maxDepth) {
		for _, target := range targets {
			for _, raw := range r.store.FindPaths(connected.ID, target.ID, r.maxDepth) {
				if p, ok := r.materialize(raw); ok {
					paths = append(paths, p)
				}
			}
		}
	}

	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Confidence > paths[j].Confidence
	})
	return paths
}

// PathsBetween materializes every path from one entity to another, best
// first. maxDepth <= 0 uses the default graph depth.
func (r *Reasoner) PathsBetween(fromID, toID string, maxDepth int) []Path {
	if maxDepth <= 0 {
		maxDepth = r.maxDepth
	}
	var paths []Path
	for _, raw := range r.store.FindPaths(fromID, toID, maxDepth) {
		if p, ok := r.materialize(raw); ok {
			paths = append(paths, p)
		}
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Confidence > paths[j].Confidence
	})
	return paths
}

// materialize turns [entity, relType, entity, ...] into a Path. Ids missing
// from the store are skipped rather than failing the path.
func (r *Reasoner) materialize(raw []string) (Path, bool) {
	var p Path
	for i := 0; i < len(raw); i += 2 {
		e, ok := r.store.Entity(raw[i])
		if ok {
			p.Entities = append(p.Entities, e)
		}
		if i+2 >= len(raw) {
			continue
		}

		next := raw[i+2]
		p.Relationships = append(p.Relationships, r.store.Between(raw[i], next)...)

		to, okTo := r.store.Entity(next)
		if ok && okTo {
			p.Explanation = append(p.Explanation, RelationText(knowledge.RelationType(raw[i+1]), e.Name, to.Name))
		}
	}
	if len(p.Entities) == 0 {
		return Path{}, false
	}
	p.Confidence = Confidence(p.Entities, p.Relationships)
	return p, true
}

// Confidence is avgStrength * (1 / entityCount), capped at 1. A path without
// relationships has average strength 1; a path without entities scores 0.
func Confidence(entities []knowledge.Entity, relationships []knowledge.Relationship) float64 {
	if len(entities) == 0 {
		return 0
	}
	avg := 1.0
	if len(relationships) > 0 {
		sum := 0.0
		for _, rel := range relationships {
			sum += rel.Strength
		}
		avg = sum / float64(len(relationships))
	}
	return min(1, avg/float64(len(entities)))
}

// Answer reasons from the subject entity to the question's keywords. It
// returns false when no keyword-relevant entity is reachable within the
// depth bound.
func (r *Reasoner) Answer(question string) (*Result, bool) {
	subject, ok := r.store.Subject()
	if !ok {
		return nil, false
	}

	keywords := ExtractKeywords(question)
	paths := r.BuildPaths(subject, keywords)
	if len(paths) == 0 {
		r.logger.Debug("No reasoning path found",
			zap.Strings("keywords", keywords),
		)
		return nil, false
	}

	r.logger.Debug("Reasoning paths built",
		zap.Strings("keywords", keywords),
		zap.Int("paths", len(paths)),
		zap.Float64("best_confidence", paths[0].Confidence),
	)

	return &Result{
		Answer: Synthesize(question, paths[0]),
		Paths:  paths,
	}, true
}
