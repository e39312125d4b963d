package suggest

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/state"
	"portfolio-assistant/backend/internal/utils"
	"portfolio-assistant/backend/pkg/logger"
)

// Ranker orders FAQ records by how well they follow on from a conversation
type Ranker struct {
	records   []faq.Record
	questions []string
	keywords  map[string][]int
	tokens    []map[string]struct{}
	logger    *zap.Logger
}

// NewRanker creates a ranker over a frozen FAQ table
func NewRanker(table *faq.Table) *Ranker {
	records := table.Records()
	r := &Ranker{
		records:   records,
		questions: make([]string, len(records)),
		keywords:  table.Index(),
		tokens:    make([]map[string]struct{}, len(records)),
		logger:    logger.Get(),
	}
	for i, rec := range records {
		r.questions[i] = utils.NormalizeQuestion(rec.Question)
		set := make(map[string]struct{})
		for _, tok := range utils.SignificantTokens(rec.Question) {
			set[tok] = struct{}{}
		}
		r.tokens[i] = set
	}
	return r
}

type scored struct {
	index int
	score int
}

// Rank returns up to limit FAQ records for the transcript's last user
// messages. The most recent message weighs 3, the one before 2, then 1.
// Records the user already asked are left out. With no signal at all the
// first records in table order are returned.
func (r *Ranker) Rank(messages []state.ChatMessage, limit int) []faq.Record {
	if limit <= 0 {
		limit = constants.DefaultSuggestionLimit
	}

	recent := state.RecentUserMessages(messages, constants.SuggestionWindow)
	asked := make(map[string]bool, len(recent))
	for _, text := range recent {
		asked[utils.NormalizeQuestion(text)] = true
	}

	scores := r.scores(recent)
	var candidates []scored
	total := 0
	for i := range r.records {
		if asked[r.questions[i]] {
			continue
		}
		total += scores[i]
		candidates = append(candidates, scored{index: i, score: scores[i]})
	}

	if total > 0 {
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].score > candidates[b].score
		})
	}

	out := make([]faq.Record, 0, limit)
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, r.records[c.index])
	}

	r.logger.Debug("Ranked suggestions",
		zap.Int("recent_messages", len(recent)),
		zap.Int("returned", len(out)),
		zap.Bool("signal", total > 0),
	)
	return out
}

// scores sums keyword and token hits per record. recent is most recent first.
func (r *Ranker) scores(recent []string) []int {
	out := make([]int, len(r.records))
	for pos, text := range recent {
		weight := constants.SuggestionWindow - pos
		if weight <= 0 {
			break
		}

		lower := strings.ToLower(text)
		for kw, indexes := range r.keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			for _, i := range indexes {
				out[i] += 2 * weight
			}
		}

		seen := make(map[string]bool)
		for _, tok := range utils.SignificantTokens(text) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			for i, set := range r.tokens {
				if _, ok := set[tok]; ok {
					out[i] += weight
				}
			}
		}
	}
	return out
}
