package agent

import (
	"strings"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/utils"
)

// faqEntry caches the per-record values every match needs
type faqEntry struct {
	record   faq.Record
	question string // lower-cased canonical question, punctuation kept
	tokens   map[string]struct{}
}

// faqScore is the breakdown for one record against one question
type faqScore struct {
	keyword  float64
	question float64
	overlap  int
}

func (s faqScore) eligible() bool {
	return s.question >= constants.FAQCloseMatch ||
		s.keyword >= constants.FAQKeywordGate ||
		(s.question >= constants.FAQStrongMatch && s.overlap >= constants.FAQStrongOverlap) ||
		(s.question >= constants.FAQLooseMatch && s.overlap >= constants.FAQLooseOverlap)
}

func (s faqScore) value() float64 {
	return max(s.keyword, s.question)
}

// faqMatcher is built once from the table and only read afterwards
type faqMatcher struct {
	entries []faqEntry
}

func newFAQMatcher(table *faq.Table) *faqMatcher {
	records := table.Records()
	m := &faqMatcher{entries: make([]faqEntry, 0, len(records))}
	for _, r := range records {
		question := strings.ToLower(r.Question)
		tokens := make(map[string]struct{})
		for _, tok := range utils.SignificantTokens(question) {
			tokens[tok] = struct{}{}
		}
		m.entries = append(m.entries, faqEntry{record: r, question: question, tokens: tokens})
	}
	return m
}

// score compares a normalized question with one record
func (m *faqMatcher) score(normalized string, questionTokens []string, e faqEntry) faqScore {
	s := faqScore{
		question: utils.Similarity(normalized, e.question),
	}

	if n := len(e.record.Keywords); n > 0 {
		matched := 0
		for _, kw := range e.record.Keywords {
			if strings.Contains(normalized, kw) {
				matched++
			}
		}
		s.keyword = float64(matched) / float64(n)
	}

	for _, tok := range questionTokens {
		if _, ok := e.tokens[tok]; ok {
			s.overlap++
		}
	}
	return s
}

// match returns the eligible record with the highest score strictly above
// the floor. Earlier records win ties.
func (m *faqMatcher) match(normalized string) (faq.Record, float64, bool) {
	questionTokens := utils.SignificantTokens(normalized)

	bestScore := constants.FAQMatchFloor
	bestIdx := -1
	for i, e := range m.entries {
		s := m.score(normalized, questionTokens, e)
		if !s.eligible() {
			continue
		}
		if v := s.value(); v > bestScore {
			bestScore, bestIdx = v, i
		}
	}

	if bestIdx < 0 {
		return faq.Record{}, 0, false
	}
	return m.entries[bestIdx].record, bestScore, true
}
