package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	questionPunctuation = regexp.MustCompile(`[?!.,:;]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// stopWords are dropped from significant tokens
var stopWords = map[string]struct{}{
	"what": {}, "is": {}, "can": {}, "do": {}, "you": {}, "are": {}, "the": {},
	"a": {}, "an": {}, "and": {}, "or": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "have": {}, "has": {}, "did": {},
	"would": {}, "could": {}, "should": {}, "your": {}, "my": {}, "about": {},
	"me": {}, "any": {}, "some": {}, "how": {}, "why": {}, "where": {},
	"when": {}, "which": {},
}

// NormalizeQuestion lower-cases, strips ?!.,:; and collapses whitespace
func NormalizeQuestion(question string) string {
	s := strings.ToLower(question)
	s = questionPunctuation.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SignificantTokens lower-cases text, removes every rune that is not a
// letter, digit or space, splits on whitespace and drops tokens of two
// runes or fewer and stop words. Order is preserved; duplicates are kept.
func SignificantTokens(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, text)

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// IsStopWord reports whether word is ignored by SignificantTokens
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// EditDistance is the Levenshtein distance between a and b, measured in runes
func EditDistance(a, b string) int {
	s1, s2 := []rune(a), []rune(b)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}

// Similarity is 1 - EditDistance/maxLen. Two empty strings are identical.
func Similarity(a, b string) float64 {
	longer := max(len([]rune(a)), len([]rune(b)))
	if longer == 0 {
		return 1.0
	}
	return float64(longer-EditDistance(a, b)) / float64(longer)
}

// ContainsAny reports whether s contains any of the substrings
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
