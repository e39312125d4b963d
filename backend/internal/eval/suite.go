package eval

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"portfolio-assistant/backend/internal/agent"
	apperrors "portfolio-assistant/backend/pkg/errors"
)

//go:embed data/conformance.yaml
var defaultSuite []byte

// Case is one question with the outcome it is expected to produce
type Case struct {
	Name               string       `yaml:"name" json:"name"`
	Question           string       `yaml:"question" json:"question"`
	ExpectedSource     agent.Source `yaml:"expected_source" json:"expected_source"`
	ExpectedConfidence float64      `yaml:"expected_confidence" json:"expected_confidence"`
	ExpectedIntent     string       `yaml:"expected_intent,omitempty" json:"expected_intent,omitempty"`
	Category           string       `yaml:"category,omitempty" json:"category,omitempty"`
	ReasoningPath      string       `yaml:"reasoning_path,omitempty" json:"reasoning_path,omitempty"`
}

// Suite is an ordered set of conformance cases
type Suite struct {
	Cases []Case `yaml:"cases"`
}

// Load parses the suite compiled into the binary
func Load() (*Suite, error) {
	return Parse(defaultSuite)
}

// LoadFile parses a suite from disk
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read eval suite: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML suite
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse eval suite: %w", err)
	}

	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		switch {
		case strings.TrimSpace(c.Question) == "":
			return nil, apperrors.NewInvalidEvalCase(name, "question is empty")
		case !validSource(c.ExpectedSource):
			return nil, apperrors.NewInvalidEvalCase(name, fmt.Sprintf("unknown source %q", c.ExpectedSource))
		case seen[name]:
			return nil, apperrors.NewInvalidEvalCase(name, "duplicate name")
		}
		seen[name] = true
		s.Cases[i].Name = name
	}
	return &s, nil
}

func validSource(s agent.Source) bool {
	switch s {
	case agent.SourceFAQ, agent.SourceGraph, agent.SourceFallback:
		return true
	}
	return false
}

// Filter returns the cases whose name or category contains term, case-insensitively
func (s *Suite) Filter(term string) *Suite {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s
	}
	out := &Suite{}
	for _, c := range s.Cases {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Category), term) {
			out.Cases = append(out.Cases, c)
		}
	}
	return out
}
