package faq

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "portfolio-assistant/backend/pkg/errors"
)

//go:embed data/faqs.yaml
var defaultFAQs []byte

// Link is a label/URL pair surfaced alongside an answer
type Link struct {
	Text string `yaml:"text" json:"text"`
	URL  string `yaml:"url" json:"url"`
}

// Record is one curated question/answer pair
type Record struct {
	Question string   `yaml:"question" json:"question"`
	Answer   string   `yaml:"answer" json:"answer"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Links    []Link   `yaml:"links,omitempty" json:"links,omitempty"`
}

// Table is the ordered, immutable list of FAQ records
type Table struct {
	records []Record
	index   map[string][]int
}

// NewTable validates records and freezes them in the given order. Keywords
// are lower-cased and trimmed; blank keywords are dropped.
func NewTable(records []Record) (*Table, error) {
	out := make([]Record, 0, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.Question) == "" {
			return nil, apperrors.NewInvalidFAQ(i, "question is empty")
		}
		if strings.TrimSpace(r.Answer) == "" {
			return nil, apperrors.NewInvalidFAQ(i, "answer is empty")
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		for j, l := range r.Links {
			if l.URL == "" {
				return nil, apperrors.NewInvalidFAQ(i, fmt.Sprintf("link %d has no url", j))
			}
		}
		r.Keywords = keywords
		r.Links = append([]Link(nil), r.Links...)
		out = append(out, r)
	}

	index := make(map[string][]int)
	for i, r := range out {
		for _, k := range r.Keywords {
			if n := len(index[k]); n > 0 && index[k][n-1] == i {
				continue
			}
			index[k] = append(index[k], i)
		}
	}
	return &Table{records: out, index: index}, nil
}

// Load builds the table from the records compiled into the binary
func Load() (*Table, error) {
	return Parse(defaultFAQs)
}

// LoadFile builds the table from a YAML file on disk
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read faq dataset: %w", err)
	}
	return Parse(data)
}

// Parse builds the table from YAML of the form `faqs: [{question, answer, keywords, links}]`
func Parse(data []byte) (*Table, error) {
	var file struct {
		FAQs []Record `yaml:"faqs"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse faq dataset: %w", err)
	}
	table, err := NewTable(file.FAQs)
	if err != nil {
		return nil, fmt.Errorf("invalid faq dataset: %w", err)
	}
	return table, nil
}

// Records returns a copy of the records in declaration order
func (t *Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Record returns the i-th record
func (t *Table) Record(i int) (Record, bool) {
	if i < 0 || i >= len(t.records) {
		return Record{}, false
	}
	return t.records[i], true
}

// Len returns the number of records
func (t *Table) Len() int {
	return len(t.records)
}

// Head returns up to n records from the front of the table
func (t *Table) Head(n int) []Record {
	if n > len(t.records) {
		n = len(t.records)
	}
	if n <= 0 {
		return nil
	}
	return append([]Record(nil), t.records[:n]...)
}

// Index maps each keyword to the positions of the records that carry it,
// in table order. The returned map is a copy.
func (t *Table) Index() map[string][]int {
	out := make(map[string][]int, len(t.index))
	for k, v := range t.index {
		out[k] = append([]int(nil), v...)
	}
	return out
}
