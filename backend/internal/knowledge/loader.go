package knowledge

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/knowledge.yaml
var defaultDataset []byte

type datasetFile struct {
	Subject  string `yaml:"subject"`
	Entities []struct {
		ID       string         `yaml:"id"`
		Type     string         `yaml:"type"`
		Name     string         `yaml:"name"`
		Metadata map[string]any `yaml:"metadata"`
	} `yaml:"entities"`
	Relationships []struct {
		From     string   `yaml:"from"`
		To       string   `yaml:"to"`
		Type     string   `yaml:"type"`
		Strength *float64 `yaml:"strength"`
		Context  string   `yaml:"context"`
	} `yaml:"relationships"`
}

// Load builds the store from the dataset compiled into the binary
func Load() (*Store, error) {
	return Parse(defaultDataset)
}

// LoadFile builds the store from a YAML dataset on disk
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge dataset: %w", err)
	}
	return Parse(data)
}

// Parse builds the store from a YAML dataset
func Parse(data []byte) (*Store, error) {
	var file datasetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge dataset: %w", err)
	}

	b := NewBuilder()
	if file.Subject != "" {
		b.Subject(file.Subject)
	}
	for _, e := range file.Entities {
		b.AddEntity(e.ID, EntityType(e.Type), e.Name, e.Metadata)
	}
	for _, r := range file.Relationships {
		var opts []RelationshipOption
		if r.Strength != nil {
			opts = append(opts, WithStrength(*r.Strength))
		}
		if r.Context != "" {
			opts = append(opts, WithContext(r.Context))
		}
		b.AddRelationship(r.From, r.To, RelationType(r.Type), opts...)
	}

	store, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid knowledge dataset: %w", err)
	}
	return store, nil
}
