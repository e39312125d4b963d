package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"portfolio-assistant/backend/internal/knowledge"
)

// EntityLabel is carried by every mirrored knowledge node
const EntityLabel = "Entity"

// SyncResult describes what a sync wrote
type SyncResult struct {
	Entities      int    `json:"entities"`
	Relationships int    `json:"relationships"`
	Fingerprint   string `json:"fingerprint"`
	Wiped         bool   `json:"wiped"`
	Skipped       bool   `json:"skipped"` // the mirror already held this dataset
}

// Counts is the size of the mirrored graph
type Counts struct {
	Entities      int64 `json:"entities"`
	Relationships int64 `json:"relationships"`
}

// TypeLabel converts an entity type to its secondary node label, e.g.
// "organization" becomes "Organization"
func TypeLabel(t knowledge.EntityType) string {
	s := string(t)
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// RelType converts a relation type to a Cypher relationship type, e.g.
// "hasDegree" becomes "HAS_DEGREE"
func RelType(t knowledge.RelationType) string {
	var b strings.Builder
	for i, r := range string(t) {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// entityRow turns an entity into UNWIND parameters. Neo4j properties cannot
// hold maps, so metadata becomes flat "meta_" properties.
func entityRow(e knowledge.Entity) map[string]any {
	props := make(map[string]any, len(e.Metadata))
	for k, v := range e.Metadata {
		key := "meta_" + k
		switch val := v.(type) {
		case string, bool, int, int64, float64:
			props[key] = val
		case []string:
			props[key] = val
		case []any:
			items := make([]string, 0, len(val))
			for _, item := range val {
				items = append(items, fmt.Sprint(item))
			}
			props[key] = items
		case nil:
		default:
			props[key] = fmt.Sprint(val)
		}
	}
	return map[string]any{
		"id":          e.ID,
		"name":        e.Name,
		"type":        string(e.Type),
		"description": e.Description,
		"props":       props,
	}
}

func relationshipRow(r knowledge.Relationship) map[string]any {
	return map[string]any{
		"from":     r.From,
		"to":       r.To,
		"strength": r.Strength,
		"context":  r.Context,
	}
}

// entityBatches groups entity rows by type, in sorted type order
func entityBatches(entities []knowledge.Entity) ([]knowledge.EntityType, map[knowledge.EntityType][]map[string]any) {
	batches := make(map[knowledge.EntityType][]map[string]any)
	for _, e := range entities {
		batches[e.Type] = append(batches[e.Type], entityRow(e))
	}
	return sortedKeys(batches), batches
}

// relationshipBatches groups relationship rows by type, in sorted type order
func relationshipBatches(rels []knowledge.Relationship) ([]knowledge.RelationType, map[knowledge.RelationType][]map[string]any) {
	batches := make(map[knowledge.RelationType][]map[string]any)
	for _, r := range rels {
		batches[r.Type] = append(batches[r.Type], relationshipRow(r))
	}
	return sortedKeys(batches), batches
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Fingerprint identifies a dataset by its entity ids and edges, so an
// unchanged dataset is not rewritten
func Fingerprint(store *knowledge.Store) string {
	h := sha256.New()
	for _, e := range store.Entities() {
		fmt.Fprintf(h, "e|%s|%s|%s\n", e.ID, e.Type, e.Name)
	}
	for _, r := range store.Relationships() {
		fmt.Fprintf(h, "r|%s|%s|%s|%g|%s\n", r.From, r.Type, r.To, r.Strength, r.Context)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
