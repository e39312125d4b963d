package knowledge

import (
	"fmt"
	"strings"
)

// EntityType is the closed set of node kinds in the knowledge graph
type EntityType string

const (
	EntityPerson       EntityType = "person"
	EntityDegree       EntityType = "degree"
	EntitySkill        EntityType = "skill"
	EntitySubject      EntityType = "subject"
	EntityProject      EntityType = "project"
	EntityExperience   EntityType = "experience"
	EntityGoal         EntityType = "goal"
	EntityTool         EntityType = "tool"
	EntityOrganization EntityType = "organization"
	EntityCourse       EntityType = "course"
	EntityAchievement  EntityType = "achievement"
	EntityTimeline     EntityType = "timeline"
)

var entityTypes = map[EntityType]struct{}{
	EntityPerson: {}, EntityDegree: {}, EntitySkill: {}, EntitySubject: {},
	EntityProject: {}, EntityExperience: {}, EntityGoal: {}, EntityTool: {},
	EntityOrganization: {}, EntityCourse: {}, EntityAchievement: {}, EntityTimeline: {},
}

// Valid reports whether t belongs to the closed set
func (t EntityType) Valid() bool {
	_, ok := entityTypes[t]
	return ok
}

// RelationType is the closed set of edge kinds in the knowledge graph
type RelationType string

const (
	RelHasDegree      RelationType = "hasDegree"
	RelStudied        RelationType = "studied"
	RelTeaches        RelationType = "teaches"
	RelUsedIn         RelationType = "usedIn"
	RelUsedWith       RelationType = "usedWith"
	RelBuilt          RelationType = "built"
	RelWorkedAs       RelationType = "workedAs"
	RelLearnedThrough RelationType = "learnedThrough"
	RelGoalIs         RelationType = "goalIs"
	RelFoundedAt      RelationType = "foundedAt"
	RelSkillOf        RelationType = "skillOf"
	RelAppliedIn      RelationType = "appliedIn"
	RelRequiredFor    RelationType = "requiredFor"
	RelBasedOn        RelationType = "basedOn"
	RelConnectedTo    RelationType = "connectedTo"
	RelApplicationOf  RelationType = "applicationOf"
)

var relationTypes = map[RelationType]struct{}{
	RelHasDegree: {}, RelStudied: {}, RelTeaches: {}, RelUsedIn: {}, RelUsedWith: {},
	RelBuilt: {}, RelWorkedAs: {}, RelLearnedThrough: {}, RelGoalIs: {}, RelFoundedAt: {},
	RelSkillOf: {}, RelAppliedIn: {}, RelRequiredFor: {}, RelBasedOn: {}, RelConnectedTo: {},
	RelApplicationOf: {},
}

// Valid reports whether t belongs to the closed set
func (t RelationType) Valid() bool {
	_, ok := relationTypes[t]
	return ok
}

// Entity is a node in the knowledge graph. Metadata is shared with the store
// and must be treated as read-only.
type Entity struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        EntityType     `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Aliases returns metadata.aliases as strings, skipping non-string items
func (e Entity) Aliases() []string {
	raw, ok := e.Metadata["aliases"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// MetaString returns a metadata value rendered as a string, or "" when absent
func (e Entity) MetaString(key string) string {
	v, ok := e.Metadata[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Matches reports whether any keyword is a substring of the entity's
// lower-cased name, description or aliases
func (e Entity) Matches(keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	name := strings.ToLower(e.Name)
	desc := strings.ToLower(e.Description)
	aliases := e.Aliases()
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(name, kw) || strings.Contains(desc, kw) {
			return true
		}
		for _, a := range aliases {
			if strings.Contains(strings.ToLower(a), kw) {
				return true
			}
		}
	}
	return false
}

// Relationship is a directed, typed, weighted edge
type Relationship struct {
	From     string       `json:"from"`
	To       string       `json:"to"`
	Type     RelationType `json:"type"`
	Strength float64      `json:"strength"`
	Context  string       `json:"context,omitempty"`
}

// Links reports whether r connects a and b in either direction
func (r Relationship) Links(a, b string) bool {
	return (r.From == a && r.To == b) || (r.From == b && r.To == a)
}

// Contact holds the subject's public contact channels
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

// Stats summarizes the store's contents
type Stats struct {
	Entities      int                `json:"entities"`
	Relationships int                `json:"relationships"`
	ByType        map[EntityType]int `json:"by_type"`
}
