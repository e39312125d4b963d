package knowledge

import (
	"portfolio-assistant/backend/internal/constants"
)

// Store is the frozen entity/relationship graph. It is built once by a
// Builder and never mutated afterwards, so it is safe for concurrent reads.
type Store struct {
	entities      map[string]Entity
	order         []string
	relationships []Relationship
	outgoing      map[string][]int
	incoming      map[string][]int
	subjectID     string
}

// Entity returns the entity with the given id
func (s *Store) Entity(id string) (Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Entities returns every entity in declaration order
func (s *Store) Entities() []Entity {
	out := make([]Entity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entities[id])
	}
	return out
}

// EntitiesByType returns the entities of one type in declaration order
func (s *Store) EntitiesByType(t EntityType) []Entity {
	var out []Entity
	for _, id := range s.order {
		if e := s.entities[id]; e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Relationships returns every relationship in declaration order
func (s *Store) Relationships() []Relationship {
	return append([]Relationship(nil), s.relationships...)
}

// RelationshipsByType returns the relationships of one type
func (s *Store) RelationshipsByType(t RelationType) []Relationship {
	var out []Relationship
	for _, r := range s.relationships {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// Outgoing returns the relationships whose From is id
func (s *Store) Outgoing(id string) []Relationship {
	return s.collect(s.outgoing[id])
}

// Incoming returns the relationships whose To is id
func (s *Store) Incoming(id string) []Relationship {
	return s.collect(s.incoming[id])
}

// Between returns the relationships linking a and b in either direction
func (s *Store) Between(a, b string) []Relationship {
	var out []Relationship
	for _, idx := range s.outgoing[a] {
		if r := s.relationships[idx]; r.To == b {
			out = append(out, r)
		}
	}
	if a == b {
		return out
	}
	for _, idx := range s.incoming[a] {
		if r := s.relationships[idx]; r.From == b {
			out = append(out, r)
		}
	}
	return out
}

func (s *Store) collect(indexes []int) []Relationship {
	if len(indexes) == 0 {
		return nil
	}
	out := make([]Relationship, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, s.relationships[idx])
	}
	return out
}

// FindPaths returns every simple path from startID to endID that follows
// outgoing edges for at most maxDepth hops. Paths alternate entity ids and
// relation types: [entity, relType, entity, ..., entity]. When startID equals
// endID the single-entity path is returned. Unknown ids and maxDepth <= 0
// yield no paths.
func (s *Store) FindPaths(startID, endID string, maxDepth int) [][]string {
	if maxDepth <= 0 {
		return nil
	}
	if _, ok := s.entities[startID]; !ok {
		return nil
	}
	if _, ok := s.entities[endID]; !ok {
		return nil
	}

	var paths [][]string
	onPath := make(map[string]bool)

	var walk func(current string, path []string, remaining int)
	walk = func(current string, path []string, remaining int) {
		if current == endID {
			paths = append(paths, append([]string(nil), path...))
			return
		}
		if remaining == 0 {
			return
		}

		onPath[current] = true
		for _, idx := range s.outgoing[current] {
			rel := s.relationships[idx]
			if onPath[rel.To] {
				continue
			}
			walk(rel.To, append(path, string(rel.Type), rel.To), remaining-1)
		}
		delete(onPath, current)
	}

	walk(startID, []string{startID}, maxDepth)
	return paths
}

// Connected returns the entities reachable from id within depth hops,
// following edges in both directions. Results are deduplicated, exclude id
// itself and are ordered by hop distance, then discovery order (outgoing
// edges before incoming).
func (s *Store) Connected(id string, depth int) []Entity {
	if depth <= 0 {
		return nil
	}
	if _, ok := s.entities[id]; !ok {
		return nil
	}

	seen := map[string]bool{id: true}
	frontier := []string{id}
	var out []Entity

	for level := 0; level < depth && len(frontier) > 0; level++ {
		var next []string
		for _, current := range frontier {
			for _, neighbor := range s.neighbors(current) {
				if seen[neighbor] {
					continue
				}
				seen[neighbor] = true
				next = append(next, neighbor)
				if e, ok := s.entities[neighbor]; ok {
					out = append(out, e)
				}
			}
		}
		frontier = next
	}
	return out
}

func (s *Store) neighbors(id string) []string {
	out := make([]string, 0, len(s.outgoing[id])+len(s.incoming[id]))
	for _, idx := range s.outgoing[id] {
		out = append(out, s.relationships[idx].To)
	}
	for _, idx := range s.incoming[id] {
		out = append(out, s.relationships[idx].From)
	}
	return out
}

// Subject returns the person entity reasoning paths are anchored on
func (s *Store) Subject() (Entity, bool) {
	return s.Entity(s.subjectID)
}

// Contact returns the subject's contact channels, falling back to the
// built-in defaults for any channel the dataset leaves empty
func (s *Store) Contact() Contact {
	c := Contact{
		Email:    constants.DefaultContactEmail,
		Phone:    constants.DefaultContactPhone,
		LinkedIn: constants.DefaultContactLinkedIn,
		GitHub:   constants.DefaultContactGitHub,
	}
	subject, ok := s.Subject()
	if !ok {
		return c
	}
	if v := subject.MetaString("email"); v != "" {
		c.Email = v
	}
	if v := subject.MetaString("phone"); v != "" {
		c.Phone = v
	}
	if v := subject.MetaString("linkedin"); v != "" {
		c.LinkedIn = v
	}
	if v := subject.MetaString("github"); v != "" {
		c.GitHub = v
	}
	return c
}

// Stats summarizes the store
func (s *Store) Stats() Stats {
	st := Stats{
		Entities:      len(s.order),
		Relationships: len(s.relationships),
		ByType:        make(map[EntityType]int),
	}
	for _, e := range s.entities {
		st.ByType[e.Type]++
	}
	return st
}
