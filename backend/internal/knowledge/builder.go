package knowledge

import (
	"errors"
	"fmt"

	"portfolio-assistant/backend/internal/constants"
	apperrors "portfolio-assistant/backend/pkg/errors"
)

// RelationshipOption customizes a relationship added to a Builder
type RelationshipOption func(*Relationship)

// WithStrength overrides the default strength of 1
func WithStrength(strength float64) RelationshipOption {
	return func(r *Relationship) {
		r.Strength = strength
	}
}

// WithContext attaches a free-text annotation
func WithContext(context string) RelationshipOption {
	return func(r *Relationship) {
		r.Context = context
	}
}

// Builder accumulates entities and relationships and freezes them into a Store
type Builder struct {
	entities      []Entity
	relationships []Relationship
	subjectID     string
}

// NewBuilder creates a builder anchored on the default subject entity
func NewBuilder() *Builder {
	return &Builder{subjectID: constants.SubjectEntityID}
}

// Subject changes the entity reasoning paths are anchored on
func (b *Builder) Subject(id string) *Builder {
	b.subjectID = id
	return b
}

// AddEntity records an entity. Its description is derived from name and type.
func (b *Builder) AddEntity(id string, t EntityType, name string, metadata map[string]any) *Builder {
	b.entities = append(b.entities, Entity{
		ID:          id,
		Name:        name,
		Type:        t,
		Description: fmt.Sprintf("%s - %s", name, t),
		Metadata:    metadata,
	})
	return b
}

// AddRelationship records a directed edge with strength 1 unless overridden
func (b *Builder) AddRelationship(from, to string, t RelationType, opts ...RelationshipOption) *Builder {
	rel := Relationship{From: from, To: to, Type: t, Strength: 1}
	for _, opt := range opts {
		opt(&rel)
	}
	b.relationships = append(b.relationships, rel)
	return b
}

// Build validates the accumulated data and returns the frozen store. Every
// integrity problem found is reported, joined into one error.
func (b *Builder) Build() (*Store, error) {
	s := &Store{
		entities:  make(map[string]Entity, len(b.entities)),
		outgoing:  make(map[string][]int),
		incoming:  make(map[string][]int),
		subjectID: b.subjectID,
	}

	var errs []error
	for _, e := range b.entities {
		if _, dup := s.entities[e.ID]; dup {
			errs = append(errs, apperrors.NewDuplicateEntity(e.ID))
			continue
		}
		if !e.Type.Valid() {
			errs = append(errs, apperrors.NewUnknownEntityType(e.ID, string(e.Type)))
		}
		s.entities[e.ID] = e
		s.order = append(s.order, e.ID)
	}

	for _, r := range b.relationships {
		if !r.Type.Valid() {
			errs = append(errs, apperrors.NewUnknownRelationType(r.From, r.To, string(r.Type)))
		}
		if r.Strength < 0 || r.Strength > 1 {
			errs = append(errs, apperrors.NewInvalidStrength(r.From, r.To, r.Strength))
		}
		dangling := false
		for _, id := range []string{r.From, r.To} {
			if _, ok := s.entities[id]; !ok {
				errs = append(errs, apperrors.NewDanglingRelationship(r.From, r.To, id))
				dangling = true
			}
		}
		if dangling {
			continue
		}
		idx := len(s.relationships)
		s.relationships = append(s.relationships, r)
		s.outgoing[r.From] = append(s.outgoing[r.From], idx)
		s.incoming[r.To] = append(s.incoming[r.To], idx)
	}

	if subject, ok := s.entities[b.subjectID]; !ok {
		errs = append(errs, apperrors.NewBaseError(apperrors.ErrorTypeDataset, fmt.Sprintf("subject entity %q is not defined", b.subjectID), nil))
	} else if subject.Type != EntityPerson {
		errs = append(errs, apperrors.NewBaseError(apperrors.ErrorTypeDataset, fmt.Sprintf("subject entity %q has type %s, want person", b.subjectID, subject.Type), nil))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}
