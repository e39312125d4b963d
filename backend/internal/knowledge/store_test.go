package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "portfolio-assistant/backend/pkg/errors"
)

func loadStore(t *testing.T) *Store {
	t.Helper()
	store, err := Load()
	require.NoError(t, err)
	return store
}

func ids(entities []Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func TestLoadEmbeddedDataset(t *testing.T) {
	store := loadStore(t)

	stats := store.Stats()
	assert.Equal(t, 76, stats.Entities)
	assert.Equal(t, 81, stats.Relationships)
	assert.Equal(t, 5, stats.ByType[EntityDegree])
	assert.Equal(t, 13, stats.ByType[EntityProject])

	subject, ok := store.Subject()
	require.True(t, ok)
	assert.Equal(t, "Muneeb Ashraf", subject.Name)
	assert.Equal(t, "Muneeb Ashraf - person", subject.Description)

	contact := store.Contact()
	assert.Equal(t, "muneebashraf.edu@gmail.com", contact.Email)
	assert.Equal(t, "(+92) 3006275648", contact.Phone)
}

func TestEntityLookup(t *testing.T) {
	store := loadStore(t)

	calculus, ok := store.Entity("calculus")
	require.True(t, ok)
	assert.Equal(t, EntitySubject, calculus.Type)
	assert.Equal(t, "Calculus - subject", calculus.Description)

	_, ok = store.Entity("does_not_exist")
	assert.False(t, ok)

	goals := store.EntitiesByType(EntityGoal)
	assert.Equal(t, []string{"phd_goal", "research_goal", "teaching_goal", "industry_goal", "freelance_goal"}, ids(goals))

	assert.Empty(t, store.EntitiesByType(EntityTimeline))
}

func TestRelationshipsAreDirected(t *testing.T) {
	store := loadStore(t)

	out := store.Outgoing("muneeb_ashraf")
	assert.Len(t, out, 37)
	for _, r := range out {
		assert.Equal(t, "muneeb_ashraf", r.From)
		assert.Equal(t, 1.0, r.Strength)
	}
	assert.Empty(t, store.Incoming("muneeb_ashraf"))

	in := store.Incoming("python")
	assert.NotEmpty(t, in)
	for _, r := range in {
		assert.Equal(t, "python", r.To)
	}

	between := store.Between("python", "brain_tumor_detection")
	require.Len(t, between, 1)
	assert.Equal(t, RelUsedIn, between[0].Type)
	assert.Equal(t, "brain_tumor_detection", between[0].From)

	assert.Len(t, store.RelationshipsByType(RelGoalIs), 5)
	assert.Len(t, store.Relationships(), 81)
}

func TestFindPaths(t *testing.T) {
	store := loadStore(t)

	paths := store.FindPaths("muneeb_ashraf", "calculus", 3)
	assert.Equal(t, [][]string{
		{"muneeb_ashraf", "hasDegree", "msc_mathematics_gcu", "studied", "calculus"},
		{"muneeb_ashraf", "built", "house_price_prediction", "appliedIn", "machine_learning", "requiredFor", "calculus"},
	}, paths)

	assert.Len(t, store.FindPaths("muneeb_ashraf", "calculus", 2), 1)
	assert.Empty(t, store.FindPaths("muneeb_ashraf", "calculus", 1))

	// incoming edges are never followed
	assert.Empty(t, store.FindPaths("calculus", "muneeb_ashraf", 3))
}

func TestFindPathsEdgeCases(t *testing.T) {
	store := loadStore(t)

	for _, depth := range []int{0, -1} {
		assert.Empty(t, store.FindPaths("muneeb_ashraf", "python", depth))
		assert.Empty(t, store.FindPaths("python", "python", depth))
	}

	assert.Equal(t, [][]string{{"python"}}, store.FindPaths("python", "python", 1))
	assert.Empty(t, store.FindPaths("nope", "python", 3))
	assert.Empty(t, store.FindPaths("python", "nope", 3))
}

func TestFindPathsOnCycles(t *testing.T) {
	store, err := NewBuilder().
		Subject("p").
		AddEntity("p", EntityPerson, "P", nil).
		AddEntity("a", EntitySubject, "A", nil).
		AddEntity("b", EntitySubject, "B", nil).
		AddEntity("c", EntitySubject, "C", nil).
		AddRelationship("a", "b", RelAppliedIn).
		AddRelationship("b", "a", RelRequiredFor).
		AddRelationship("b", "c", RelBasedOn).
		AddRelationship("c", "a", RelConnectedTo).
		Build()
	require.NoError(t, err)

	for depth := 1; depth <= 6; depth++ {
		for _, path := range store.FindPaths("a", "c", depth) {
			assert.LessOrEqual(t, (len(path)-1)/2, depth)
			seen := map[string]bool{}
			for i := 0; i < len(path); i += 2 {
				assert.False(t, seen[path[i]], "entity %s repeated in %v", path[i], path)
				seen[path[i]] = true
			}
		}
	}

	assert.Equal(t, [][]string{{"a", "appliedIn", "b", "basedOn", "c"}}, store.FindPaths("a", "c", 6))
}

func TestConnected(t *testing.T) {
	store := loadStore(t)

	assert.Equal(t,
		[]string{"mathematics", "msc_mathematics_gcu", "machine_learning"},
		ids(store.Connected("calculus", 1)))

	deep := store.Connected("muneeb_ashraf", 3)
	assert.NotContains(t, ids(deep), "muneeb_ashraf")
	seen := map[string]bool{}
	for _, e := range deep {
		assert.False(t, seen[e.ID], "duplicate %s", e.ID)
		seen[e.ID] = true
	}
	assert.True(t, seen["calculus"])
	assert.True(t, seen["uet_lahore"])

	assert.Empty(t, store.Connected("calculus", 0))
	assert.Empty(t, store.Connected("nope", 2))
}

func TestEntityMatches(t *testing.T) {
	store := loadStore(t)

	tf, _ := store.Entity("tensorflow_keras")
	assert.True(t, tf.Matches([]string{"keras"}))
	assert.True(t, tf.Matches([]string{"tool"}))

	ml, _ := store.Entity("machine_learning")
	assert.True(t, ml.Matches([]string{"learning"}))
	assert.False(t, ml.Matches([]string{"pizza"}))
	assert.False(t, ml.Matches(nil))
	assert.Contains(t, ml.Aliases(), "ml")
}

func TestBuildRejectsBadData(t *testing.T) {
	_, err := NewBuilder().
		AddEntity("muneeb_ashraf", EntityPerson, "M", nil).
		AddEntity("x", EntitySkill, "X", nil).
		AddEntity("x", EntitySkill, "X again", nil).
		AddEntity("y", EntityType("planet"), "Y", nil).
		AddRelationship("x", "ghost", RelUsedIn).
		AddRelationship("x", "y", RelationType("likes")).
		AddRelationship("x", "y", RelUsedIn, WithStrength(1.5)).
		Build()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDataset))

	var dup *apperrors.ErrDuplicateEntity
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.EntityID)

	var dangling *apperrors.ErrDanglingRelationship
	require.ErrorAs(t, err, &dangling)
	assert.Equal(t, "ghost", dangling.Missing)

	var badType *apperrors.ErrUnknownEntityType
	assert.ErrorAs(t, err, &badType)
	var badRel *apperrors.ErrUnknownRelationType
	assert.ErrorAs(t, err, &badRel)
	var badStrength *apperrors.ErrInvalidStrength
	assert.ErrorAs(t, err, &badStrength)
}

func TestBuildRequiresSubject(t *testing.T) {
	_, err := NewBuilder().AddEntity("x", EntitySkill, "X", nil).Build()
	assert.Error(t, err)

	_, err = NewBuilder().Subject("x").AddEntity("x", EntitySkill, "X", nil).Build()
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	store, err := Parse([]byte(`
subject: me
entities:
  - id: me
    type: person
    name: Me
    metadata:
      email: me@example.com
      aliases: [myself]
  - id: go
    type: skill
    name: Go
relationships:
  - from: me
    to: go
    type: skillOf
    strength: 0.5
    context: daily driver
`))
	require.NoError(t, err)

	rels := store.Outgoing("me")
	require.Len(t, rels, 1)
	assert.Equal(t, 0.5, rels[0].Strength)
	assert.Equal(t, "daily driver", rels[0].Context)

	me, _ := store.Entity("me")
	assert.Equal(t, []string{"myself"}, me.Aliases())
	assert.Equal(t, "me@example.com", store.Contact().Email)
	assert.Equal(t, "github.com/alphaaa-m", store.Contact().GitHub)

	_, err = Parse([]byte("entities: [oops"))
	assert.Error(t, err)
}
