package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name       string
		question   string
		intent     Intent
		confidence float64
	}{
		{"dominant technical", "Can you help me learn calculus for machine learning?", TechnicalCapability, 1},
		{"hiring", "Are you available for a full-time ML position?", HiringRecruiter, 1},
		{"projects", "Tell me about your projects", ProjectExperience, 1},
		{"no signal", "What's your favorite pizza topping?", Unknown, 0},
		{"empty", "", Unknown, 0},
		{"whitespace", "   ", Unknown, 0},
		// learning, technical and teaching all score 4; learning is declared first
		{"tie goes to first declared", "Can you teach Python?", LearningGuidance, 4.0 / 6.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.question)
			assert.Equal(t, tt.intent, got.Intent)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		})
	}
}

func TestDetectKeywords(t *testing.T) {
	d := NewDetector()

	got := d.Detect("Can you help me learn calculus for machine learning?")
	assert.Equal(t, []string{"can", "machine learning", "calculus"}, got.Keywords)

	// tech terms are reported even without a winning intent
	got = d.Detect("numpy")
	assert.Equal(t, Unknown, got.Intent)
	assert.Equal(t, []string{"numpy"}, got.Keywords)

	// repeated pattern entries are reported once
	got = d.Detect("I built it")
	assert.Equal(t, ProjectExperience, got.Intent)
	assert.Equal(t, []string{"built"}, got.Keywords)
}

func TestDetectIsCaseInsensitive(t *testing.T) {
	d := NewDetector()
	assert.Equal(t, d.Detect("are you available"), d.Detect("ARE YOU AVAILABLE"))
}

func TestSuggestedTone(t *testing.T) {
	assert.Equal(t, ToneProfessional, SuggestedTone(HiringRecruiter))
	assert.Equal(t, ToneProfessional, SuggestedTone(TechnicalCapability))
	assert.Equal(t, ToneDetailed, SuggestedTone(LearningGuidance))
	assert.Equal(t, ToneDetailed, SuggestedTone(ProjectExperience))
	assert.Equal(t, ToneDetailed, SuggestedTone(TeachingMentoring))
	assert.Equal(t, ToneProfessional, SuggestedTone(Unknown))
	assert.Equal(t, ToneProfessional, SuggestedTone(GeneralInfo))
}

func TestSuggestedLength(t *testing.T) {
	want := map[Intent]Length{
		LearningGuidance:    LengthLong,
		HiringRecruiter:     LengthMedium,
		ProjectExperience:   LengthLong,
		EducationBackground: LengthMedium,
		SkillEvaluation:     LengthMedium,
		FutureGoals:         LengthMedium,
		TechnicalCapability: LengthMedium,
		TeachingMentoring:   LengthLong,
		GeneralInfo:         LengthShort,
		Unknown:             LengthMedium,
	}
	for i, l := range want {
		assert.Equal(t, l, SuggestedLength(i), string(i))
	}
}

func TestPriorityAreas(t *testing.T) {
	assert.Equal(t, []string{"experience", "skills", "projects", "goals"}, PriorityAreas(HiringRecruiter))
	assert.Empty(t, PriorityAreas(Unknown))

	areas := PriorityAreas(GeneralInfo)
	areas[0] = "changed"
	assert.Equal(t, "contact", PriorityAreas(GeneralInfo)[0])
}

func TestAll(t *testing.T) {
	all := All()
	assert.Len(t, all, 10)
	assert.Equal(t, LearningGuidance, all[0])
	assert.Equal(t, Unknown, all[len(all)-1])
}
