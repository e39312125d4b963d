package intent

import (
	"strings"
)

// Intent is a coarse category of conversational purpose
type Intent string

const (
	LearningGuidance    Intent = "learning_guidance"
	HiringRecruiter     Intent = "hiring_recruiter"
	ProjectExperience   Intent = "project_experience"
	EducationBackground Intent = "education_background"
	SkillEvaluation     Intent = "skill_evaluation"
	FutureGoals         Intent = "future_goals"
	TechnicalCapability Intent = "technical_capability"
	TeachingMentoring   Intent = "teaching_mentoring"
	GeneralInfo         Intent = "general_info"
	Unknown             Intent = "unknown"
)

// Tone shapes the phrasing of a graph answer
type Tone string

const (
	ToneBrief        Tone = "brief"
	ToneDetailed     Tone = "detailed"
	ToneProfessional Tone = "professional"
)

// Length shapes how much reasoning is appended to a graph answer
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

const (
	phraseWeight  = 3
	keywordWeight = 1
)

type pattern struct {
	intent   Intent
	keywords []string
	phrases  []string
}

// patterns is ordered: on equal scores the earlier intent wins. Repeated
// entries are deliberate and score once per entry.
var patterns = []pattern{
	{
		intent:   LearningGuidance,
		keywords: []string{"learn", "teach", "tutor", "guide", "mentor", "help", "explain", "understand", "practice"},
		phrases:  []string{"can you teach", "help me learn", "how do i", "explain", "guide me"},
	},
	{
		intent:   HiringRecruiter,
		keywords: []string{"hire", "job", "role", "position", "team", "company", "work", "opportunity", "available"},
		phrases:  []string{"are you available", "looking for", "hiring", "join", "open to"},
	},
	{
		intent:   ProjectExperience,
		keywords: []string{"project", "built", "built", "developed", "created", "experience", "worked", "done"},
		phrases:  []string{"tell me about", "your projects", "have you built", "what projects"},
	},
	{
		intent:   EducationBackground,
		keywords: []string{"degree", "education", "university", "studied", "background", "degree", "gpa", "school"},
		phrases:  []string{"educational background", "your education", "where did you", "degree", "university"},
	},
	{
		intent:   SkillEvaluation,
		keywords: []string{"skill", "python", "ml", "database", "api", "know", "experience with", "proficient"},
		phrases:  []string{"do you know", "experience with", "skilled in", "proficient", "familiar with"},
	},
	{
		intent:   FutureGoals,
		keywords: []string{"goal", "future", "plan", "want", "aspire", "dream", "pursue", "career"},
		phrases:  []string{"what's your goal", "career goal", "future plan", "where do you see"},
	},
	{
		intent:   TechnicalCapability,
		keywords: []string{"can", "build", "create", "develop", "help with", "implement", "code", "system"},
		phrases:  []string{"can you", "can you help", "can you build", "can you create"},
	},
	{
		intent:   TeachingMentoring,
		keywords: []string{"teach", "mentor", "guide", "coaching", "training", "tutorial", "explain"},
		phrases:  []string{"can you teach", "can you mentor", "teach me", "coaching"},
	},
	{
		intent:   GeneralInfo,
		keywords: []string{"who", "about", "contact", "email", "phone", "linkedin", "github", "location"},
		phrases:  []string{"who are you", "tell me about", "contact", "how to reach"},
	},
}

// techTerms are always reported as detected keywords when present
var techTerms = []string{
	"python", "ml", "machine learning", "deep learning", "fastapi", "pipecat",
	"database", "sql", "tensorflow", "keras", "numpy", "pandas", "math",
	"calculus", "linear algebra", "teaching", "mentoring",
}

// Result is the classifier's verdict for one question
type Result struct {
	Intent     Intent   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Keywords   []string `json:"keywords"`
}

// Detector classifies questions by phrase and keyword containment. It holds
// no state and is safe for concurrent use.
type Detector struct{}

// NewDetector creates a new intent detector
func NewDetector() *Detector {
	return &Detector{}
}

// Detect scores every intent against the lower-cased question. Phrases weigh
// 3, keywords 1. The strictly highest score wins, earlier intents win ties, and
// confidence is min(1, best/(total/2)). With no signal the result is Unknown
// with confidence 0.
func (d *Detector) Detect(question string) Result {
	q := strings.ToLower(question)

	best, bestScore, total := Unknown, 0, 0
	for _, p := range patterns {
		score := 0
		for _, phrase := range p.phrases {
			if strings.Contains(q, phrase) {
				score += phraseWeight
			}
		}
		for _, kw := range p.keywords {
			if strings.Contains(q, kw) {
				score += keywordWeight
			}
		}
		total += score
		if score > bestScore {
			best, bestScore = p.intent, score
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = min(1, float64(bestScore)/(float64(total)/2))
	}

	return Result{
		Intent:     best,
		Confidence: confidence,
		Keywords:   detectedKeywords(q, best),
	}
}

func detectedKeywords(q string, winner Intent) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(k string) {
		if !seen[k] && strings.Contains(q, k) {
			seen[k] = true
			out = append(out, k)
		}
	}

	if winner != Unknown && winner != GeneralInfo {
		for _, p := range patterns {
			if p.intent == winner {
				for _, kw := range p.keywords {
					add(kw)
				}
			}
		}
	}
	for _, term := range techTerms {
		add(term)
	}
	return out
}

// SuggestedTone maps an intent to the tone used when shaping graph answers
func SuggestedTone(i Intent) Tone {
	switch i {
	case HiringRecruiter, TechnicalCapability:
		return ToneProfessional
	case LearningGuidance, ProjectExperience, TeachingMentoring:
		return ToneDetailed
	default:
		return ToneProfessional
	}
}

// SuggestedLength maps an intent to the desired answer length
func SuggestedLength(i Intent) Length {
	switch i {
	case LearningGuidance, ProjectExperience, TeachingMentoring:
		return LengthLong
	case GeneralInfo:
		return LengthShort
	default:
		return LengthMedium
	}
}

var priorityAreas = map[Intent][]string{
	LearningGuidance:    {"teaching", "skills", "experience"},
	HiringRecruiter:     {"experience", "skills", "projects", "goals"},
	ProjectExperience:   {"projects", "skills", "experience"},
	EducationBackground: {"degrees", "subjects", "cgpa"},
	SkillEvaluation:     {"skills", "tools", "projects"},
	FutureGoals:         {"goals", "education", "experience"},
	TechnicalCapability: {"skills", "projects", "tools"},
	TeachingMentoring:   {"teaching", "skills", "experience"},
	GeneralInfo:         {"contact", "location", "basic info"},
}

// PriorityAreas lists the profile areas most relevant to an intent
func PriorityAreas(i Intent) []string {
	return append([]string(nil), priorityAreas[i]...)
}

// All returns every intent in declaration order, Unknown last
func All() []Intent {
	out := make([]Intent, 0, len(patterns)+1)
	for _, p := range patterns {
		out = append(out, p.intent)
	}
	return append(out, Unknown)
}
