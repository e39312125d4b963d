package agent

import (
	"fmt"
	"regexp"
	"strings"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/intent"
	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/reasoning"
)

var leadingYes = regexp.MustCompile(`(?i)^(yes\.? )`)

// shapeAnswer adjusts a synthesized graph answer to the detected intent's
// tone and length
func shapeAnswer(base string, in intent.Intent, best reasoning.Path) string {
	answer := base

	if intent.SuggestedTone(in) == intent.ToneProfessional && !strings.Contains(base, "professional") {
		answer = leadingYes.ReplaceAllString(base, "Yes, absolutely. ")
	}

	switch in {
	case intent.HiringRecruiter:
		if !strings.Contains(answer, "currently") {
			answer += " I'm actively contributing to production systems and open to exciting opportunities."
		}
	case intent.LearningGuidance:
		if !strings.Contains(answer, "help") && !strings.Contains(answer, "guide") {
			answer += " I'd be happy to guide you step-by-step."
		}
	case intent.ProjectExperience:
		if !strings.Contains(answer, "built") && !strings.Contains(answer, "developed") {
			answer = "I've built several projects in this area. " + answer
		}
	}

	if intent.SuggestedLength(in) == intent.LengthLong &&
		len(best.Explanation) > 0 &&
		len(answer) < constants.LongAnswerThreshold {
		n := min(2, len(best.Explanation))
		answer += fmt.Sprintf(" My reasoning: %s.", strings.Join(best.Explanation[:n], ", and "))
	}

	return answer
}

// contactLine lists every contact channel in one sentence pair
func contactLine(c knowledge.Contact) string {
	return fmt.Sprintf("For more details, please reach out to me directly at %s or %s (WhatsApp). "+
		"You can also connect on LinkedIn (%s) or GitHub (%s).", c.Email, c.Phone, c.LinkedIn, c.GitHub)
}

// fallbackAnswer picks the contact-redirect template for an intent
func fallbackAnswer(in intent.Intent, c knowledge.Contact) string {
	contact := contactLine(c)

	switch in {
	case intent.HiringRecruiter:
		return "I appreciate your interest! While I may not have covered all details here, I'm excited to discuss opportunities. " + contact
	case intent.LearningGuidance:
		return "That's a great question! I'd love to help you with this. " + contact + " I can provide personalized guidance based on your specific needs."
	case intent.ProjectExperience:
		return "That's an interesting topic! I may have experience with this. " + contact + " Let's discuss the specifics."
	case intent.TechnicalCapability:
		return "I might have expertise in this area. Let me connect with you directly to explore what you're looking for. " + contact
	case intent.TeachingMentoring:
		return "I'd be happy to help you learn and grow! " + contact + " We can tailor a learning path based on your goals."
	case intent.EducationBackground, intent.SkillEvaluation, intent.FutureGoals:
		return "That's a detailed question! I have more information to share. " + contact
	default:
		return "That's an interesting question! For a more comprehensive answer, " + contact + " I'm happy to discuss this further."
	}
}

func (o *Orchestrator) fallback(in intent.Intent) Response {
	return Response{
		Answer:     fallbackAnswer(in, o.contact),
		Source:     SourceFallback,
		Confidence: constants.FallbackConfidence,
		Reasoning:  &Reasoning{Intent: in},
	}
}

// Embed is a chat-surface card listing an answer's links
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      string       `json:"footer,omitempty"`
}

// EmbedField represents a field in an embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

const (
	embedColorFAQ      = 0x2ECC71
	embedColorGraph    = 0x3498DB
	embedColorFallback = 0x95A5A6
)

// BuildEmbed returns a links card for responses that carry links, or nil
func BuildEmbed(resp Response) *Embed {
	if len(resp.Links) == 0 {
		return nil
	}

	color := embedColorFallback
	switch resp.Source {
	case SourceFAQ:
		color = embedColorFAQ
	case SourceGraph:
		color = embedColorGraph
	}

	e := &Embed{
		Title:  "Links",
		URL:    resp.Links[0].URL,
		Color:  color,
		Footer: fmt.Sprintf("source: %s · confidence %.2f", resp.Source, resp.Confidence),
	}
	for _, l := range resp.Links {
		e.Fields = append(e.Fields, EmbedField{Name: l.Text, Value: l.URL, Inline: true})
	}
	return e
}
