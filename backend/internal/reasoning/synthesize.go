package reasoning

import (
	"fmt"
	"strings"
	"unicode"

	"portfolio-assistant/backend/internal/knowledge"
	"portfolio-assistant/backend/internal/utils"
)

const teachingAnswer = "Yes. I have professional teaching experience and strong subject mastery. " +
	"I can explain complex concepts clearly and help students build a solid foundation."

// Synthesize picks an answer template from the question's surface form and
// fills it only with names and explanations drawn from the path. Checks run
// in priority order; a branch whose entity types are absent falls through.
func Synthesize(question string, p Path) string {
	q := strings.ToLower(question)

	if utils.ContainsAny(q, "can you", "do you") {
		if skills := namesOf(p, knowledge.EntitySkill, knowledge.EntityTool); len(skills) > 0 {
			if projects := namesOf(p, knowledge.EntityProject); len(projects) > 0 {
				return fmt.Sprintf("Yes. I have expertise in %s. I've applied this in projects like %s.",
					strings.Join(skills, " and "), strings.Join(projects, ", "))
			}
			return fmt.Sprintf("Yes. I have strong experience with %s.", strings.Join(skills, " and "))
		}
	}

	if utils.ContainsAny(q, "do you know", "are you familiar") {
		if subjects := namesOf(p, knowledge.EntitySubject, knowledge.EntitySkill); len(subjects) > 0 {
			answer := fmt.Sprintf("Yes. I have in-depth knowledge of %s.", strings.Join(subjects, " and "))
			if len(p.Explanation) > 0 {
				answer += " " + sentence(strings.Join(p.Explanation, " and "))
			}
			return answer
		}
	}

	if strings.Contains(q, "experience") {
		parts := []string{"Yes."}
		if n := len(namesOf(p, knowledge.EntityExperience)); n > 0 {
			parts = append(parts, fmt.Sprintf("I have %d+ positions of relevant experience.", n))
		}
		for _, e := range firstN(p.Explanation, 2) {
			parts = append(parts, sentence(e))
		}
		if len(parts) == 1 {
			parts = append(parts, fmt.Sprintf("My experience connects to %s.", strings.Join(namesOf(p), " and ")))
		}
		return strings.Join(parts, " ")
	}

	if strings.Contains(q, "teach") {
		return teachingAnswer
	}

	if utils.ContainsAny(q, "goal", "future") {
		if goals := namesOf(p, knowledge.EntityGoal); len(goals) > 0 {
			for i, g := range goals {
				goals[i] = lowerFirst(g)
			}
			return fmt.Sprintf("My ultimate goal is to %s. I'm strategically building my skills and experience toward this vision.",
				strings.Join(goals, ", "))
		}
	}

	if utils.ContainsAny(q, "background", "journey") {
		if n := len(namesOf(p, knowledge.EntityDegree)); n > 0 {
			noun := "degrees"
			if n == 1 {
				noun = "degree"
			}
			return fmt.Sprintf("I have a strong academic foundation with %d %s spanning mathematics and data science. "+
				"My journey has shaped me to think critically and solve complex problems.", n, noun)
		}
	}

	if len(p.Explanation) > 0 {
		return fmt.Sprintf("Yes. %s. Based on my background and projects, I'm confident in this area.",
			strings.Join(p.Explanation, ". "))
	}

	return fmt.Sprintf("Based on my profile and experience, I can help with this. It connects to %s in my background.",
		strings.Join(namesOf(p), " and "))
}

// namesOf returns the names of path entities of the given types, or of all
// entities when no type is given
func namesOf(p Path, types ...knowledge.EntityType) []string {
	var out []string
	for _, e := range p.Entities {
		if len(types) == 0 {
			out = append(out, e.Name)
			continue
		}
		for _, t := range types {
			if e.Type == t {
				out = append(out, e.Name)
				break
			}
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func sentence(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	// keep acronyms such as "PhD" or "AI" intact
	if len(r) > 1 && unicode.IsUpper(r[1]) {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
