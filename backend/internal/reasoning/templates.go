package reasoning

import (
	"fmt"

	"portfolio-assistant/backend/internal/knowledge"
)

var relationTemplates = map[knowledge.RelationType]string{
	knowledge.RelHasDegree:      "%s has degree in %s",
	knowledge.RelStudied:        "%s studied %s",
	knowledge.RelTeaches:        "%s teaches %s",
	knowledge.RelUsedIn:         "%s is used in %s",
	knowledge.RelUsedWith:       "%s is used with %s",
	knowledge.RelBuilt:          "%s built %s",
	knowledge.RelWorkedAs:       "%s worked as %s",
	knowledge.RelLearnedThrough: "%s learned through %s",
	knowledge.RelGoalIs:         "%s's goal is %s",
	knowledge.RelFoundedAt:      "%s is at %s",
	knowledge.RelSkillOf:        "%s is a skill of %s",
	knowledge.RelAppliedIn:      "%s is applied in %s",
	knowledge.RelRequiredFor:    "%s is required for %s",
	knowledge.RelBasedOn:        "%s is based on %s",
	knowledge.RelConnectedTo:    "%s is connected to %s",
}

// RelationText renders one hop as a sentence fragment reading from -> to
func RelationText(t knowledge.RelationType, fromName, toName string) string {
	if tmpl, ok := relationTemplates[t]; ok {
		return fmt.Sprintf(tmpl, fromName, toName)
	}
	return fmt.Sprintf("%s and %s are related", fromName, toName)
}
