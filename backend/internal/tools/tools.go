package tools

// Tool names
const (
	ToolAskPortfolio = "ask_portfolio"
	ToolListFAQs     = "list_faqs"
	ToolFindEntities = "find_entities"
	ToolExplainPath  = "explain_path"
)

// AskPortfolioInput is the argument of ask_portfolio
type AskPortfolioInput struct {
	Question string `json:"question" jsonschema:"The question to answer about the portfolio owner"`
	Debug    bool   `json:"debug,omitempty" jsonschema:"Include the detected intent and normalized question"`
}

// ListFAQsInput is the argument of list_faqs
type ListFAQsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of FAQ records to return; 0 returns all"`
}

// FindEntitiesInput is the argument of find_entities
type FindEntitiesInput struct {
	Query string `json:"query,omitempty" jsonschema:"Free text matched against entity names, descriptions and aliases"`
	Type  string `json:"type,omitempty" jsonschema:"Restrict to one entity type such as skill, project or degree"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of entities to return; 0 returns all"`
}

// ExplainPathInput is the argument of explain_path
type ExplainPathInput struct {
	From     string `json:"from" jsonschema:"Start entity id"`
	To       string `json:"to" jsonschema:"End entity id"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"Maximum number of hops (1-3, default 3)"`
}
