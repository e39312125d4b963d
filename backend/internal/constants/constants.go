package constants

import "time"

// Knowledge graph constants
const (
	// SubjectEntityID is the person every reasoning path is anchored on
	SubjectEntityID = "muneeb_ashraf"

	// GraphMaxDepth bounds both the connected-entity expansion and path search
	GraphMaxDepth = 3
)

// FAQ matching thresholds
const (
	// FAQMatchFloor is the score a candidate must strictly exceed to win
	FAQMatchFloor = 0.75

	// FAQCloseMatch lets near-verbatim questions bypass the other gates
	FAQCloseMatch = 0.85

	// FAQKeywordGate is the keyword fraction that alone makes a record eligible
	FAQKeywordGate = 0.34

	// FAQStrongMatch with FAQStrongOverlap shared tokens makes a record eligible
	FAQStrongMatch   = 0.90
	FAQStrongOverlap = 2

	// FAQLooseMatch with FAQLooseOverlap shared tokens makes a record eligible
	FAQLooseMatch   = 0.82
	FAQLooseOverlap = 3
)

// Answer confidence constants
const (
	// FAQConfidence is reported for every FAQ answer
	FAQConfidence = 1.0

	// GraphConfidenceCap keeps graph answers below exact FAQ matches
	GraphConfidenceCap = 0.95

	// FallbackConfidence is reported for every contact-redirect answer
	FallbackConfidence = 0.4

	// DefaultAnswerableThreshold is the IsAnswerable cut-off when none is given
	DefaultAnswerableThreshold = 0.5

	// LongAnswerThreshold is the length under which "long" intents get a reasoning coda
	LongAnswerThreshold = 200
)

// Transcript constants
const (
	// SuggestionWindow is how many recent user messages feed suggestion ranking
	SuggestionWindow = 3

	// DefaultSuggestionLimit matches the three quick-suggestion chips in the chat widget
	DefaultSuggestionLimit = 3
)

// Neo4j mirror constants
const (
	// Neo4jConnectAttempts bounds how often sync-graph dials an unreachable server
	Neo4jConnectAttempts = 3

	// Neo4jConnectRetryWait is the pause between connection attempts
	Neo4jConnectRetryWait = 2 * time.Second
)

// Discord constants
const (
	// DiscordMaxMessageLength is the maximum character limit for Discord messages
	DiscordMaxMessageLength = 2000
)

// Contact details used when the dataset's subject entity carries none
const (
	DefaultContactEmail    = "muneebashraf.edu@gmail.com"
	DefaultContactPhone    = "(+92) 3006275648"
	DefaultContactLinkedIn = "linkedin.com/in/muneeb-ashraf-ai"
	DefaultContactGitHub   = "github.com/alphaaa-m"
)
