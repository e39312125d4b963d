package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-assistant/backend/internal/faq"
)

// Sender identifies who wrote a transcript entry
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is one transcript entry. Transcripts belong to the caller;
// the answer engine never stores them.
type ChatMessage struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Sender    Sender     `json:"sender"`
	Timestamp time.Time  `json:"timestamp"`
	Links     []faq.Link `json:"links,omitempty"`
}

// NewMessage creates a transcript entry with a fresh id
func NewMessage(sender Sender, text string, links ...faq.Link) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
		Links:     links,
	}
}

// Validate checks if the ChatMessage is valid
func (m *ChatMessage) Validate() error {
	if m.ID == "" {
		return ErrInvalidMessage{Field: "id", Reason: "cannot be empty"}
	}
	if m.Sender != SenderUser && m.Sender != SenderBot {
		return ErrInvalidMessage{Field: "sender", Reason: fmt.Sprintf("unknown sender %q", m.Sender)}
	}
	return nil
}

// RecentUserMessages returns the texts of the last n user messages, most
// recent first. Blank messages are skipped.
func RecentUserMessages(messages []ChatMessage, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := len(messages) - 1; i >= 0 && len(out) < n; i-- {
		m := messages[i]
		if m.Sender != SenderUser || strings.TrimSpace(m.Text) == "" {
			continue
		}
		out = append(out, m.Text)
	}
	return out
}

// Transcript is a caller-owned message log for one conversation.
// It is not safe for concurrent use.
type Transcript struct {
	messages []ChatMessage
	limit    int
}

// NewTranscript creates a transcript that keeps at most limit messages.
// A non-positive limit keeps everything.
func NewTranscript(limit int) *Transcript {
	return &Transcript{limit: limit}
}

// Append adds a message, dropping the oldest beyond the limit
func (t *Transcript) Append(m ChatMessage) {
	t.messages = append(t.messages, m)
	if t.limit > 0 && len(t.messages) > t.limit {
		t.messages = t.messages[len(t.messages)-t.limit:]
	}
}

// Messages returns a copy of the transcript in order
func (t *Transcript) Messages() []ChatMessage {
	out := make([]ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages held
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Errors

type ErrInvalidMessage struct {
	Field  string
	Reason string
}

func (e ErrInvalidMessage) Error() string {
	return fmt.Sprintf("invalid chat message: %s - %s", e.Field, e.Reason)
}
