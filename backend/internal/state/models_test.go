package state

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-assistant/backend/internal/faq"
)

func TestNewMessage(t *testing.T) {
	link := faq.Link{Text: "GitHub", URL: "https://github.com/alphaaa-m"}
	m := NewMessage(SenderBot, "hello", link)

	_, err := uuid.Parse(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Text)
	assert.Equal(t, SenderBot, m.Sender)
	assert.False(t, m.Timestamp.IsZero())
	assert.Equal(t, []faq.Link{link}, m.Links)
	assert.NoError(t, m.Validate())

	assert.NotEqual(t, m.ID, NewMessage(SenderBot, "hello").ID)
}

func TestValidate(t *testing.T) {
	m := ChatMessage{Sender: SenderUser}
	err := m.Validate()
	require.Error(t, err)
	assert.Equal(t, "id", err.(ErrInvalidMessage).Field)

	m = ChatMessage{ID: "1", Sender: "robot"}
	err = m.Validate()
	require.Error(t, err)
	assert.Equal(t, "sender", err.(ErrInvalidMessage).Field)
}

func TestRecentUserMessages(t *testing.T) {
	msgs := []ChatMessage{
		NewMessage(SenderUser, "first"),
		NewMessage(SenderBot, "reply"),
		NewMessage(SenderUser, "second"),
		NewMessage(SenderUser, "   "),
		NewMessage(SenderUser, "third"),
		NewMessage(SenderBot, "reply"),
		NewMessage(SenderUser, "fourth"),
	}

	assert.Equal(t, []string{"fourth", "third", "second"}, RecentUserMessages(msgs, 3))
	assert.Equal(t, []string{"fourth", "third", "second", "first"}, RecentUserMessages(msgs, 10))
	assert.Empty(t, RecentUserMessages(msgs, 0))
	assert.Empty(t, RecentUserMessages(nil, 3))
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript(2)
	tr.Append(NewMessage(SenderUser, "a"))
	tr.Append(NewMessage(SenderBot, "b"))
	tr.Append(NewMessage(SenderUser, "c"))

	require.Equal(t, 2, tr.Len())
	msgs := tr.Messages()
	assert.Equal(t, "b", msgs[0].Text)
	assert.Equal(t, "c", msgs[1].Text)

	msgs[0].Text = "changed"
	assert.Equal(t, "b", tr.Messages()[0].Text)

	unbounded := NewTranscript(0)
	for i := 0; i < 50; i++ {
		unbounded.Append(NewMessage(SenderUser, "x"))
	}
	assert.Equal(t, 50, unbounded.Len())
}
