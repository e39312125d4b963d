package discord

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/faq"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/internal/state"
)

const (
	channelTranscriptLimit = 20
	channelIdleTTL         = 30 * time.Minute
	channelSweepInterval   = 5 * time.Minute
)

type channelHistory struct {
	transcript *state.Transcript
	lastSeen   time.Time
}

// Handler handles Discord message processing
type Handler struct {
	assistant       *services.Assistant
	suggestionLimit int
	mu              sync.Mutex
	transcripts     map[string]*channelHistory // keyed by channel
	lastSweep       time.Time
	now             func() time.Time
	logger          *zap.Logger
}

// NewHandler creates a new Discord message handler
func NewHandler(assistant *services.Assistant, suggestionLimit int, logger *zap.Logger) *Handler {
	if suggestionLimit <= 0 {
		suggestionLimit = constants.DefaultSuggestionLimit
	}
	return &Handler{
		assistant:       assistant,
		suggestionLimit: suggestionLimit,
		transcripts:     make(map[string]*channelHistory),
		lastSweep:       time.Now(),
		now:             time.Now,
		logger:          logger,
	}
}

// HandleMessage processes a Discord message
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if s.State == nil || s.State.User == nil {
		return
	}

	question, ok := extractQuestion(s.State.User.ID, m)
	if !ok {
		return
	}

	h.logger.Info("Processing Discord message",
		zap.String("user_id", m.Author.ID),
		zap.String("channel_id", m.ChannelID),
		zap.Bool("is_dm", m.GuildID == ""),
	)

	if err := h.respond(context.Background(), s, m.ChannelID, question); err != nil {
		h.logger.Error("Failed to reply on Discord",
			zap.Error(err),
			zap.String("channel_id", m.ChannelID),
		)
	}
}

// extractQuestion decides whether the bot should answer m and returns the
// question with any bot mention removed. The bot answers DMs and messages
// that mention it, and never its own messages.
func extractQuestion(botID string, m *discordgo.MessageCreate) (string, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return "", false
	}
	if m.Author.ID == botID || m.Author.Bot {
		return "", false
	}

	isDM := m.GuildID == ""
	isMentioned := false
	for _, mention := range m.Mentions {
		if mention != nil && mention.ID == botID {
			isMentioned = true
			break
		}
	}

	content := m.Content
	for _, tag := range []string{"<@" + botID + ">", "<@!" + botID + ">"} {
		if strings.Contains(content, tag) {
			isMentioned = true
			content = strings.ReplaceAll(content, tag, " ")
		}
	}

	// Only respond to DMs or mentions
	if !isDM && !isMentioned {
		return "", false
	}
	return strings.Join(strings.Fields(content), " "), true
}

// record appends messages to the channel's transcript and returns a copy of
// it. Channels idle for longer than channelIdleTTL are dropped.
func (h *Handler) record(channelID string, msgs ...state.ChatMessage) []state.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if now.Sub(h.lastSweep) > channelSweepInterval {
		for id, c := range h.transcripts {
			if now.Sub(c.lastSeen) > channelIdleTTL {
				delete(h.transcripts, id)
			}
		}
		h.lastSweep = now
	}

	c, ok := h.transcripts[channelID]
	if !ok {
		c = &channelHistory{transcript: state.NewTranscript(channelTranscriptLimit)}
		h.transcripts[channelID] = c
	}
	c.lastSeen = now
	for _, m := range msgs {
		c.transcript.Append(m)
	}
	return c.transcript.Messages()
}

func (h *Handler) channels() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.transcripts)
}

// respond answers one question in a channel. A bare mention gets a list of
// starter questions instead of an answer.
func (h *Handler) respond(ctx context.Context, sender messageSender, channelID, question string) error {
	if question == "" {
		return h.sendIntro(sender, channelID)
	}

	resp := h.assistant.Ask(ctx, services.SurfaceDiscord, question)

	history := h.record(channelID,
		state.NewMessage(state.SenderUser, question),
		state.NewMessage(state.SenderBot, resp.Answer, resp.Links...),
	)

	suggestions := h.assistant.Suggest(history, h.suggestionLimit)

	h.logger.Debug("Answered Discord question",
		zap.String("channel_id", channelID),
		zap.String("source", string(resp.Source)),
		zap.Float64("confidence", resp.Confidence),
	)
	return h.sendResponse(sender, channelID, resp, suggestions)
}

func (h *Handler) sendIntro(sender messageSender, channelID string) error {
	starters := h.assistant.Suggest(h.record(channelID), h.suggestionLimit)
	content := FormatBold("Ask me anything about my work, projects or background.") +
		"\n" + FormatList(questionsOf(starters), false)
	return h.sendLongMessage(sender, channelID, content)
}

func questionsOf(records []faq.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Question)
	}
	return out
}
