package discord

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/agent"
	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/faq"
	apperrors "portfolio-assistant/backend/pkg/errors"
)

const suggestionEmbedColor = 0x5865F2 // Discord blurple

// messageSender is the part of *discordgo.Session used to reply
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// buildEmbeds converts the answer's link card and the follow-up suggestions
// into Discord embeds
func buildEmbeds(resp agent.Response, suggestions []faq.Record) []*discordgo.MessageEmbed {
	var embeds []*discordgo.MessageEmbed

	if e := agent.BuildEmbed(resp); e != nil {
		embed := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:   f.Name,
				Value:  f.Value,
				Inline: f.Inline,
			})
		}
		if e.Footer != "" {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		embeds = append(embeds, embed)
	}

	if len(suggestions) > 0 {
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       "You might also ask",
			Description: FormatList(questionsOf(suggestions), false),
			Color:       suggestionEmbedColor,
		})
	}
	return embeds
}

// sendResponse sends an answer, its link card and follow-up suggestions
func (h *Handler) sendResponse(s messageSender, channelID string, resp agent.Response, suggestions []faq.Record) error {
	content := EscapeMarkdown(resp.Answer)
	embeds := buildEmbeds(resp, suggestions)

	if len(embeds) == 0 {
		return h.sendLongMessage(s, channelID, content)
	}

	if len(content) > constants.DiscordMaxMessageLength {
		// Long answers go out in chunks, then the embeds on their own
		if err := h.sendLongMessage(s, channelID, content); err != nil {
			return err
		}
		content = ""
	}

	_, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  embeds,
	})
	if err != nil {
		return apperrors.NewTransportSendFailed("discord", channelID, err)
	}
	return nil
}

// sendLongMessage splits a message into chunks if it exceeds Discord's character limit
func (h *Handler) sendLongMessage(s messageSender, channelID, content string) error {
	maxLength := constants.DiscordMaxMessageLength

	if len(content) <= maxLength {
		if _, err := s.ChannelMessageSend(channelID, content); err != nil {
			return apperrors.NewTransportSendFailed("discord", channelID, err)
		}
		return nil
	}

	// Part indicator format: "*(Part X/Y)*" is about 15 chars, so reserve 20 for safety
	const partIndicatorReserve = 20
	chunks := splitMessage(content, maxLength-partIndicatorReserve)

	for i, chunk := range chunks {
		message := chunk + "\n" + FormatItalic(fmt.Sprintf("(Part %d/%d)", i+1, len(chunks)))

		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			h.logger.Error("Failed to send message chunk",
				zap.Error(err),
				zap.String("channel_id", channelID),
				zap.Int("chunk", i+1),
				zap.Int("total_chunks", len(chunks)),
			)
			return apperrors.NewTransportSendFailed("discord", channelID, err)
		}

		// Small delay between chunks to avoid rate limiting
		if i < len(chunks)-1 {
			time.Sleep(100 * time.Millisecond)
		}
	}
	return nil
}

// splitMessage splits content into chunks of at most maxLength bytes,
// preferring line breaks, then spaces. Words longer than maxLength are cut
// on a rune boundary.
func splitMessage(content string, maxLength int) []string {
	if len(content) <= maxLength {
		return []string{content}
	}

	var chunks []string
	rest := content
	for len(rest) > maxLength {
		window := rest[:maxLength]
		cut := maxLength
		if c := rest[maxLength]; c != ' ' && c != '\n' {
			cut = strings.LastIndex(window, "\n")
			if cut < maxLength/2 {
				cut = strings.LastIndex(window, " ")
			}
		}
		if cut <= 0 {
			cut = maxLength
			for cut > 0 && !utf8.RuneStart(rest[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLength
			}
		}

		if chunk := strings.TrimRight(rest[:cut], " \n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		rest = strings.TrimLeft(rest[cut:], " \n")
	}
	if rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}
