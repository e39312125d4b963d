package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Intents the bot needs to read guild messages and DMs
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

// NewSession creates a bot session with h registered as the message handler
func NewSession(token string, h *Handler) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		h.HandleMessage(s, m)
	})
	dg.Identify.Intents = Intents
	return dg, nil
}

// Run opens the session and keeps it open until ctx is cancelled
func Run(ctx context.Context, dg *discordgo.Session, logger *zap.Logger) error {
	logger.Info("Discord bot intents configured",
		zap.Bool("guilds", (dg.Identify.Intents&discordgo.IntentsGuilds) != 0),
		zap.Bool("guild_messages", (dg.Identify.Intents&discordgo.IntentsGuildMessages) != 0),
		zap.Bool("direct_messages", (dg.Identify.Intents&discordgo.IntentsDirectMessages) != 0),
	)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	logger.Info("Discord bot is running. Press CTRL-C to exit.")

	<-ctx.Done()

	logger.Info("Shutting down Discord bot...")
	return dg.Close()
}
