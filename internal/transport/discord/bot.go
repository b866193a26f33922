package discordtransport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

// Bot owns the gateway session. Command registration happens on ready via
// a single bulk overwrite so removed commands disappear on deploy.
type Bot struct {
	session *discordgo.Session
	guildID string
	logger  *slog.Logger
	ready   atomic.Bool
}

// NewBot creates the gateway session. The session is not opened until Run,
// so downstream consumers (the notification dispatcher needs it as a
// Messenger) can be wired before any interaction handler is registered.
func NewBot(token, guildID string, logger *slog.Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discordtransport: bot token is required")
	}
	if guildID == "" {
		return nil, errors.New("discordtransport: guild id is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		session: session,
		guildID: guildID,
		logger:  logger,
	}
	session.AddHandler(b.onReady)
	return b, nil
}

// Session exposes the underlying session for components that send
// messages outside interaction responses.
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

// RegisterInteractionHandler routes InteractionCreate events to the handler.
func (b *Bot) RegisterInteractionHandler(handler *Handler) {
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handler.HandleInteraction(s, i)
	})
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord session ready",
		"user", r.User.Username,
		"guild_id", b.guildID,
	)
	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, b.guildID, Commands()); err != nil {
		b.logger.Error("command registration failed", "error", err)
		return
	}
	b.logger.Info("slash commands registered", "count", len(Commands()))
	b.ready.Store(true)
}

// Run opens the session and blocks until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	b.logger.Info("discord gateway connected")

	<-ctx.Done()
	b.ready.Store(false)
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	b.logger.Info("discord gateway closed")
	return nil
}

// HealthCheck reports readiness for the /health/ready probe. The bot is
// ready once the gateway handshake completed and commands registered.
func (b *Bot) HealthCheck() error {
	if !b.ready.Load() {
		return errors.New("discord session not ready")
	}
	return nil
}
