// Package notify delivers human-readable status messages for lifecycle
// transitions: a direct message to the applicant and an embed to the
// public status or staff log channel. Delivery is strictly downstream of
// the lifecycle service; failures are logged and counted, never
// propagated.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"consulate/internal/citizenship"
	"consulate/internal/platform/config"
	"consulate/internal/platform/metrics"
)

// Messenger is the slice of the Discord session the dispatcher needs.
// *discordgo.Session satisfies it.
type Messenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordDispatcher implements citizenship.Notifier over a Discord
// session.
type DiscordDispatcher struct {
	session  Messenger
	channels config.Channels
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// Option configures the dispatcher.
type Option func(*DiscordDispatcher)

// WithLogger sets the logger used for delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(d *DiscordDispatcher) { d.logger = l }
}

// WithMetrics sets the failure counter collection.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *DiscordDispatcher) { d.metrics = m }
}

// NewDiscord creates a dispatcher posting through the given session.
func NewDiscord(session Messenger, channels config.Channels, opts ...Option) *DiscordDispatcher {
	if session == nil {
		panic("notify.NewDiscord: session is required")
	}
	d := &DiscordDispatcher{
		session:  session,
		channels: channels,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify delivers the event. Every send is independent: a failed DM does
// not skip the channel post and vice versa. Nothing is retried.
func (d *DiscordDispatcher) Notify(ctx context.Context, kind citizenship.EventKind, app *citizenship.Application, actor citizenship.Actor) {
	d.sendDM(ctx, kind, app)

	switch kind {
	case citizenship.KindSubmitted:
		d.sendChannel(ctx, "log_channel", d.channels.CitizenshipLog, submissionEmbed(app, d.now()))
	case citizenship.KindApproved, citizenship.KindRejected:
		d.sendChannel(ctx, "status_channel", d.channels.CitizenshipStatus, resolutionEmbed(kind, app, actor, d.now()))
	}
}

func (d *DiscordDispatcher) sendDM(ctx context.Context, kind citizenship.EventKind, app *citizenship.Application) {
	tmpl, ok := TemplateFor(kind)
	if !ok {
		return
	}

	channel, err := d.session.UserChannelCreate(app.ApplicantID)
	if err != nil {
		d.deliveryFailed(ctx, "dm", app.ApplicantID, err)
		return
	}
	if _, err := d.session.ChannelMessageSendEmbed(channel.ID, dmEmbed(tmpl, app, d.now())); err != nil {
		d.deliveryFailed(ctx, "dm", app.ApplicantID, err)
	}
}

func (d *DiscordDispatcher) sendChannel(ctx context.Context, sink, channelID string, embed *discordgo.MessageEmbed) {
	if channelID == "" {
		// Channel not configured; skipping is not a failure.
		return
	}
	if _, err := d.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		d.deliveryFailed(ctx, sink, channelID, err)
	}
}

func (d *DiscordDispatcher) deliveryFailed(ctx context.Context, sink, target string, err error) {
	if d.logger != nil {
		d.logger.WarnContext(ctx, "notification delivery failed",
			"sink", sink,
			"target", target,
			"error", err,
		)
	}
	if d.metrics != nil {
		d.metrics.NotificationFailures.WithLabelValues(sink).Inc()
	}
}
