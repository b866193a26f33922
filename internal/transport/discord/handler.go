// Package discordtransport is the bot's interaction layer: slash commands,
// portal buttons, and the application modal. Handlers translate Discord
// payloads into lifecycle service calls and map domain errors back to
// ephemeral responses; no business rules live here.
package discordtransport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"consulate/internal/audit"
	"consulate/internal/citizenship"
	"consulate/internal/citizenship/tracker"
	"consulate/internal/notify"
	"consulate/internal/platform/config"
	"consulate/internal/platform/metrics"
	dErrors "consulate/pkg/domain-errors"
)

// Session is the slice of discordgo.Session the handlers need. Narrow so
// tests can fake it.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ApplicationService is the lifecycle surface the handlers drive.
type ApplicationService interface {
	Submit(ctx context.Context, applicantID, displayName string, form citizenship.Form) (*citizenship.Application, error)
	Approve(ctx context.Context, actor citizenship.Actor, applicantID string) (*citizenship.Application, error)
	Reject(ctx context.Context, actor citizenship.Actor, applicantID, reason string) (*citizenship.Application, error)
	Status(ctx context.Context, applicantID, displayName string) (*citizenship.Application, bool)
}

// PendingLookup answers duplicate checks without counting as a status
// check in the analytics history.
type PendingLookup interface {
	Get(ctx context.Context, applicantID string) (*citizenship.Application, bool)
}

// AdminGate guards commands restricted to admins rather than the wider
// citizenship-manager set.
type AdminGate interface {
	HasAdmin(roleIDs []string) bool
}

// Banner executes place bans against the Roblox API.
type Banner interface {
	BanFromPlace(ctx context.Context, robloxUsername, placeID, reason string) error
}

// AuditPublisher records moderation actions the lifecycle service never
// sees, such as place bans.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// StatsReader summarizes application history for the statistics command
// and records portal activity the lifecycle service never sees.
type StatsReader interface {
	Statistics() tracker.Statistics
	RecordSupportContact(userID, displayName string)
}

// Handler routes interactions to the domain services.
type Handler struct {
	service  ApplicationService
	pending  PendingLookup
	gate     AdminGate
	roblox   Banner
	auditor  AuditPublisher
	channels config.Channels

	stats   StatsReader
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures optional handler dependencies.
type Option func(*Handler)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// WithMetrics enables interaction latency and ban counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithStatistics enables the /admin_statistics command.
func WithStatistics(sr StatsReader) Option {
	return func(h *Handler) { h.stats = sr }
}

// WithClock overrides time for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// NewHandler wires the interaction router. All positional dependencies are
// required; missing ones are a programming error.
func NewHandler(service ApplicationService, pending PendingLookup, gate AdminGate, roblox Banner, auditor AuditPublisher, channels config.Channels, opts ...Option) *Handler {
	if service == nil {
		panic("discordtransport: nil service")
	}
	if pending == nil {
		panic("discordtransport: nil pending lookup")
	}
	if gate == nil {
		panic("discordtransport: nil gate")
	}
	if roblox == nil {
		panic("discordtransport: nil roblox client")
	}
	if auditor == nil {
		panic("discordtransport: nil auditor")
	}
	h := &Handler{
		service:  service,
		pending:  pending,
		gate:     gate,
		roblox:   roblox,
		auditor:  auditor,
		channels: channels,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleInteraction is the single entry point registered on the session.
// Guild-less interactions (DMs) are ignored; every command here is
// guild-scoped.
func (h *Handler) HandleInteraction(s Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	start := h.now()

	var name string
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		name = data.Name
		switch data.Name {
		case CommandCitizenship:
			h.handlePortal(ctx, s, i)
		case CommandAccept:
			h.handleAccept(ctx, s, i, data)
		case CommandDecline:
			h.handleDecline(ctx, s, i, data)
		case CommandBan:
			h.handleBan(ctx, s, i, data)
		case CommandAdminStats:
			h.handleAdminStats(ctx, s, i)
		default:
			h.logger.WarnContext(ctx, "unknown command", "name", data.Name)
		}
	case discordgo.InteractionMessageComponent:
		name = i.MessageComponentData().CustomID
		switch name {
		case componentApply:
			h.handleApplyButton(ctx, s, i)
		case componentStatus:
			h.handleStatusButton(ctx, s, i)
		case componentInfo:
			h.respondEmbed(ctx, s, i, infoEmbed())
		case componentSupport:
			h.handleSupportButton(ctx, s, i)
		default:
			h.logger.WarnContext(ctx, "unknown component", "custom_id", name)
		}
	case discordgo.InteractionModalSubmit:
		name = i.ModalSubmitData().CustomID
		if name == modalApplication {
			h.handleModalSubmit(ctx, s, i)
		} else {
			h.logger.WarnContext(ctx, "unknown modal", "custom_id", name)
		}
	default:
		return
	}

	if h.metrics != nil && name != "" {
		h.metrics.ObserveInteraction(name, h.now().Sub(start))
	}
}

// handlePortal answers /citizenship with the services dashboard.
func (h *Handler) handlePortal(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{portalEmbed()},
			Components: portalComponents(),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "portal response failed", "error", err)
	}
}

// handleApplyButton opens the application modal unless the caller already
// has a pending application. The lifecycle service re-checks at submit;
// this check only saves the user from filling a doomed form.
func (h *Handler) handleApplyButton(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	actor := actorFrom(i)
	if _, exists := h.pending.Get(ctx, actor.ID); exists {
		h.respondText(ctx, s, i, "You already have a pending citizenship application. Please wait for it to be reviewed.")
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: applicationModal(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "modal open failed", "error", err)
	}
}

// handleStatusButton shows the caller's pending application, if any.
func (h *Handler) handleStatusButton(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	actor := actorFrom(i)
	app, ok := h.service.Status(ctx, actor.ID, actor.DisplayName)
	if !ok {
		h.respondEmbed(ctx, s, i, noApplicationEmbed())
		return
	}
	h.respondEmbed(ctx, s, i, statusEmbed(app))
}

// handleSupportButton shows the support embed and counts the contact in
// the user's activity record.
func (h *Handler) handleSupportButton(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	if h.stats != nil {
		actor := actorFrom(i)
		h.stats.RecordSupportContact(actor.ID, actor.DisplayName)
	}
	h.respondEmbed(ctx, s, i, supportEmbed())
}

// handleModalSubmit runs the real submission through the lifecycle service.
func (h *Handler) handleModalSubmit(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	actor := actorFrom(i)
	form := parseModalForm(i.ModalSubmitData())

	_, err := h.service.Submit(ctx, actor.ID, actor.DisplayName, form)
	switch {
	case dErrors.HasCode(err, dErrors.CodeDuplicatePending):
		h.respondText(ctx, s, i, "You already have a pending citizenship application. Please wait for it to be reviewed.")
	case dErrors.HasCode(err, dErrors.CodeBadRequest):
		h.respondText(ctx, s, i, "Your application could not be accepted: "+domainMessage(err, "invalid form input"))
	case err != nil:
		h.logger.ErrorContext(ctx, "submit failed", "error", err, "applicant_id", actor.ID)
		h.respondText(ctx, s, i, "An error occurred while processing your application. Please try again later.")
	default:
		h.respondText(ctx, s, i, "Your citizenship application has been submitted. You will receive a DM once it has been reviewed.")
	}
}

// handleAccept approves the targeted user's pending application.
func (h *Handler) handleAccept(ctx context.Context, s Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	actor := actorFrom(i)
	opts := commandOptions(data)
	userOpt, ok := opts["user"]
	if !ok {
		h.respondText(ctx, s, i, "A user is required.")
		return
	}
	target := userOpt.UserValue(nil)

	app, err := h.service.Approve(ctx, actor, target.ID)
	switch {
	case dErrors.HasCode(err, dErrors.CodeNotAuthorized):
		h.respondText(ctx, s, i, "You don't have permission to manage citizenship applications.")
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		h.respondText(ctx, s, i, fmt.Sprintf("No pending citizenship application found for <@%s>.", target.ID))
	case err != nil:
		h.logger.ErrorContext(ctx, "approve failed", "error", err, "applicant_id", target.ID)
		h.respondText(ctx, s, i, "An error occurred while approving the application.")
	default:
		h.respondText(ctx, s, i, fmt.Sprintf("Citizenship application for <@%s> (Roblox: %s) has been approved.", app.ApplicantID, app.RobloxUsername))
	}
}

// handleDecline rejects the targeted user's pending application. An empty
// reason falls back to the service default.
func (h *Handler) handleDecline(ctx context.Context, s Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	actor := actorFrom(i)
	opts := commandOptions(data)
	userOpt, ok := opts["user"]
	if !ok {
		h.respondText(ctx, s, i, "A user is required.")
		return
	}
	target := userOpt.UserValue(nil)
	reason := optionString(opts, "reason", "")

	app, err := h.service.Reject(ctx, actor, target.ID, reason)
	switch {
	case dErrors.HasCode(err, dErrors.CodeNotAuthorized):
		h.respondText(ctx, s, i, "You don't have permission to manage citizenship applications.")
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		h.respondText(ctx, s, i, fmt.Sprintf("No pending citizenship application found for <@%s>.", target.ID))
	case err != nil:
		h.logger.ErrorContext(ctx, "reject failed", "error", err, "applicant_id", target.ID)
		h.respondText(ctx, s, i, "An error occurred while declining the application.")
	default:
		h.respondText(ctx, s, i, fmt.Sprintf("Citizenship application for <@%s> has been declined: %s", app.ApplicantID, app.RejectionReason))
	}
}

// handleAdminStats shows pipeline statistics to admins.
func (h *Handler) handleAdminStats(ctx context.Context, s Session, i *discordgo.InteractionCreate) {
	actor := actorFrom(i)
	if !h.gate.HasAdmin(actor.RoleIDs) {
		h.respondText(ctx, s, i, "You don't have permission to view application statistics.")
		return
	}
	if h.stats == nil {
		h.respondText(ctx, s, i, "Statistics are not available.")
		return
	}
	h.respondEmbed(ctx, s, i, statisticsEmbed(h.stats.Statistics()))
}

// handleBan executes a Roblox place ban. Admin-only; citizenship managers
// cannot ban. The Roblox username comes from the target's pending
// application. The ban call can take a while, so the response is deferred.
func (h *Handler) handleBan(ctx context.Context, s Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	actor := actorFrom(i)
	if !h.gate.HasAdmin(actor.RoleIDs) {
		h.respondText(ctx, s, i, "You don't have permission to use the ban command.")
		return
	}

	opts := commandOptions(data)
	userOpt, ok := opts["user"]
	if !ok {
		h.respondText(ctx, s, i, "A user is required.")
		return
	}
	target := userOpt.UserValue(nil)
	placeID := optionString(opts, "place_id", "")
	reason := optionString(opts, "reason", "No reason provided")

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "ban defer failed", "error", err)
		return
	}

	app, ok := h.pending.Get(ctx, target.ID)
	if !ok || app.RobloxUsername == "" {
		h.followupText(ctx, s, i, fmt.Sprintf("No Roblox username on file for <@%s>. A pending application is required.", target.ID))
		return
	}

	if err := h.roblox.BanFromPlace(ctx, app.RobloxUsername, placeID, reason); err != nil {
		h.logger.ErrorContext(ctx, "place ban failed",
			"error", err,
			"roblox_username", app.RobloxUsername,
			"place_id", placeID,
		)
		h.followupText(ctx, s, i, "Failed to execute the Roblox ban. Please try again later.")
		return
	}

	h.logger.InfoContext(ctx, "place ban executed",
		"target_id", target.ID,
		"roblox_username", app.RobloxUsername,
		"place_id", placeID,
		"actor_id", actor.ID,
	)
	if h.metrics != nil {
		h.metrics.PlaceBans.Inc()
	}
	if err := h.auditor.Emit(ctx, audit.Event{
		Action:      string(audit.EventPlaceBanExecuted),
		ApplicantID: target.ID,
		ActorID:     actor.ID,
		Reason:      reason,
		Detail:      "roblox_username=" + app.RobloxUsername + " place_id=" + placeID,
	}); err != nil {
		h.logger.WarnContext(ctx, "audit emit failed", "error", err)
	}

	embed := notify.BanEmbed(target.ID, app.RobloxUsername, placeID, reason, actor, h.now())
	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	}); err != nil {
		h.logger.WarnContext(ctx, "ban followup failed", "error", err)
	}

	if h.channels.ModLog != "" {
		if _, err := s.ChannelMessageSendEmbed(h.channels.ModLog, embed); err != nil {
			h.logger.WarnContext(ctx, "mod log post failed", "error", err, "channel_id", h.channels.ModLog)
		}
	}
}

func (h *Handler) respondText(ctx context.Context, s Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "interaction response failed", "error", err)
	}
}

func (h *Handler) respondEmbed(ctx context.Context, s Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "interaction response failed", "error", err)
	}
}

func (h *Handler) followupText(ctx context.Context, s Session, i *discordgo.InteractionCreate, content string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "followup failed", "error", err)
	}
}

// domainMessage extracts the human-readable message from a domain error.
func domainMessage(err error, fallback string) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return domainErr.Message
	}
	return fallback
}

// actorFrom builds the acting user from a guild interaction. DMs have no
// member; the zero actor fails every permission check.
func actorFrom(i *discordgo.InteractionCreate) citizenship.Actor {
	m := i.Member
	if m == nil || m.User == nil {
		return citizenship.Actor{}
	}
	name := m.Nick
	if name == "" {
		name = m.User.Username
	}
	return citizenship.Actor{
		ID:          m.User.ID,
		DisplayName: name,
		RoleIDs:     m.Roles,
	}
}
