package notify

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"consulate/internal/citizenship"
)

// fieldLimit keeps free-text fields inside Discord's per-field cap.
const fieldLimit = 500

func dmEmbed(tmpl Template, app *citizenship.Application, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Color:       tmpl.Color,
		Timestamp:   now.UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: tmpl.Footer},
	}
	if app.Status == citizenship.StatusRejected && app.RejectionReason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Reason",
			Value: truncate(app.RejectionReason),
		})
	}
	return embed
}

// submissionEmbed is the staff-facing record posted to the log channel.
func submissionEmbed(app *citizenship.Application, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "New Citizenship Application",
		Color:     ColorSubmitted,
		Timestamp: now.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Applicant", Value: mention(app.ApplicantID) + " (" + app.DisplayName + ")"},
			{Name: "Roblox Username", Value: app.RobloxUsername, Inline: true},
			{Name: "Motivation", Value: truncate(app.Motivation)},
			{Name: "Criminal Record", Value: truncate(app.CriminalRecord)},
		},
	}
	if app.AdditionalInfo != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Additional Information",
			Value: truncate(app.AdditionalInfo),
		})
	}
	return embed
}

// resolutionEmbed is the public status update for an approve or reject.
func resolutionEmbed(kind citizenship.EventKind, app *citizenship.Application, actor citizenship.Actor, now time.Time) *discordgo.MessageEmbed {
	title := "Citizenship Application Approved"
	color := ColorApproved
	if kind == citizenship.KindRejected {
		title = "Citizenship Application Declined"
		color = ColorRejected
	}

	embed := &discordgo.MessageEmbed{
		Title:     title,
		Color:     color,
		Timestamp: now.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Applicant", Value: mention(app.ApplicantID), Inline: true},
			{Name: "Reviewed By", Value: mention(actor.ID), Inline: true},
		},
	}
	if kind == citizenship.KindRejected && app.RejectionReason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Reason",
			Value: truncate(app.RejectionReason),
		})
	}
	return embed
}

// BanEmbed records an executed place ban for the invoker and mod log.
func BanEmbed(targetID, robloxUsername, placeID, reason string, actor citizenship.Actor, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:     "Place Ban Executed",
		Color:     ColorBan,
		Timestamp: now.UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: mention(targetID), Inline: true},
			{Name: "Roblox Username", Value: robloxUsername, Inline: true},
			{Name: "Place ID", Value: placeID, Inline: true},
			{Name: "Reason", Value: truncate(reason)},
			{Name: "Executed By", Value: mention(actor.ID), Inline: true},
		},
	}
}

func mention(userID string) string {
	if userID == "" {
		return "unknown"
	}
	return "<@" + userID + ">"
}

func truncate(s string) string {
	if len(s) <= fieldLimit {
		return s
	}
	return s[:fieldLimit-3] + "..."
}
