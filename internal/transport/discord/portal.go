package discordtransport

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"consulate/internal/citizenship"
	"consulate/internal/citizenship/tracker"
	"consulate/internal/notify"
)

const portalColor = 0x1e3a8a

// portalEmbed is the services dashboard shown by /citizenship.
func portalEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Citizenship Services",
		Color: portalColor,
		Description: "**Welcome to the Citizenship Portal**\n\n" +
			"**Available Services:**\n" +
			"• Apply for citizenship\n" +
			"• Check your application status\n" +
			"• Learn about citizenship benefits\n" +
			"• Contact our support team\n\n" +
			"*All applications are reviewed by the citizenship management team*",
		Footer: &discordgo.MessageEmbedFooter{Text: "Citizenship Department"},
	}
}

func portalComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Apply for Citizenship",
					Style:    discordgo.PrimaryButton,
					CustomID: componentApply,
				},
				discordgo.Button{
					Label:    "Check Application Status",
					Style:    discordgo.SecondaryButton,
					CustomID: componentStatus,
				},
				discordgo.Button{
					Label:    "Citizenship Information",
					Style:    discordgo.SecondaryButton,
					CustomID: componentInfo,
				},
				discordgo.Button{
					Label:    "Contact Support",
					Style:    discordgo.SecondaryButton,
					CustomID: componentSupport,
				},
			},
		},
	}
}

// applicationModal builds the four-field application form. Field limits
// mirror the validation in the lifecycle service so the modal rejects
// oversized input client-side.
func applicationModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: modalApplication,
		Title:    "Citizenship Application",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldRobloxUsername,
					Label:       "Roblox Username",
					Style:       discordgo.TextInputShort,
					Placeholder: "Enter your Roblox username...",
					Required:    true,
					MaxLength:   citizenship.MaxRobloxUsernameLen,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldMotivation,
					Label:       "Why do you want citizenship?",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Please explain your motivation...",
					Required:    true,
					MaxLength:   citizenship.MaxMotivationLen,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldCriminalRecord,
					Label:       "Criminal Record Disclosure",
					Style:       discordgo.TextInputShort,
					Placeholder: "Yes/No and details if applicable...",
					Required:    true,
					MaxLength:   citizenship.MaxCriminalRecordLen,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    fieldAdditionalInfo,
					Label:       "Additional Information (Optional)",
					Style:       discordgo.TextInputParagraph,
					Placeholder: "Any additional information...",
					Required:    false,
					MaxLength:   citizenship.MaxAdditionalInfoLen,
				},
			}},
		},
	}
}

// parseModalForm extracts the form fields from a modal submit payload.
// Unknown components are skipped so reordering rows stays harmless.
func parseModalForm(data discordgo.ModalSubmitInteractionData) citizenship.Form {
	var form citizenship.Form
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			input, ok := comp.(*discordgo.TextInput)
			if !ok {
				continue
			}
			value := strings.TrimSpace(input.Value)
			switch input.CustomID {
			case fieldRobloxUsername:
				form.RobloxUsername = value
			case fieldMotivation:
				form.Motivation = value
			case fieldCriminalRecord:
				form.CriminalRecord = value
			case fieldAdditionalInfo:
				form.AdditionalInfo = value
			}
		}
	}
	return form
}

// statusEmbed summarizes the caller's pending application.
func statusEmbed(app *citizenship.Application) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Your Application Status",
		Color: notify.ColorSubmitted,
		Description: fmt.Sprintf("**Status:** Pending\n**Submitted:** <t:%d:R>\n**Roblox Username:** %s",
			app.SubmittedAt.Unix(), app.RobloxUsername),
		Footer: &discordgo.MessageEmbedFooter{Text: "You will receive a DM when your application is reviewed."},
	}
}

func noApplicationEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Application Status",
		Color: notify.ColorRejected,
		Description: "You don't have any pending citizenship applications.\n" +
			"Click 'Apply for Citizenship' to submit your application!",
	}
}

func infoEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Citizenship Information",
		Color: notify.ColorSubmitted,
		Description: "**Benefits of Citizenship:**\n" +
			"• Access to exclusive community events\n" +
			"• Special citizen role and privileges\n" +
			"• Priority support and assistance\n" +
			"• Participation in governance discussions\n\n" +
			"**Application Requirements:**\n" +
			"• Valid Roblox username\n" +
			"• Clear criminal record disclosure\n" +
			"• Genuine interest in the community\n" +
			"• Respectful behavior and good standing",
		Footer: &discordgo.MessageEmbedFooter{Text: "Applications are reviewed by our citizenship team"},
	}
}

// statisticsEmbed is the staff view of the pipeline, fed by the tracker.
func statisticsEmbed(stats tracker.Statistics) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Application Statistics",
		Color: portalColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total", Value: fmt.Sprintf("%d", stats.Total), Inline: true},
			{Name: "Pending", Value: fmt.Sprintf("%d", stats.Pending), Inline: true},
			{Name: "Approved", Value: fmt.Sprintf("%d", stats.Approved), Inline: true},
			{Name: "Rejected", Value: fmt.Sprintf("%d", stats.Rejected), Inline: true},
			{Name: "Approval Rate", Value: fmt.Sprintf("%.1f%%", stats.ApprovalRate), Inline: true},
			{Name: "Avg Processing", Value: fmt.Sprintf("%.1fh", stats.AverageProcessingHours), Inline: true},
			{Name: "Last 24h / 7d / 30d", Value: fmt.Sprintf("%d / %d / %d", stats.Daily, stats.Weekly, stats.Monthly)},
		},
	}
}

func supportEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Contact Support",
		Color: notify.ColorSubmitted,
		Description: "Need help with your citizenship application?\n\n" +
			"**Contact Methods:**\n" +
			"• Message a staff member directly\n" +
			"• Open a support ticket\n" +
			"• Ask in the general support channel",
		Footer: &discordgo.MessageEmbedFooter{Text: "Our support team is here to help!"},
	}
}
