package discordtransport

import "github.com/bwmarrin/discordgo"

// Slash command names. These are the bot's public API; renaming one is a
// breaking change for the guild.
const (
	CommandCitizenship = "citizenship"
	CommandAccept      = "citizenship_accept"
	CommandDecline     = "citizenship_decline"
	CommandBan         = "ban"
	CommandAdminStats  = "admin_statistics"
)

// Component and modal custom IDs routed by the interaction handler.
const (
	componentApply   = "apply_citizenship"
	componentStatus  = "check_status"
	componentInfo    = "citizenship_info"
	componentSupport = "contact_support"

	modalApplication = "citizenship_application"

	fieldRobloxUsername = "roblox_username"
	fieldMotivation     = "motivation"
	fieldCriminalRecord = "criminal_record"
	fieldAdditionalInfo = "additional_info"
)

// Commands returns the full slash command set. Registered in one
// bulk-overwrite on ready so stale commands disappear on deploy.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandCitizenship,
			Description: "Open the citizenship services portal",
		},
		{
			Name:        CommandAccept,
			Description: "Approve a pending citizenship application",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Applicant whose application to approve",
					Required:    true,
				},
			},
		},
		{
			Name:        CommandDecline,
			Description: "Reject a pending citizenship application",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Applicant whose application to reject",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason shared with the applicant",
					Required:    false,
				},
			},
		},
		{
			Name:        CommandAdminStats,
			Description: "Show application pipeline statistics",
		},
		{
			Name:        CommandBan,
			Description: "Ban an applicant's Roblox account from a place",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Member whose Roblox account to ban",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "place_id",
					Description: "Roblox place to ban from",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason recorded in the mod log",
					Required:    false,
				},
			},
		},
	}
}

// commandOptions indexes interaction options by name.
func commandOptions(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		out[opt.Name] = opt
	}
	return out
}

// optionString returns the named string option or a fallback.
func optionString(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name, fallback string) string {
	if opt, ok := opts[name]; ok {
		if v := opt.StringValue(); v != "" {
			return v
		}
	}
	return fallback
}
