package config

import (
	"os"
	"strings"
	"time"
)

// Channels holds the Discord channel ids the bot posts to. Any id may be
// empty; posting to an unconfigured channel is skipped.
type Channels struct {
	// CitizenshipLog receives an embed for every submitted application.
	CitizenshipLog string
	// CitizenshipStatus receives public approval/rejection updates.
	CitizenshipStatus string
	// ModLog receives moderation action embeds (place bans).
	ModLog string
}

// Config captures everything the bot needs at startup. Pending application
// state is in-memory only and intentionally dropped on restart; there is no
// storage configuration by design.
type Config struct {
	BotToken string
	GuildID  string

	// Role id sets for the access control gate. Both default empty, which
	// fails every privileged check closed.
	AdminRoleIDs              []string
	CitizenshipManagerRoleIDs []string

	Channels Channels

	// Addr is the listen address for the keep-alive/admin HTTP server.
	Addr string
	// AdminToken protects /admin/* routes. Empty disables the dashboard.
	AdminToken string

	// KeepAliveURL, when set, is periodically self-pinged so free hosting
	// tiers do not idle the process out.
	KeepAliveURL      string
	KeepAliveInterval time.Duration

	RobloxAPIKey string

	Environment string
	LogLevel    string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("CONSULATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if port := os.Getenv("PORT"); port != "" {
		// Render-style hosts inject PORT; it wins over the default.
		addr = ":" + port
	}

	interval := 30 * time.Second
	if raw := os.Getenv("KEEP_ALIVE_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			interval = d
		}
	}

	env := os.Getenv("CONSULATE_ENV")
	if env == "" {
		env = "development"
	}

	return Config{
		BotToken:                  os.Getenv("DISCORD_BOT_TOKEN"),
		GuildID:                   os.Getenv("DISCORD_GUILD_ID"),
		AdminRoleIDs:              splitIDList(os.Getenv("ADMIN_ROLE_IDS")),
		CitizenshipManagerRoleIDs: splitIDList(os.Getenv("CITIZENSHIP_MANAGER_ROLE_IDS")),
		Channels: Channels{
			CitizenshipLog:    os.Getenv("CITIZENSHIP_LOG_CHANNEL_ID"),
			CitizenshipStatus: os.Getenv("CITIZENSHIP_STATUS_CHANNEL_ID"),
			ModLog:            os.Getenv("MOD_LOG_CHANNEL_ID"),
		},
		Addr:              addr,
		AdminToken:        os.Getenv("ADMIN_API_TOKEN"),
		KeepAliveURL:      os.Getenv("KEEP_ALIVE_URL"),
		KeepAliveInterval: interval,
		RobloxAPIKey:      os.Getenv("ROBLOX_API_KEY"),
		Environment:       env,
		LogLevel:          os.Getenv("LOG_LEVEL"),
	}
}

// splitIDList parses a comma-separated id list, dropping empty entries.
func splitIDList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if id := strings.TrimSpace(p); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
