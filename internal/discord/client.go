package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Client is the outbound Discord REST collaborator: it installs the
// global slash commands at startup and delivers direct messages for
// subscription notices. Interaction responses never go through it —
// those ride the webhook's HTTP reply.
type Client struct {
	session       *discordgo.Session
	applicationID string
}

// NewClient builds a REST-only session; no gateway connection is
// opened.
func NewClient(botToken, applicationID string) (*Client, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Client{session: session, applicationID: applicationID}, nil
}

// InstallCommands overwrites the application's global command set with
// the strada command tree.
func (c *Client) InstallCommands() error {
	_, err := c.session.ApplicationCommandBulkOverwrite(c.applicationID, "", commandDefinitions())
	if err != nil {
		return fmt.Errorf("install commands: %w", err)
	}
	return nil
}

// SendDM opens (or reuses) the DM channel with a user and delivers a
// message.
func (c *Client) SendDM(userID, content string) error {
	channel, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("create dm channel: %w", err)
	}
	if _, err := c.session.ChannelMessageSend(channel.ID, content); err != nil {
		return fmt.Errorf("send dm: %w", err)
	}
	return nil
}

func commandDefinitions() []*discordgo.ApplicationCommand {
	subcommand := func(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        name,
			Description: description,
			Options:     options,
		}
	}
	stringOption := func(name, description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        name,
			Description: description,
		}
	}
	boolOption := func(name, description string) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        name,
			Description: description,
		}
	}
	return []*discordgo.ApplicationCommand{
		{
			Name:        "strada",
			Description: "Strava leaderboards and stats for your server",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("help", "How to use the bot"),
				subcommand("connect", "Connect your Strava account"),
				subcommand("disconnect", "Disconnect your Strava account",
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Disconnect someone else (admins only)",
					}),
				subcommand("leaderboard", "Channel leaderboard",
					stringOption("metric", "distance, moving time, elapsed time, elevation, count, pr count or calories"),
					stringOption("range", "e.g. 2024, since March, between January and June")),
				subcommand("stats", "Channel activity stats"),
				subcommand("set", "Settings",
					stringOption("units", "imperial, metric or both"),
					boolOption("sync", "Sync your activities"),
					boolOption("private", "Sync private activities"),
					boolOption("followers", "Sync followers only activities"),
					stringOption("leaderboard", "default leaderboard expression"),
					stringOption("retention", "e.g. 30 days, 6 months, 1 year")),
				subcommand("subscription", "Subscription info"),
				subcommand("unsubscribe", "Turn off subscription auto-renew"),
				subcommand("resubscribe", "Turn on subscription auto-renew"),
				subcommand("clubs", "Strava clubs connected to this channel"),
				subcommand("info", "Bot info and contact"),
			},
		},
	}
}
