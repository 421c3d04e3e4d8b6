package discord

import (
	"context"
	"fmt"
	"strings"

	"discord-strada/internal/model"
)

// TeamStore is what a command view needs to resolve its team and user.
type TeamStore interface {
	FindTeamByGuildID(ctx context.Context, guildID string) (*model.Team, error)
	FindOrCreateUser(ctx context.Context, team *model.Team, userID, channelID, userName string) (*model.User, error)
}

// Command is the view of an application-command interaction passed to
// handlers. Team and user resolution is lazy and memoized for the life
// of the request; the view is owned by the request call stack and
// discarded with it.
type Command struct {
	interaction *model.Interaction
	store       TeamStore

	team *model.Team
	user *model.User
}

// NewCommand wraps an application-command interaction.
func NewCommand(interaction *model.Interaction, store TeamStore) *Command {
	return &Command{interaction: interaction, store: store}
}

// Name is the root command name.
func (c *Command) Name() string {
	return c.interaction.Data.Name
}

// Options is the invocation's option tree.
func (c *Command) Options() model.Options {
	return c.interaction.Data.Options
}

// Path derives the routing token path: the root command name plus the
// first-level subcommand, when there is one. Deeper nesting is
// arguments, not routing; leaf options carrying values never extend
// the path.
func (c *Command) Path() []string {
	tokens := []string{c.interaction.Data.Name}
	if opts := c.interaction.Data.Options; len(opts) > 0 && opts[0].IsSubcommand() {
		tokens = append(tokens, opts[0].Name)
	}
	return tokens
}

// ChannelID is where the command was invoked.
func (c *Command) ChannelID() string {
	return c.interaction.Channel.ID
}

// GuildID is the invoking guild.
func (c *Command) GuildID() string {
	return c.interaction.GuildID
}

// Team resolves the invoking team from the guild id. The result is
// memoized; a missing team is an error, not a user-facing message.
func (c *Command) Team(ctx context.Context) (*model.Team, error) {
	if c.team != nil {
		return c.team, nil
	}
	team, err := c.store.FindTeamByGuildID(ctx, c.interaction.GuildID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, fmt.Errorf("missing team with guild_id=%s", c.interaction.GuildID)
	}
	c.team = team
	return team, nil
}

// User resolves the invoking user, creating the record on first
// interaction. Memoized like Team.
func (c *Command) User(ctx context.Context) (*model.User, error) {
	if c.user != nil {
		return c.user, nil
	}
	team, err := c.Team(ctx)
	if err != nil {
		return nil, err
	}
	info, err := c.userInfo()
	if err != nil {
		return nil, err
	}
	user, err := c.store.FindOrCreateUser(ctx, team, info.ID, c.ChannelID(), info.Username)
	if err != nil {
		return nil, err
	}
	c.user = user
	return user, nil
}

// userInfo picks the invoking user out of the payload: guild text
// channels carry it under member, DMs at the top level.
func (c *Command) userInfo() (*model.InteractionUser, error) {
	switch c.interaction.Channel.Type {
	case model.ChannelGuildText:
		if c.interaction.Member != nil && c.interaction.Member.User != nil {
			return c.interaction.Member.User, nil
		}
	case model.ChannelDM:
		if c.interaction.User != nil {
			return c.interaction.User, nil
		}
	}
	return nil, fmt.Errorf("no user in interaction for channel type %d", c.interaction.Channel.Type)
}

func (c *Command) String() string {
	return strings.Join(c.Path(), " ")
}
