package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"discord-strada/internal/billing"
	"discord-strada/internal/discord"
	"discord-strada/internal/model"
	"discord-strada/internal/parse"
	"discord-strada/internal/repository"
	"discord-strada/internal/router"
)

const helpText = "```" + `
I am Strada, your friendly bot powered by Strava.

Use /strada [command] to get started.

Setup
------------
connect                              - connect your Strava account
disconnect                           - disconnect your Strava account
leaderboard distance|... [when]      - leaderboard by distance, etc.
  2025|last year|[month]|...
  since|between [date] [and [date]]
stats                                - stats in current channel

Admins
------------
disconnect @mention                  - disconnect someone else's Strava account

Settings
------------
set retention [n] days|months|years  - set how long to retain user activities
set units imperial|metric|both       - use imperial vs. metric units, or display both
set sync true|false                  - sync activities (default is true)
set private true|false               - sync private (only you) activities (default is false)
set followers true|false             - sync followers only activities (default is true)
set leaderboard [expression]         - set the default leaderboard

General
------------
help                                 - get this helpful message
subscription                         - show subscription info
unsubscribe                          - turn off subscription auto-renew
resubscribe                          - turn on subscription auto-renew
clubs                                - Strava clubs in this channel
info                                 - bot info, contact, feature requests
` + "```"

const adminOnlyMessage = "Sorry, only a Discord admin can do that."

// Handlers implements the named commands and assembles the route
// table. Each handler is a pure function of the command view plus the
// injected collaborators.
type Handlers struct {
	teams       repository.TeamRepository
	leaderboard *Leaderboard
	stats       *Stats
	parser      *parse.Parser
	billing     billing.Provider
	serviceURL  string
	version     string
	now         func() time.Time
}

// NewHandlers wires the command handlers.
func NewHandlers(
	teams repository.TeamRepository,
	leaderboard *Leaderboard,
	stats *Stats,
	parser *parse.Parser,
	provider billing.Provider,
	serviceURL, version string,
) *Handlers {
	return &Handlers{
		teams:       teams,
		leaderboard: leaderboard,
		stats:       stats,
		parser:      parser,
		billing:     provider,
		serviceURL:  serviceURL,
		version:     version,
		now:         time.Now,
	}
}

// Routes builds the route table: every subscribed feature sits behind
// the subscription gate, help/info stay open, and the wildcard catches
// everything else so no request is ever silently dropped.
func (h *Handlers) Routes() *router.Table {
	gate := RequireSubscription(h.now, h.serviceURL)

	t := router.New()
	t.Register([]string{"strada", "help"}, h.Help)
	t.Register([]string{"strada", "info"}, h.Info)
	t.Register([]string{"strada", "connect"}, h.Connect, gate)
	t.Register([]string{"strada", "disconnect"}, h.Disconnect, gate)
	t.Register([]string{"strada", "set"}, h.Set, gate)
	t.Register([]string{"strada", "leaderboard"}, h.Leaderboard, gate)
	t.Register([]string{"strada", "stats"}, h.Stats, gate)
	t.Register([]string{"strada", "subscription"}, h.Subscription, gate)
	t.Register([]string{"strada", "unsubscribe"}, h.Unsubscribe, gate)
	t.Register([]string{"strada", "resubscribe"}, h.Resubscribe, gate)
	t.Register([]string{"strada", "clubs"}, h.Clubs, gate)
	t.Register([]string{router.Wildcard}, h.Unknown)
	return t
}

func (h *Handlers) Help(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("help", "command", cmd.String(), "team", team.String())
	if team.Subscribed {
		return helpText, nil
	}
	return helpText + "\n" + team.TrialMessage(h.now(), h.serviceURL), nil
}

func (h *Handlers) Info(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("info", "command", cmd.String(), "team", team.String())
	info := fmt.Sprintf(
		"I am Strada %s, a Discord bot powered by Strava.\nService at %s.\nPlease report bugs or suggest features at %s/issues.",
		h.version, h.serviceURL, h.serviceURL,
	)
	if team.Subscribed {
		return info, nil
	}
	return info + "\n" + team.TrialMessage(h.now(), h.serviceURL), nil
}

func (h *Handlers) Connect(ctx context.Context, cmd *discord.Command) (any, error) {
	user, err := cmd.User(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("connect", "command", cmd.String(), "user", user.String())
	if user.Connected() {
		return "You are already connected to Strava.", nil
	}
	url := fmt.Sprintf("%s/connect?state=%s", h.serviceURL, user.ID)
	return &model.MessagePayload{
		Content:    "Please connect your Strava account.",
		Components: model.LinkButton("Connect!", url),
	}, nil
}

func (h *Handlers) Disconnect(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	user, err := cmd.User(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("disconnect", "command", cmd.String(), "user", user.String())

	if mention, ok := cmd.Options().String("disconnect", "user"); ok && mention != "" && mention != user.UserID {
		if !user.GuildOwner(team) {
			return adminOnlyMessage, nil
		}
		target, err := h.teams.FindTeamUser(ctx, team.ID, mention)
		if err != nil {
			return nil, err
		}
		if target == nil || !target.Connected() {
			return fmt.Sprintf("There is no Strava account connected for <@%s>.", mention), nil
		}
		if err := h.teams.DisconnectUser(ctx, target); err != nil {
			return nil, err
		}
		return fmt.Sprintf("Strava account for <@%s> successfully disconnected.", mention), nil
	}

	if !user.Connected() {
		return "There is no Strava account to disconnect.", nil
	}
	if err := h.teams.DisconnectUser(ctx, user); err != nil {
		return nil, err
	}
	return "Your Strava account has been successfully disconnected.", nil
}

// Set updates team or user settings, or prints the current settings
// when invoked bare. Team-level settings (units, leaderboard,
// retention) are restricted to the guild owner; sync, private and
// followers apply to the invoking user only.
func (h *Handlers) Set(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	user, err := cmd.User(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("set", "command", cmd.String(), "user", user.String())

	set, ok := cmd.Options().Get("set")
	if !ok || len(set.Options) == 0 {
		return h.settingsSummary(team, user), nil
	}

	var lines []string
	teamChanged, userChanged := false, false
	for _, opt := range set.Options {
		switch opt.Name {
		case "units":
			if !user.GuildOwner(team) {
				return adminOnlyMessage, nil
			}
			units := strings.ToLower(strings.TrimSpace(opt.StringValue()))
			switch units {
			case model.UnitsImperial, model.UnitsMetric, model.UnitsBoth:
			case "imperial":
				units = model.UnitsImperial
			case "metric":
				units = model.UnitsMetric
			default:
				return nil, model.NewUserError(fmt.Sprintf("Invalid value: %s. Expected one of imperial, metric or both.", opt.StringValue()))
			}
			team.Units = units
			teamChanged = true
			lines = append(lines, fmt.Sprintf("Activities will now be displayed in %s.", team.UnitsLabel()))
		case "leaderboard":
			if !user.GuildOwner(team) {
				return adminOnlyMessage, nil
			}
			expression := strings.TrimSpace(opt.StringValue())
			if _, err := h.parser.Parse(expression); err != nil {
				return nil, err
			}
			team.DefaultLeaderboard = expression
			teamChanged = true
			lines = append(lines, fmt.Sprintf("Default leaderboard set to %s.", expression))
		case "retention":
			if !user.GuildOwner(team) {
				return adminOnlyMessage, nil
			}
			days, err := parseRetention(opt.StringValue())
			if err != nil {
				return nil, err
			}
			team.RetentionDays = days
			teamChanged = true
			lines = append(lines, fmt.Sprintf("Activities will now be retained for %s.", retentionLabel(days)))
		case "sync":
			v, present := opt.BoolValue()
			if !present {
				return nil, model.NewUserError(fmt.Sprintf("Invalid value: %s. Expected true or false.", opt.StringValue()))
			}
			user.SyncActivities = v
			userChanged = true
			lines = append(lines, fmt.Sprintf("Your activities will %ssync.", onOff(v)))
		case "private":
			v, present := opt.BoolValue()
			if !present {
				return nil, model.NewUserError(fmt.Sprintf("Invalid value: %s. Expected true or false.", opt.StringValue()))
			}
			user.PrivateActivities = v
			userChanged = true
			lines = append(lines, fmt.Sprintf("Your private activities will %ssync.", onOff(v)))
		case "followers":
			v, present := opt.BoolValue()
			if !present {
				return nil, model.NewUserError(fmt.Sprintf("Invalid value: %s. Expected true or false.", opt.StringValue()))
			}
			user.FollowersOnlyActivities = v
			userChanged = true
			lines = append(lines, fmt.Sprintf("Your followers only activities will %ssync.", onOff(v)))
		default:
			return nil, model.NewUserError(fmt.Sprintf("Sorry, I don't understand '%s'.", opt.Name))
		}
	}

	if teamChanged {
		if err := h.teams.UpdateTeamSettings(ctx, team); err != nil {
			return nil, err
		}
	}
	if userChanged {
		if err := h.teams.UpdateUserSettings(ctx, user); err != nil {
			return nil, err
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (h *Handlers) settingsSummary(team *model.Team, user *model.User) string {
	lines := []string{
		fmt.Sprintf("Activities are displayed in %s.", team.UnitsLabel()),
		fmt.Sprintf("Default leaderboard is %s.", team.DefaultLeaderboard),
		fmt.Sprintf("Activities are retained for %s.", retentionLabel(team.RetentionDays)),
		fmt.Sprintf("Your activities will %ssync.", onOff(user.SyncActivities)),
		fmt.Sprintf("Your private activities will %ssync.", onOff(user.PrivateActivities)),
		fmt.Sprintf("Your followers only activities will %ssync.", onOff(user.FollowersOnlyActivities)),
	}
	return strings.Join(lines, "\n")
}

func onOff(v bool) string {
	if v {
		return "now "
	}
	return "no longer "
}

func (h *Handlers) Leaderboard(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}

	metric, _ := cmd.Options().String("leaderboard", "metric")
	dateRange, _ := cmd.Options().String("leaderboard", "range")
	expression := strings.TrimSpace(strings.Join(compact(metric, dateRange), " "))
	if expression == "" {
		expression = team.DefaultLeaderboard
	}

	filter, err := h.parser.Parse(expression)
	if err != nil {
		return nil, err
	}
	filter.ChannelID = cmd.ChannelID()

	log.Info("leaderboard",
		"command", cmd.String(),
		"team", team.String(),
		"metric", filter.Metric,
		"range", formatRange(filter),
	)

	rows, err := h.leaderboard.Aggregate(ctx, team, filter)
	if err != nil {
		return nil, err
	}
	return h.leaderboard.ToText(ctx, team, rows, filter)
}

func (h *Handlers) Stats(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("stats", "command", cmd.String(), "team", team.String())
	summaries, err := h.stats.Aggregate(ctx, team, cmd.ChannelID())
	if err != nil {
		return nil, err
	}
	return h.stats.ToDiscord(summaries, team), nil
}

func (h *Handlers) Subscription(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	user, err := cmd.User(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("subscription", "command", cmd.String(), "team", team.String())

	sub, err := h.billing.ActiveSubscription(ctx, team)
	if err != nil {
		return nil, err
	}

	var lines []string
	switch {
	case sub != nil:
		lines = append(lines, fmt.Sprintf("Customer since %s.", sub.CustomerSince.Format("January 2, 2006")))
		renews := fmt.Sprintf("will auto-renew on %s", sub.CurrentPeriodEnd.Format("January 2, 2006"))
		if sub.CancelAtPeriodEnd {
			renews = fmt.Sprintf("expires on %s", sub.CurrentPeriodEnd.Format("January 2, 2006"))
		}
		lines = append(lines, fmt.Sprintf("Subscribed to %s (%s), %s.", sub.PlanName, sub.Amount(), renews))
		if user.GuildOwner(team) {
			lines = append(lines, fmt.Sprintf("Update your credit card info at %s/update_cc?guild_id=%s.", h.serviceURL, team.GuildID))
		}
	case team.Subscribed && team.SubscribedAt != nil:
		lines = append(lines, fmt.Sprintf("Subscriber since %s.", team.SubscribedAt.Format("January 2, 2006")))
	default:
		lines = append(lines, team.TrialMessage(h.now(), h.serviceURL))
	}
	return strings.Join(lines, "\n"), nil
}

func (h *Handlers) Unsubscribe(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	user, err := cmd.User(ctx)
	if err != nil {
		return nil, err
	}

	if team.StripeCustomerID == "" {
		log.Info("unsubscribe failed, no subscription", "command", cmd.String(), "team", team.String())
		return "You don't have a paid subscription, all set.", nil
	}
	if !user.GuildOwner(team) {
		log.Info("unsubscribe failed, not admin", "command", cmd.String(), "user", user.String())
		return adminOnlyMessage, nil
	}

	sub, err := h.billing.ActiveSubscription(ctx, team)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return "You don't have an active subscription.", nil
	}
	if err := h.billing.CancelAutoRenew(ctx, team, sub); err != nil {
		return nil, err
	}
	log.Info("canceled auto-renew", "command", cmd.String(), "subscription", sub.ID)
	return fmt.Sprintf("Successfully canceled auto-renew for %s (%s).", sub.PlanName, sub.Amount()), nil
}

func (h *Handlers) Resubscribe(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	user, err := cmd.User(ctx)
	if err != nil {
		return nil, err
	}

	if team.StripeCustomerID == "" {
		log.Info("resubscribe failed, no subscription", "command", cmd.String(), "team", team.String())
		return "You don't have a paid subscription. " + team.SubscribeText(h.serviceURL), nil
	}
	if !user.GuildOwner(team) {
		log.Info("resubscribe failed, not admin", "command", cmd.String(), "user", user.String())
		return adminOnlyMessage, nil
	}

	sub, err := h.billing.ActiveSubscription(ctx, team)
	if err != nil {
		return nil, err
	}
	switch {
	case sub == nil:
		return "You don't have a paid subscription. " + team.SubscribeText(h.serviceURL), nil
	case sub.CancelAtPeriodEnd:
		if err := h.billing.ResumeAutoRenew(ctx, team, sub); err != nil {
			return nil, err
		}
		log.Info("resumed auto-renew", "command", cmd.String(), "subscription", sub.ID)
		return fmt.Sprintf("Subscription to %s (%s) will now auto-renew on %s.",
			sub.PlanName, sub.Amount(), sub.CurrentPeriodEnd.Format("January 2, 2006")), nil
	default:
		return fmt.Sprintf("Subscription to %s (%s) will continue to auto-renew on %s.",
			sub.PlanName, sub.Amount(), sub.CurrentPeriodEnd.Format("January 2, 2006")), nil
	}
}

func (h *Handlers) Clubs(ctx context.Context, cmd *discord.Command) (any, error) {
	team, err := cmd.Team(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("clubs", "command", cmd.String(), "team", team.String())

	clubs, err := h.teams.ListClubs(ctx, team.ID, cmd.ChannelID())
	if err != nil {
		return nil, err
	}
	if len(clubs) == 0 {
		return "There are no clubs connected to this channel.", nil
	}
	lines := make([]string, 0, len(clubs))
	for _, club := range clubs {
		if club.URL != "" {
			lines = append(lines, fmt.Sprintf("%s (%s)", club.Name, club.URL))
			continue
		}
		lines = append(lines, club.Name)
	}
	return strings.Join(lines, "\n"), nil
}

func (h *Handlers) Unknown(ctx context.Context, cmd *discord.Command) (any, error) {
	log.Info("unknown command", "command", cmd.String())
	return fmt.Sprintf("Sorry, I don't understand this command: %s.", cmd.String()), nil
}

func compact(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func formatRange(filter model.LeaderboardFilter) string {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	return format(filter.StartDate) + ".." + format(filter.EndDate)
}

var retentionPattern = regexp.MustCompile(`(?i)^(\d+)\s*(day|days|month|months|year|years)$`)

// parseRetention turns "30 days", "6 months" or "1 year" into days.
func parseRetention(text string) (int, error) {
	m := retentionPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, model.NewUserError(fmt.Sprintf("Sorry, I don't understand '%s'. Try '30 days', '6 months' or '1 year'.", text))
	}
	n, _ := strconv.Atoi(m[1])
	switch strings.ToLower(m[2]) {
	case "month", "months":
		n *= 30
	case "year", "years":
		n *= 365
	}
	return n, nil
}

// retentionLabel renders stored days back in the largest round unit.
func retentionLabel(days int) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", unit)
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case days >= 365 && days%365 == 0:
		return plural(days/365, "year")
	case days >= 30 && days%30 == 0:
		return plural(days/30, "month")
	default:
		return plural(days, "day")
	}
}
