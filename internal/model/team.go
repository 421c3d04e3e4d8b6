package model

import (
	"fmt"
	"time"
)

// TrialPeriod is how long a team may use subscribed features before
// paying.
const TrialPeriod = 14 * 24 * time.Hour

// Team is one Discord guild the bot is installed in, together with its
// display settings and subscription state.
type Team struct {
	ID                    string
	GuildID               string
	GuildName             string
	GuildOwnerID          string
	Units                 string
	DefaultLeaderboard    string
	RetentionDays         int
	Subscribed            bool
	SubscribedAt          *time.Time
	SubscriptionExpiredAt *time.Time
	StripeCustomerID      string
	CreatedAt             time.Time
}

func (t *Team) String() string {
	return fmt.Sprintf("%s (%s)", t.GuildName, t.GuildID)
}

// SubscriptionExpired reports whether the trial ran out without a paid
// subscription.
func (t *Team) SubscriptionExpired(now time.Time) bool {
	if t.Subscribed {
		return false
	}
	return t.CreatedAt.Before(now.Add(-TrialPeriod))
}

// TrialEndsAt is when the trial runs out. Only meaningful while the
// team is not subscribed.
func (t *Team) TrialEndsAt() time.Time {
	return t.CreatedAt.Add(TrialPeriod)
}

// RemainingTrialDays never goes negative.
func (t *Team) RemainingTrialDays(now time.Time) int {
	days := int(t.TrialEndsAt().Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// TrialMessage is the fixed notice shown to unsubscribed teams.
func (t *Team) TrialMessage(now time.Time, serviceURL string) string {
	remaining := t.RemainingTrialDays(now)
	var lead string
	switch remaining {
	case 0:
		lead = "Your trial subscription has expired."
	case 1:
		lead = "Your trial subscription expires in 1 day."
	default:
		lead = fmt.Sprintf("Your trial subscription expires in %d days.", remaining)
	}
	return lead + " " + t.SubscribeText(serviceURL)
}

// SubscribeText points the team at the subscription page.
func (t *Team) SubscribeText(serviceURL string) string {
	return fmt.Sprintf(
		"Subscribe your team for $19.99 a year at %s/subscribe?guild_id=%s to continue receiving Strava activities in Discord.",
		serviceURL, t.GuildID,
	)
}

// UnitsLabel describes the units setting for the settings summary.
func (t *Team) UnitsLabel() string {
	switch t.Units {
	case UnitsMetric:
		return "kilometers"
	case UnitsBoth:
		return "both units"
	default:
		return "miles"
	}
}

// User is a Discord user in a channel, auto-provisioned on first
// interaction, optionally connected to a Strava athlete.
type User struct {
	ID                      string
	TeamID                  string
	UserID                  string
	ChannelID               string
	UserName                string
	StravaAthleteID         string
	SyncActivities          bool
	PrivateActivities       bool
	FollowersOnlyActivities bool
	CreatedAt               time.Time
}

func (u *User) String() string {
	return fmt.Sprintf("%s (%s)", u.UserName, u.UserID)
}

// Connected reports whether a Strava athlete is linked.
func (u *User) Connected() bool {
	return u.StravaAthleteID != ""
}

// GuildOwner reports whether this user owns the guild; team-level
// settings are restricted to the owner.
func (u *User) GuildOwner(team *Team) bool {
	return team.GuildOwnerID != "" && u.UserID == team.GuildOwnerID
}

// Club is a Strava club connected to a channel.
type Club struct {
	ID        string
	TeamID    string
	ChannelID string
	Name      string
	StravaID  string
	URL       string
}
