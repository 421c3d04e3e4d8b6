package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"discord-strada/internal/discord"
	"discord-strada/internal/router"
)

// RequireSubscription gates a handler on the invoking team's
// subscription: an expired trial with no paid subscription gets the
// trial notice instead of the handler's result. Subscription status is
// loaded fresh on every invocation; a failed lookup propagates rather
// than letting the request through.
func RequireSubscription(now func() time.Time, serviceURL string) router.Middleware {
	return func(next router.Handler) router.Handler {
		return func(ctx context.Context, cmd *discord.Command) (any, error) {
			team, err := cmd.Team(ctx)
			if err != nil {
				return nil, err
			}
			if team.SubscriptionExpired(now()) {
				log.Info("subscribed feature required", "command", cmd.String(), "team", team.String())
				return team.TrialMessage(now(), serviceURL), nil
			}
			return next(ctx, cmd)
		}
	}
}
