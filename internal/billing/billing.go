// Package billing abstracts the payment provider. The core only needs
// subscription facts and auto-renew toggles; the provider's wire
// format stays behind this interface.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"discord-strada/internal/model"
)

// Subscription is the provider's view of a team's paid plan.
type Subscription struct {
	ID                string
	PlanName          string
	AmountCents       int64
	CancelAtPeriodEnd bool
	CurrentPeriodEnd  time.Time
	CustomerSince     time.Time
}

// Amount renders the plan price, e.g. "$19.99".
func (s *Subscription) Amount() string {
	return fmt.Sprintf("$%.2f", float64(s.AmountCents)/100)
}

// Provider performs billing operations for a team.
type Provider interface {
	// ActiveSubscription returns the team's active subscription, or
	// nil when there is none.
	ActiveSubscription(ctx context.Context, team *model.Team) (*Subscription, error)

	// CancelAutoRenew stops renewal at the end of the current period.
	CancelAutoRenew(ctx context.Context, team *model.Team, sub *Subscription) error

	// ResumeAutoRenew re-enables renewal on a canceled subscription.
	ResumeAutoRenew(ctx context.Context, team *model.Team, sub *Subscription) error
}

// ErrNotConfigured is returned by the disabled provider for mutating
// operations.
var ErrNotConfigured = errors.New("billing is not configured")

// Disabled is the provider used when no billing backend is configured:
// no team has a paid subscription and auto-renew operations fail.
type Disabled struct{}

func (Disabled) ActiveSubscription(ctx context.Context, team *model.Team) (*Subscription, error) {
	return nil, nil
}

func (Disabled) CancelAutoRenew(ctx context.Context, team *model.Team, sub *Subscription) error {
	return ErrNotConfigured
}

func (Disabled) ResumeAutoRenew(ctx context.Context, team *model.Team, sub *Subscription) error {
	return ErrNotConfigured
}
