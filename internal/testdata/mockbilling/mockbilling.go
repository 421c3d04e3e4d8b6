package mockbilling

import (
	"context"

	"discord-strada/internal/billing"
	"discord-strada/internal/model"

	"github.com/stretchr/testify/mock"
)

type Provider struct {
	mock.Mock
}

// Interface compliance check
var _ billing.Provider = &Provider{}

func (m *Provider) ActiveSubscription(ctx context.Context, team *model.Team) (*billing.Subscription, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *Provider) CancelAutoRenew(ctx context.Context, team *model.Team, sub *billing.Subscription) error {
	args := m.Called(ctx, team, sub)
	return args.Error(0)
}

func (m *Provider) ResumeAutoRenew(ctx context.Context, team *model.Team, sub *billing.Subscription) error {
	args := m.Called(ctx, team, sub)
	return args.Error(0)
}
