package mockservice

import (
	"context"

	"discord-strada/internal/model"

	"github.com/stretchr/testify/mock"
)

// Dispatcher mocks the interaction dispatcher.
type Dispatcher struct {
	mock.Mock
}

func (m *Dispatcher) Dispatch(ctx context.Context, interaction *model.Interaction) (*model.InteractionResponse, error) {
	args := m.Called(ctx, interaction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InteractionResponse), args.Error(1)
}

// ActivityService mocks the ingestion service.
type ActivityService struct {
	mock.Mock
}

func (m *ActivityService) BuildActivity(req model.ActivityRequest) (model.Activity, error) {
	args := m.Called(req)
	return args.Get(0).(model.Activity), args.Error(1)
}

func (m *ActivityService) ProcessActivity(ctx context.Context, activity model.Activity) (model.ActivityResult, error) {
	args := m.Called(ctx, activity)
	return args.Get(0).(model.ActivityResult), args.Error(1)
}
