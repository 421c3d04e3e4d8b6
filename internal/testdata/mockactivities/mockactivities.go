package mockactivities

import (
	"context"

	"discord-strada/internal/model"
	"discord-strada/internal/repository"

	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.ActivityRepository = &Repository{}

func (m *Repository) CreateBatch(ctx context.Context, activities []model.Activity) error {
	args := m.Called(ctx, activities)
	return args.Error(0)
}

func (m *Repository) SumByUserAndType(ctx context.Context, teamID string, filter model.LeaderboardFilter) ([]model.MetricSum, error) {
	args := m.Called(ctx, teamID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MetricSum), args.Error(1)
}

func (m *Repository) SumByType(ctx context.Context, teamID, channelID string) ([]model.ActivitySummary, error) {
	args := m.Called(ctx, teamID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ActivitySummary), args.Error(1)
}
