package mockteams

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
var _ repository.TeamRepository = &Repository{}

func (m *Repository) FindTeamByGuildID(ctx context.Context, guildID string) (*model.Team, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *Repository) UpdateTeamSettings(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *Repository) FindOrCreateUser(ctx context.Context, team *model.Team, userID, channelID, userName string) (*model.User, error) {
	args := m.Called(ctx, team, userID, channelID, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *Repository) FindTeamUser(ctx context.Context, teamID, userID string) (*model.User, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *Repository) UpdateUserSettings(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *Repository) DisconnectUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *Repository) ListUsers(ctx context.Context, teamID string) ([]model.User, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *Repository) ListClubs(ctx context.Context, teamID, channelID string) ([]model.Club, error) {
	args := m.Called(ctx, teamID, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Club), args.Error(1)
}
