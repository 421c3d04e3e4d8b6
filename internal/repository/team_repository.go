package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"discord-strada/internal/model"
)

// TeamRepository defines relational operations for teams, users and
// clubs. It satisfies discord.TeamStore.
type TeamRepository interface {
	FindTeamByGuildID(ctx context.Context, guildID string) (*model.Team, error)
	UpdateTeamSettings(ctx context.Context, team *model.Team) error

	// FindOrCreateUser auto-provisions a user record on first
	// interaction in a channel.
	FindOrCreateUser(ctx context.Context, team *model.Team, userID, channelID, userName string) (*model.User, error)
	FindTeamUser(ctx context.Context, teamID, userID string) (*model.User, error)
	UpdateUserSettings(ctx context.Context, user *model.User) error
	DisconnectUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context, teamID string) ([]model.User, error)

	ListClubs(ctx context.Context, teamID, channelID string) ([]model.Club, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository creates a TeamRepository backed by PostgreSQL.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

const teamColumns = `
	id, guild_id, guild_name, guild_owner_id, units, default_leaderboard,
	retention_days, subscribed, subscribed_at, subscription_expired_at,
	stripe_customer_id, created_at
`

func scanTeam(row pgx.Row) (*model.Team, error) {
	var t model.Team
	err := row.Scan(
		&t.ID,
		&t.GuildID,
		&t.GuildName,
		&t.GuildOwnerID,
		&t.Units,
		&t.DefaultLeaderboard,
		&t.RetentionDays,
		&t.Subscribed,
		&t.SubscribedAt,
		&t.SubscriptionExpiredAt,
		&t.StripeCustomerID,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) FindTeamByGuildID(ctx context.Context, guildID string) (*model.Team, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT"+teamColumns+"FROM teams WHERE guild_id = $1", guildID)
	team, err := scanTeam(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team by guild_id: %w", err)
	}
	return team, nil
}

func (r *teamRepository) UpdateTeamSettings(ctx context.Context, team *model.Team) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE teams
		SET units = $2, default_leaderboard = $3, retention_days = $4
		WHERE id = $1`,
		team.ID, team.Units, team.DefaultLeaderboard, team.RetentionDays,
	)
	if err != nil {
		return fmt.Errorf("update team settings: %w", err)
	}
	return nil
}

const userColumns = `
	id, team_id, user_id, channel_id, user_name, strava_athlete_id,
	sync_activities, private_activities, followers_only_activities, created_at
`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.TeamID,
		&u.UserID,
		&u.ChannelID,
		&u.UserName,
		&u.StravaAthleteID,
		&u.SyncActivities,
		&u.PrivateActivities,
		&u.FollowersOnlyActivities,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *teamRepository) FindOrCreateUser(ctx context.Context, team *model.Team, userID, channelID, userName string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT"+userColumns+"FROM users WHERE team_id = $1 AND user_id = $2 AND channel_id = $3",
		team.ID, userID, channelID)
	user, err := scanUser(row)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	row = r.pool.QueryRow(ctx, `
		INSERT INTO users (id, team_id, user_id, channel_id, user_name, sync_activities, followers_only_activities)
		VALUES ($1, $2, $3, $4, $5, TRUE, TRUE)
		ON CONFLICT (team_id, user_id, channel_id) DO UPDATE SET user_name = EXCLUDED.user_name
		RETURNING`+userColumns,
		uuid.NewString(), team.ID, userID, channelID, userName)
	user, err = scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (r *teamRepository) FindTeamUser(ctx context.Context, teamID, userID string) (*model.User, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT"+userColumns+"FROM users WHERE team_id = $1 AND user_id = $2 ORDER BY created_at LIMIT 1",
		teamID, userID)
	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find team user: %w", err)
	}
	return user, nil
}

func (r *teamRepository) UpdateUserSettings(ctx context.Context, user *model.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET sync_activities = $2, private_activities = $3, followers_only_activities = $4
		WHERE id = $1`,
		user.ID, user.SyncActivities, user.PrivateActivities, user.FollowersOnlyActivities,
	)
	if err != nil {
		return fmt.Errorf("update user settings: %w", err)
	}
	return nil
}

func (r *teamRepository) DisconnectUser(ctx context.Context, user *model.User) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE users SET strava_athlete_id = '' WHERE id = $1", user.ID)
	if err != nil {
		return fmt.Errorf("disconnect user: %w", err)
	}
	user.StravaAthleteID = ""
	return nil
}

func (r *teamRepository) ListUsers(ctx context.Context, teamID string) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT"+userColumns+"FROM users WHERE team_id = $1", teamID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *teamRepository) ListClubs(ctx context.Context, teamID, channelID string) ([]model.Club, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, team_id, channel_id, name, strava_id, url
		FROM clubs WHERE team_id = $1 AND channel_id = $2`,
		teamID, channelID)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	var clubs []model.Club
	for rows.Next() {
		var c model.Club
		if err := rows.Scan(&c.ID, &c.TeamID, &c.ChannelID, &c.Name, &c.StravaID, &c.URL); err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clubs: %w", err)
	}
	return clubs, nil
}
