package repository

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"discord-strada/internal/model"
)

// ActivityRepository defines activity-store operations. The store
// handles its own concurrency; re-ingesting the same activity is a
// no-op thanks to the idempotency key ordering.
type ActivityRepository interface {
	// CreateBatch inserts activities in one round trip.
	CreateBatch(ctx context.Context, activities []model.Activity) error

	// SumByUserAndType groups a team's activities by (user, type) and
	// sums the filter's metric, honoring channel and date bounds.
	SumByUserAndType(ctx context.Context, teamID string, filter model.LeaderboardFilter) ([]model.MetricSum, error)

	// SumByType groups a team's activities by type, summing every
	// metric, for the stats summary.
	SumByType(ctx context.Context, teamID, channelID string) ([]model.ActivitySummary, error)
}

type activityRepository struct {
	conn clickhouse.Conn
}

// NewActivityRepository creates an ActivityRepository backed by
// ClickHouse.
func NewActivityRepository(conn clickhouse.Conn) ActivityRepository {
	return &activityRepository{conn: conn}
}

const insertActivityQuery = `
	INSERT INTO activities (
		idempotency_key, activity_id, team_id, user_id, channel_id,
		type, name, distance, moving_time, elapsed_time,
		total_elevation_gain, pr_count, calories, private, visibility, start_date
	)
`

func (r *activityRepository) CreateBatch(ctx context.Context, activities []model.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertActivityQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, a := range activities {
		err := batch.Append(
			a.IdempotencyKey,
			a.ActivityID,
			a.TeamID,
			a.UserID,
			a.ChannelID,
			a.Type,
			a.Name,
			a.Distance,
			a.MovingTime,
			a.ElapsedTime,
			a.TotalElevationGain,
			a.PRCount,
			a.Calories,
			a.Private,
			a.Visibility,
			a.StartDate,
		)
		if err != nil {
			return fmt.Errorf("append activity %s: %w", a.ActivityID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// metricExpr maps a metric to its aggregation expression. Explicit per
// metric; count increments one per row, everything else sums a column.
func metricExpr(metric model.Metric) (string, error) {
	switch metric {
	case model.MetricCount:
		return "toFloat64(count())", nil
	case model.MetricDistance:
		return "sum(distance)", nil
	case model.MetricMovingTime:
		return "sum(moving_time)", nil
	case model.MetricElapsedTime:
		return "sum(elapsed_time)", nil
	case model.MetricElevation:
		return "sum(total_elevation_gain)", nil
	case model.MetricPRCount:
		return "toFloat64(sum(pr_count))", nil
	case model.MetricCalories:
		return "sum(calories)", nil
	default:
		return "", fmt.Errorf("unsupported metric: %s", metric)
	}
}

func (r *activityRepository) SumByUserAndType(ctx context.Context, teamID string, filter model.LeaderboardFilter) ([]model.MetricSum, error) {
	expr, err := metricExpr(filter.Metric)
	if err != nil {
		return nil, err
	}

	query := "SELECT user_id, type, " + expr + " AS value FROM activities WHERE team_id = ?"
	args := []any{teamID}
	if filter.ChannelID != "" {
		query += " AND channel_id = ?"
		args = append(args, filter.ChannelID)
	}
	if filter.StartDate != nil {
		query += " AND start_date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND start_date <= ?"
		args = append(args, *filter.EndDate)
	}
	query += " GROUP BY user_id, type"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query metric sums: %w", err)
	}
	defer rows.Close()

	var sums []model.MetricSum
	for rows.Next() {
		var s model.MetricSum
		if err := rows.Scan(&s.UserID, &s.ActivityType, &s.Value); err != nil {
			return nil, fmt.Errorf("scan metric sum: %w", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metric sums: %w", err)
	}
	return sums, nil
}

const sumByTypeQuery = `
	SELECT
		type,
		count() AS count,
		uniqExact(user_id) AS athlete_count,
		sum(distance) AS distance,
		sum(moving_time) AS moving_time,
		sum(elapsed_time) AS elapsed_time,
		sum(total_elevation_gain) AS total_elevation_gain,
		sum(pr_count) AS pr_count,
		sum(calories) AS calories
	FROM activities
	WHERE team_id = ?%s
	GROUP BY type
	ORDER BY count DESC
`

func (r *activityRepository) SumByType(ctx context.Context, teamID, channelID string) ([]model.ActivitySummary, error) {
	channelClause := ""
	args := []any{teamID}
	if channelID != "" {
		channelClause = " AND channel_id = ?"
		args = append(args, channelID)
	}

	rows, err := r.conn.Query(ctx, fmt.Sprintf(sumByTypeQuery, channelClause), args...)
	if err != nil {
		return nil, fmt.Errorf("query type sums: %w", err)
	}
	defer rows.Close()

	var summaries []model.ActivitySummary
	for rows.Next() {
		var s model.ActivitySummary
		err := rows.Scan(
			&s.Type,
			&s.Count,
			&s.AthleteCount,
			&s.Distance,
			&s.MovingTime,
			&s.ElapsedTime,
			&s.TotalElevationGain,
			&s.PRCount,
			&s.Calories,
		)
		if err != nil {
			return nil, fmt.Errorf("scan type sum: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate type sums: %w", err)
	}
	return summaries, nil
}
