package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"discord-strada/internal/model"
	"discord-strada/internal/repository"
)

// Leaderboard ranks a team's summed activity metrics by (user,
// activity type). Rows are recomputed on every call; nothing is
// cached or persisted.
type Leaderboard struct {
	activities repository.ActivityRepository
	teams      repository.TeamRepository
}

// NewLeaderboard builds the aggregation engine.
func NewLeaderboard(activities repository.ActivityRepository, teams repository.TeamRepository) *Leaderboard {
	return &Leaderboard{activities: activities, teams: teams}
}

// Aggregate validates the filter, runs the grouping query, and assigns
// dense ranks by descending summed value. Ties share a rank and the
// next distinct value's rank is exactly one more. Zero-value rows are
// ranked here and only dropped at render time, which keeps rank
// numbers stable across identical queries.
func (l *Leaderboard) Aggregate(ctx context.Context, team *model.Team, filter model.LeaderboardFilter) ([]model.LeaderboardRow, error) {
	if filter.Metric == "" {
		return nil, model.NewUserError(fmt.Sprintf("Missing value. Expected one of %s.", model.MetricChoices()))
	}
	metric, ok := model.ParseMetric(string(filter.Metric))
	if !ok {
		return nil, model.NewUserError(fmt.Sprintf("Invalid value: %s. Expected one of %s.", filter.Metric, model.MetricChoices()))
	}
	filter.Metric = metric
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, model.NewUserError(fmt.Sprintf(
			"Sorry, %s is after %s.",
			filter.StartDate.Format("January 2, 2006"),
			filter.EndDate.Format("January 2, 2006"),
		))
	}

	sums, err := l.activities.SumByUserAndType(ctx, team.ID, filter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sums, func(i, j int) bool {
		if sums[i].Value != sums[j].Value {
			return sums[i].Value > sums[j].Value
		}
		if sums[i].UserID != sums[j].UserID {
			return sums[i].UserID < sums[j].UserID
		}
		return sums[i].ActivityType < sums[j].ActivityType
	})

	rows := make([]model.LeaderboardRow, 0, len(sums))
	rank := 0
	var prev float64
	for i, s := range sums {
		if i == 0 || s.Value != prev {
			rank++
			prev = s.Value
		}
		rows = append(rows, model.LeaderboardRow{
			Rank:         rank,
			UserID:       s.UserID,
			ActivityType: s.ActivityType,
			Value:        s.Value,
		})
	}
	return rows, nil
}

// ToText renders ranked rows, skipping zero-value rows. An empty board
// yields a message naming the metric (unless counting) and the active
// date range.
func (l *Leaderboard) ToText(ctx context.Context, team *model.Team, rows []model.LeaderboardRow, filter model.LeaderboardFilter) (string, error) {
	names, err := l.userNames(ctx, team.ID)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, row := range rows {
		if row.Value <= 0 {
			continue
		}
		name := names[row.UserID]
		if name == "" {
			name = row.UserID
		}
		parts := []string{fmt.Sprintf("%d:", row.Rank), name}
		if medal := model.RankMedal(row.Rank); medal != "" {
			parts = append(parts, medal)
		}
		parts = append(parts, model.FormatMetricValue(filter.Metric, row.Value, team.Units))
		lines = append(lines, strings.Join(parts, " "))
	}

	if len(lines) == 0 {
		return emptyLeaderboardMessage(filter), nil
	}
	return strings.Join(lines, "\n"), nil
}

func (l *Leaderboard) userNames(ctx context.Context, teamID string) (map[string]string, error) {
	users, err := l.teams.ListUsers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.UserID] = u.UserName
	}
	return names, nil
}

func emptyLeaderboardMessage(filter model.LeaderboardFilter) string {
	var b strings.Builder
	b.WriteString("There are no activities")
	if filter.Metric != model.MetricCount {
		b.WriteString(" with ")
		b.WriteString(filter.Metric.Spaced())
	}
	const dateFormat = "January 2, 2006"
	switch {
	case filter.StartDate != nil && filter.EndDate != nil:
		fmt.Fprintf(&b, " between %s and %s", filter.StartDate.Format(dateFormat), filter.EndDate.Format(dateFormat))
	case filter.StartDate != nil:
		fmt.Fprintf(&b, " after %s", filter.StartDate.Format(dateFormat))
	case filter.EndDate != nil:
		fmt.Fprintf(&b, " before %s", filter.EndDate.Format(dateFormat))
	}
	b.WriteString(" in this channel.")
	return b.String()
}
