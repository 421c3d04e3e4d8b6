package model

import "time"

// LeaderboardFilter selects and bounds a leaderboard aggregation.
// Invariant: when both bounds are set, StartDate <= EndDate.
type LeaderboardFilter struct {
	Metric    Metric
	StartDate *time.Time
	EndDate   *time.Time
	ChannelID string
}

// MetricSum is one grouped row out of the activity store: the summed
// metric for a (user, activity type) pair.
type MetricSum struct {
	UserID       string
	ActivityType string
	Value        float64
}

// LeaderboardRow is a ranked entry. Ranks are 1-based and dense: ties
// share a rank and the next distinct value is exactly one more. Rows
// are recomputed on every aggregation and never persisted.
type LeaderboardRow struct {
	Rank         int
	UserID       string
	ActivityType string
	Value        float64
}

// RankMedal returns the medal for podium ranks, empty otherwise.
func RankMedal(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return ""
	}
}
