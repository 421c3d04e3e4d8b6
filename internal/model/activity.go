package model

import (
	"fmt"
	"strings"
	"time"
)

// Metric is a measurable activity dimension for leaderboards.
type Metric string

const (
	MetricCount       Metric = "count"
	MetricDistance    Metric = "distance"
	MetricMovingTime  Metric = "moving_time"
	MetricElapsedTime Metric = "elapsed_time"
	MetricElevation   Metric = "elevation"
	MetricPRCount     Metric = "pr_count"
	MetricCalories    Metric = "calories"
)

// Metrics lists every measurable value in match order. The expression
// parser tries them in this order, longest effective match first by
// construction of the vocabulary.
var Metrics = []Metric{
	MetricCount,
	MetricDistance,
	MetricMovingTime,
	MetricElapsedTime,
	MetricElevation,
	MetricPRCount,
	MetricCalories,
}

// Spaced returns the human form of the metric name ("moving time").
func (m Metric) Spaced() string {
	return strings.ReplaceAll(string(m), "_", " ")
}

// ParseMetric matches a metric name in either spaced or underscored
// form, case-insensitively.
func ParseMetric(s string) (Metric, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
	for _, m := range Metrics {
		if normalized == string(m) {
			return m, true
		}
	}
	return "", false
}

// MetricChoices renders the vocabulary for error messages:
// "count, distance, ... or calories".
func MetricChoices() string {
	names := make([]string, len(Metrics))
	for i, m := range Metrics {
		names[i] = string(m)
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// ActivityRequest is the inbound activity webhook payload.
type ActivityRequest struct {
	ActivityID         string  `json:"activity_id"`
	TeamID             string  `json:"team_id"`
	UserID             string  `json:"user_id"`
	ChannelID          string  `json:"channel_id"`
	Type               string  `json:"type"`
	Name               string  `json:"name"`
	Distance           float64 `json:"distance"`
	MovingTime         float64 `json:"moving_time"`
	ElapsedTime        float64 `json:"elapsed_time"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
	PRCount            uint32  `json:"pr_count"`
	Calories           float64 `json:"calories"`
	Private            bool    `json:"private"`
	Visibility         string  `json:"visibility"`
	StartDate          int64   `json:"start_date"`
}

// Activity is the domain model persisted in the activity store.
// Distances and elevation are meters, times are seconds.
type Activity struct {
	IdempotencyKey     string
	ActivityID         string
	TeamID             string
	UserID             string
	ChannelID          string
	Type               string
	Name               string
	Distance           float64
	MovingTime         float64
	ElapsedTime        float64
	TotalElevationGain float64
	PRCount            uint32
	Calories           float64
	Private            bool
	Visibility         string
	StartDate          time.Time
}

// ActivityResult reports the outcome of an ingestion request.
type ActivityResult struct {
	Status string `json:"status"`
}

// ActivitySummary is one per-type stats block: totals across a team,
// optionally scoped to a channel.
type ActivitySummary struct {
	Type               string
	Count              uint64
	AthleteCount       uint64
	Distance           float64
	MovingTime         float64
	ElapsedTime        float64
	TotalElevationGain float64
	PRCount            uint64
	Calories           float64
}

// activityEmoji maps well-known Strava activity types to an emoji used
// when rendering summaries. Unknown types render without one.
var activityEmoji = map[string]string{
	"Run":             "🏃",
	"Ride":            "🚴",
	"Swim":            "🏊",
	"Walk":            "🚶",
	"Hike":            "🥾",
	"VirtualRide":     "🚴",
	"VirtualRun":      "🏃",
	"AlpineSki":       "⛷️",
	"NordicSki":       "⛷️",
	"IceSkate":        "⛸️",
	"RockClimbing":    "🧗",
	"Rowing":          "🚣",
	"Kayaking":        "🚣",
	"WeightTraining":  "🏋️",
	"Workout":         "💪",
	"Yoga":            "🧘",
	"Golf":            "🏌️",
	"Soccer":          "⚽",
	"InlineSkate":     "🛼",
	"EBikeRide":       "🚴",
	"StandUpPaddling": "🏄",
}

// ActivityEmoji returns the emoji for an activity type, if any.
func ActivityEmoji(activityType string) string {
	return activityEmoji[activityType]
}

// Units a team displays activity values in.
const (
	UnitsImperial = "mi"
	UnitsMetric   = "km"
	UnitsBoth     = "both"
)

const (
	metersPerMile = 1609.344
	feetPerMeter  = 3.28084
)

// FormatMetricValue renders a summed metric value the way the team
// displays it. The mapping is explicit per metric; no reflection.
func FormatMetricValue(metric Metric, value float64, units string) string {
	switch metric {
	case MetricCount, MetricPRCount:
		return fmt.Sprintf("%d", int64(value))
	case MetricDistance:
		return formatDistance(value, units)
	case MetricMovingTime, MetricElapsedTime:
		return formatDuration(value)
	case MetricElevation:
		return formatElevation(value, units)
	case MetricCalories:
		return fmt.Sprintf("%.1fcal", value)
	default:
		return fmt.Sprintf("%g", value)
	}
}

func formatDistance(meters float64, units string) string {
	mi := fmt.Sprintf("%.2fmi", meters/metersPerMile)
	km := fmt.Sprintf("%.2fkm", meters/1000)
	switch units {
	case UnitsMetric:
		return km
	case UnitsBoth:
		return mi + " " + km
	default:
		return mi
	}
}

func formatElevation(meters float64, units string) string {
	ft := fmt.Sprintf("%.1fft", meters*feetPerMeter)
	m := fmt.Sprintf("%.1fm", meters)
	switch units {
	case UnitsMetric:
		return m
	case UnitsBoth:
		return ft + " " + m
	default:
		return ft
	}
}

func formatDuration(seconds float64) string {
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
