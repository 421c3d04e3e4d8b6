package service

import (
	"context"
	"fmt"
	"strings"

	"discord-strada/internal/model"
	"discord-strada/internal/repository"
)

// Stats summarizes a team's activities per activity type: totals only,
// no ranking.
type Stats struct {
	activities repository.ActivityRepository
}

// NewStats builds the stats engine.
func NewStats(activities repository.ActivityRepository) *Stats {
	return &Stats{activities: activities}
}

// Aggregate groups the team's activities by type, summing every
// metric, optionally scoped to a channel. Rows come back ordered by
// activity count, busiest type first.
func (s *Stats) Aggregate(ctx context.Context, team *model.Team, channelID string) ([]model.ActivitySummary, error) {
	return s.activities.SumByType(ctx, team.ID, channelID)
}

// ToDiscord renders one embed per activity type, or a plain message
// when there is nothing to show.
func (s *Stats) ToDiscord(summaries []model.ActivitySummary, team *model.Team) any {
	if len(summaries) == 0 {
		return "There are no activities in this channel."
	}

	embeds := make([]model.Embed, 0, len(summaries))
	for _, summary := range summaries {
		embeds = append(embeds, summaryEmbed(summary, team.Units))
	}
	return &model.MessagePayload{Embeds: embeds}
}

func summaryEmbed(summary model.ActivitySummary, units string) model.Embed {
	title := summary.Type
	if emoji := model.ActivityEmoji(summary.Type); emoji != "" {
		title = fmt.Sprintf("%s %s", summary.Type, emoji)
	}

	athletes := "athlete"
	if summary.AthleteCount != 1 {
		athletes = "athletes"
	}

	fields := []model.EmbedField{
		{Name: "Activities", Value: fmt.Sprintf("%d", summary.Count), Inline: true},
		{Name: "Athletes", Value: fmt.Sprintf("%d %s", summary.AthleteCount, athletes), Inline: true},
		{Name: "Distance", Value: model.FormatMetricValue(model.MetricDistance, summary.Distance, units), Inline: true},
		{Name: "Moving time", Value: model.FormatMetricValue(model.MetricMovingTime, summary.MovingTime, units), Inline: true},
		{Name: "Elapsed time", Value: model.FormatMetricValue(model.MetricElapsedTime, summary.ElapsedTime, units), Inline: true},
		{Name: "Elevation", Value: model.FormatMetricValue(model.MetricElevation, summary.TotalElevationGain, units), Inline: true},
	}
	if summary.PRCount > 0 {
		fields = append(fields, model.EmbedField{
			Name: "PRs", Value: fmt.Sprintf("%d", summary.PRCount), Inline: true,
		})
	}
	if summary.Calories > 0 {
		fields = append(fields, model.EmbedField{
			Name: "Calories", Value: model.FormatMetricValue(model.MetricCalories, summary.Calories, units), Inline: true,
		})
	}

	return model.Embed{Title: strings.TrimSpace(title), Fields: fields}
}
