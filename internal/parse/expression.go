// Package parse turns free-text leaderboard expressions like
// "moving time since September 2023" into structured filters. The
// grammar is forgiving on purpose: the platform UI offers a single
// text field for metric and range combined.
package parse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"discord-strada/internal/model"
)

var (
	yearPattern    = regexp.MustCompile(`^\d{2,4}$`)
	betweenPattern = regexp.MustCompile(`(?i)^between\s`)
	sincePattern   = regexp.MustCompile(`(?i)^since\s`)
	andSplitter    = regexp.MustCompile(`(?i)\s+and\s+`)
)

// Parser parses leaderboard range expressions. The clock and location
// are injectable so tests can freeze time.
type Parser struct {
	now func() time.Time
	loc *time.Location
}

// NewParser returns a parser on UTC wall-clock time.
func NewParser() *Parser {
	return &Parser{now: time.Now, loc: time.UTC}
}

// dateAnchor picks which moment of a span a date expression resolves
// to.
type dateAnchor int

const (
	anchorFirst dateAnchor = iota
	anchorLast
)

// Parse builds a filter from an expression. An absent metric defaults
// to distance; an empty remainder leaves the range unbounded.
func (p *Parser) Parse(text string) (model.LeaderboardFilter, error) {
	filter := model.LeaderboardFilter{Metric: model.MetricDistance}
	text = strings.TrimSpace(text)

	for _, metric := range model.Metrics {
		if matchesMetric(text, metric) {
			filter.Metric = metric
			text = strings.TrimSpace(text[len(metric):])
			break
		}
	}

	if text == "" {
		return filter, nil
	}

	if betweenPattern.MatchString(text) {
		rest := strings.TrimSpace(text[len("between"):])
		dates := andSplitter.Split(rest, -1)
		if len(dates) != 2 {
			return filter, model.NewUserError(fmt.Sprintf("Sorry, I don't understand '%s'.", rest))
		}
		start, err := p.parseDate(dates[0], anchorFirst)
		if err != nil {
			return filter, err
		}
		end, err := p.parseDate(dates[1], anchorLast)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &start
		filter.EndDate = &end
	} else {
		if sincePattern.MatchString(text) {
			text = strings.TrimSpace(text[len("since"):])
			now := p.now().In(p.loc)
			filter.EndDate = &now
		}

		switch {
		case text == "":
			// bare "since" leaves only the end bound
		case yearPattern.MatchString(text):
			start := p.yearStart(text)
			filter.StartDate = &start
			if filter.EndDate == nil {
				end := endOfYear(start)
				filter.EndDate = &end
			}
		default:
			sp, point, ok := p.parseSpanOrTime(text)
			switch {
			case !ok:
				return filter, model.NewUserError(fmt.Sprintf("Sorry, I don't understand '%s'.", text))
			case point != nil:
				filter.StartDate = point
			default:
				filter.StartDate = &sp.first
				if filter.EndDate == nil {
					filter.EndDate = &sp.last
				}
			}
		}
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return filter, model.NewUserError(fmt.Sprintf(
			"Sorry, %s is after %s.",
			filter.StartDate.Format("January 2, 2006"),
			filter.EndDate.Format("January 2, 2006"),
		))
	}

	return filter, nil
}

// matchesMetric checks for the metric at the head of the expression in
// either its spaced or underscored form, followed by a break or the
// end. Both forms have the same length, so the caller can slice by the
// metric name length either way.
func matchesMetric(text string, metric model.Metric) bool {
	if len(text) < len(metric) {
		return false
	}
	head := strings.ToLower(text[:len(metric)])
	if head != string(metric) && head != metric.Spaced() {
		return false
	}
	return len(text) == len(metric) || text[len(metric)] == ' '
}

// parseDate resolves a single date expression to a moment: bare years
// always resolve to January 1 regardless of anchor, spans resolve to
// their first or last moment, points stand as-is.
func (p *Parser) parseDate(text string, anchor dateAnchor) (time.Time, error) {
	text = strings.TrimSpace(text)
	if yearPattern.MatchString(text) {
		return p.yearStart(text), nil
	}
	sp, point, ok := p.parseSpanOrTime(text)
	if !ok {
		return time.Time{}, model.NewUserError(fmt.Sprintf("Sorry, I don't understand '%s'.", text))
	}
	if point != nil {
		return *point, nil
	}
	if anchor == anchorLast {
		return sp.last, nil
	}
	return sp.first, nil
}

// yearStart turns a 2-4 digit year into January 1 of that year;
// two-digit years land in the 2000s.
func (p *Parser) yearStart(text string) time.Time {
	year := 0
	for _, r := range text {
		year = year*10 + int(r-'0')
	}
	if year < 100 {
		year += 2000
	}
	return time.Date(year, time.January, 1, 0, 0, 0, 0, p.loc)
}

func endOfYear(start time.Time) time.Time {
	return time.Date(start.Year(), time.December, 31, 23, 59, 59, 0, start.Location())
}
