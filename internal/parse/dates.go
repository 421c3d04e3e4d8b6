package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// span is a half-open-ish range: first is the first moment of the
// expression's period and last is the first moment after it, so month
// expressions anchor their "last" to the start of the following month.
type span struct {
	first time.Time
	last  time.Time
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	monthYearPattern = regexp.MustCompile(`^([a-zA-Z]+)\s+(\d{4})$`)
	monthDayPattern  = regexp.MustCompile(`^([a-zA-Z]+)\s+(\d{1,2}),?\s+(\d{4})$`)
	isoDayPattern    = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	isoMonthPattern  = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
)

var pointLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// parseSpanOrTime resolves a natural date expression. It returns a
// span for period expressions (a month, a day, "last week"), a point
// for expressions with a time of day, and ok=false when the text is
// not understood. Bare month names resolve past-biased: "september"
// in March means last year's September.
func (p *Parser) parseSpanOrTime(text string) (span, *time.Time, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	now := p.now().In(p.loc)

	if sp, ok := p.relativeSpan(text, now); ok {
		return sp, nil, true
	}

	if month, ok := months[text]; ok {
		year := now.Year()
		if month > now.Month() {
			year--
		}
		return p.monthSpan(year, month), nil, true
	}

	if m := monthYearPattern.FindStringSubmatch(text); m != nil {
		if month, ok := months[m[1]]; ok {
			year, _ := strconv.Atoi(m[2])
			return p.monthSpan(year, month), nil, true
		}
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		if month, ok := months[m[1]]; ok {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			return p.daySpan(year, month, day), nil, true
		}
	}

	if m := isoDayPattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return p.daySpan(year, time.Month(month), day), nil, true
	}

	if m := isoMonthPattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return p.monthSpan(year, time.Month(month)), nil, true
	}

	for _, layout := range pointLayouts {
		if t, err := time.ParseInLocation(layout, text, p.loc); err == nil {
			return span{}, &t, true
		}
	}

	return span{}, nil, false
}

func (p *Parser) relativeSpan(text string, now time.Time) (span, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.loc)
	switch text {
	case "today":
		return span{first: today, last: today.AddDate(0, 0, 1)}, true
	case "yesterday":
		return span{first: today.AddDate(0, 0, -1), last: today}, true
	case "this week":
		start := weekStart(today)
		return span{first: start, last: start.AddDate(0, 0, 7)}, true
	case "last week":
		start := weekStart(today).AddDate(0, 0, -7)
		return span{first: start, last: start.AddDate(0, 0, 7)}, true
	case "this month":
		return p.monthSpan(now.Year(), now.Month()), true
	case "last month":
		prev := today.AddDate(0, -1, 0)
		return p.monthSpan(prev.Year(), prev.Month()), true
	case "this year":
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, p.loc)
		return span{first: start, last: start.AddDate(1, 0, 0)}, true
	case "last year":
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, p.loc)
		return span{first: start, last: start.AddDate(1, 0, 0)}, true
	}
	return span{}, false
}

func (p *Parser) monthSpan(year int, month time.Month) span {
	first := time.Date(year, month, 1, 0, 0, 0, 0, p.loc)
	return span{first: first, last: first.AddDate(0, 1, 0)}
}

func (p *Parser) daySpan(year int, month time.Month, day int) span {
	first := time.Date(year, month, day, 0, 0, 0, 0, p.loc)
	return span{first: first, last: first.AddDate(0, 0, 1)}
}

// weekStart is the preceding Monday (or the day itself).
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
