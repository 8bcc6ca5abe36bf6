package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/marcus/taskboard/internal/scheduler"
)

// nowFunc is replaced in tests.
var nowFunc = time.Now

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimeInput accepts now, today, yesterday and tomorrow (optionally
// followed by HH:MM), the layouts above, and cron:<expr> for the next
// occurrence of a cron expression.
func parseTimeInput(input string, loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(input)
	value := strings.ToLower(raw)
	now := nowFunc().In(loc)

	if expr, ok := strings.CutPrefix(raw, "cron:"); ok {
		next, err := scheduler.Next(expr, now)
		if err != nil {
			return time.Time{}, err
		}
		return next, nil
	}

	day, clock, hasClock := strings.Cut(value, " ")
	var base time.Time
	switch day {
	case "now":
		if !hasClock {
			return now, nil
		}
		base = now
	case "today":
		base = now
	case "yesterday":
		base = now.AddDate(0, 0, -1)
	case "tomorrow":
		base = now.AddDate(0, 0, 1)
	}
	if !base.IsZero() {
		tod := scheduler.TimeOfDay{}
		if hasClock {
			parsed, err := scheduler.ParseTimeOfDay(clock)
			if err != nil {
				return time.Time{}, err
			}
			tod = parsed
		}
		return tod.On(base), nil
	}

	for _, layout := range timeLayouts {
		if layout == time.RFC3339 {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed.In(loc), nil
			}
			continue
		}
		if parsed, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD [HH:MM], RFC3339, today/tomorrow [HH:MM] or cron:<expr>)", input)
}
