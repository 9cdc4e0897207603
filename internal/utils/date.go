package utils

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for free-form dates, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"02.01.2006",
	"01/02/2006",
}

// Layouts accepted for free-form clock times, tried in order.
var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseDate parses a free-form date string in the given location.
// Relative keywords "today" and "tomorrow" are resolved against now.
func ParseDate(str string, loc *time.Location, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(str)

	switch strings.ToLower(trimmed) {
	case "today":
		return StartCurrentDay(now.In(loc)), nil
	case "tomorrow":
		return StartNextDay(now.In(loc)), nil
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("failed to parse date %q", str)
}

// ParseClock parses a free-form clock time, returning hour and minute.
func ParseClock(str string) (int, int, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(str))

	for _, layout := range clockLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Hour(), parsed.Minute(), nil
		}
	}

	return 0, 0, fmt.Errorf("failed to parse time %q", str)
}

// StartCurrentDay returns midnight of the same calendar day, keeping
// the location.
func StartCurrentDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay returns midnight of the following calendar day, keeping
// the location.
func StartNextDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, next.Location())
}
