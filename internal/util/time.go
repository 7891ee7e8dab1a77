package util

import (
	"fmt"
	"strings"
	"time"
)

// HourLayout is the canonical hour-resolution display format.
const HourLayout = "2006-01-02 15:04"

// All measurement timestamps share a single naive local clock; they are
// stored with the UTC location so hour arithmetic never crosses a DST
// boundary. No timezone conversion happens anywhere.

// HourOf constructs an hour-resolution timestamp from calendar components.
func HourOf(year, month, day, hour int) time.Time {
	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
}

// TruncateToHour drops the sub-hour part of a timestamp.
func TruncateToHour(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// HoursBetween returns the whole number of hours from a to b, rounded toward
// zero. Negative when b is before a.
func HoursBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Hour)
}

// ParseInstant parses a user-supplied instant and snaps it to the hour
// grid. A bare calendar date is treated as midnight of that date.
func ParseInstant(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	layouts := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02 15",
		"2006-01-02",
		"2006-01",
		"2006",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return TruncateToHour(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized instant %q (expected e.g. 2014-03-09 or 2014-03-09 15:00)", value)
}
