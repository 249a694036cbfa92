package util

import (
	"fmt"
	"strings"
	"time"
)

// isoLayouts are the layouts the planner API is known to send for date values
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISODate parses an ISO date or date-time string and returns the UTC
// calendar date it falls on. Values without an offset are read as UTC.
func ParseISODate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return TruncateToUTCDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO date %q", value)
}

// TruncateToUTCDate drops the time of day after converting to UTC
func TruncateToUTCDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// HorizonYears returns referenceYear+offset for each offset, in order
func HorizonYears(referenceYear int, offsets []int) []int {
	years := make([]int, 0, len(offsets))
	for _, offset := range offsets {
		years = append(years, referenceYear+offset)
	}
	return years
}
