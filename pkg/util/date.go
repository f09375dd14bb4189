package util

import (
	"strconv"
	"time"
)

// DateLayout is the wire layout of trade and filing dates.
const DateLayout = "2006-01-02"

// ParseDate tries YYYY-MM-DD, RFC3339, RFC3339Nano and unix seconds. Returns (t, true) if any worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{DateLayout, time.RFC3339, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseDateDefault parses a date or returns def if empty/invalid.
func ParseDateDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return def
}

// DaysBefore returns the YYYY-MM-DD date n days before now.
func DaysBefore(now time.Time, n int) string {
	return now.AddDate(0, 0, -n).Format(DateLayout)
}

// DaysSince returns whole days elapsed between date and now, or -1 when the
// date cannot be parsed.
func DaysSince(date string, now time.Time) int {
	t, ok := ParseDate(date)
	if !ok {
		return -1
	}
	return int(now.Sub(t).Hours() / 24)
}
