package utils

import "time"

// TimestampLayout is the human-readable timestamp written to watchlist rows.
const TimestampLayout = "01-02-2006, 15:04:05"

// FormatTimestamp renders t in the watchlist row layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a watchlist row timestamp. A zero time is returned
// for empty or unparseable input; stored rows written by other clients may
// carry arbitrary text here.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
