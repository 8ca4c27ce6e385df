package sqlite

import (
	"fmt"
	"time"
)

// timeLayout is how timestamps are stored: RFC3339 TEXT in UTC.
// SQLite has no native datetime type.
const timeLayout = "2006-01-02T15:04:05.999999999Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseRFC3339 parses the timestamp strings stored in SQLite.
func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("orderlog: parse time %q: %w", s, err)
	}
	return t, nil
}
