package sqlite

import (
	"fmt"
	"time"
)

// timeLayout is how timestamps are stored: RFC3339 TEXT in UTC.
// SQLite has no native datetime type.
const timeLayout = "2006-01-02T15:04:05.999999999Z"

// dateLayout is how plain dates (expiration_date) are stored.
const dateLayout = "2006-01-02"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", s, err)
	}
	return t, nil
}
