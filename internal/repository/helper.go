package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a timestamp string in RFC3339, "2006-01-02 15:04:05"
// (SQLite CURRENT_TIMESTAMP), or "2006-01-02" format.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, str); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", str)
}

// FormatTime renders a timestamp the way this schema stores it. Sub-second
// precision is kept so a persisted timestamp reads back Equal to the value
// that was written.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
