package database

import "time"

// GetToday returns today's date as YYYY-MM-DD.
func GetToday() string {
	return time.Now().Format("2006-01-02")
}

// FormatTimestamp formats an RFC3339 timestamp for display, e.g.
// "18 Oct 2026, 14:05". Unparseable input is returned unchanged.
func FormatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2 Jan 2006, 15:04")
}

// FormatShortDate formats an RFC3339 timestamp as "18 Oct".
func FormatShortDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2 Jan")
}
