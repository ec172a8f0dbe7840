package formatter

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatDuration renders whole seconds as "2h 05m", "45m 10s" or "30s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Since renders t relative to now, e.g. "2 hours ago".
func Since(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// Stamp formats an instant in loc for tables.
func Stamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04:05")
}

// Clock formats only the wall-clock part of t in loc.
func Clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("15:04:05")
}

// Day formats a day bucket, e.g. "Mon 2025-06-02".
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon 2006-01-02")
}
