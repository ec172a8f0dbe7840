package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var (
	dateTimeLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
	clockLayouts = []string{"15:04:05", "15:04"}
)

// ParseTime reads a user-entered instant. Accepted forms:
//
//	now                      the current time
//	@1717318800              epoch seconds
//	-90m, +1h30m             offset from now
//	2025-06-02T09:00:00Z     RFC 3339
//	2025-06-02 09:00[:00]    date and time in loc
//	2025-06-02               midnight in loc
//	09:00[:00]               that time today in loc
func ParseTime(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}

	switch {
	case s == "":
		return time.Time{}, fmt.Errorf("empty time")
	case s == "now":
		return now, nil
	case strings.HasPrefix(s, "@"):
		secs, err := strconv.ParseInt(s[1:], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("epoch time %q: %w", s, err)
		}
		return time.Unix(secs, 0).UTC(), nil
	case s[0] == '-' || s[0] == '+':
		d, err := time.ParseDuration(s)
		if err != nil {
			return time.Time{}, fmt.Errorf("offset %q: %w", s, err)
		}
		return now.Add(d), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			y, m, d := now.In(loc).Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (try RFC 3339, \"YYYY-MM-DD HH:MM\", \"HH:MM\", \"@epoch\" or \"-90m\")", s)
}

// timeValue is a pflag.Value holding a raw timestamp. Parsing is deferred
// to resolve so relative forms use the App clock and zone.
type timeValue struct {
	raw string
	set bool
}

var _ pflag.Value = (*timeValue)(nil)

func (v *timeValue) String() string { return v.raw }

func (v *timeValue) Type() string { return "time" }

// Set checks the syntax against the wall clock; the value itself is
// resolved later.
func (v *timeValue) Set(s string) error {
	if _, err := ParseTime(s, time.Now(), time.UTC); err != nil {
		return err
	}
	v.raw, v.set = s, true
	return nil
}

// resolve returns nil when the flag was not given.
func (v *timeValue) resolve(app *App) (*time.Time, error) {
	if !v.set {
		return nil, nil
	}
	t, err := ParseTime(v.raw, app.now(), app.loc())
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// resolveOr returns the parsed flag or fallback when unset.
func (v *timeValue) resolveOr(app *App, fallback time.Time) (time.Time, error) {
	t, err := v.resolve(app)
	if err != nil || t == nil {
		return fallback, err
	}
	return *t, nil
}
