package domain

import "time"

// Session is one interval of activity on a timer. A nil End means the
// session is still running.
type Session struct {
	ID        string
	TimerID   string
	Start     time.Time
	End       *time.Time
	CreatedAt time.Time
}

// Running reports whether the session has not been stopped yet.
func (s *Session) Running() bool {
	return s.End == nil
}

// Duration returns the elapsed time of the session, treating a running
// session as ending at now. It never returns a negative value.
func (s *Session) Duration(now time.Time) time.Duration {
	end := now
	if s.End != nil {
		end = *s.End
	}
	d := end.Sub(s.Start)
	if d < 0 {
		return 0
	}
	return d
}

// Close sets the end of a running session. at must be strictly after Start.
func (s *Session) Close(at time.Time) error {
	if s.End != nil {
		return ErrNotRunning
	}
	at = Truncate(at)
	if !at.After(s.Start) {
		return &StopTimeError{Start: s.Start, Stop: at}
	}
	s.End = &at
	return nil
}

// Truncate normalizes an instant to whole epoch seconds in UTC, the
// precision sessions are stored at.
func Truncate(t time.Time) time.Time {
	return time.Unix(t.Unix(), 0).UTC()
}
