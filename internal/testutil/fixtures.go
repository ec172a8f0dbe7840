package testutil

import (
	"time"

	"github.com/alexanderramin/tock/internal/domain"
	"github.com/google/uuid"
)

// Epoch is the reference instant used by fixtures: 2025-06-02 09:00 UTC,
// a Monday.
var Epoch = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

// Timer options
type TimerOption func(*domain.Timer)

func WithColor(c string) TimerOption {
	return func(t *domain.Timer) {
		t.Color = c
	}
}

func NewTestTimer(name string, opts ...TimerOption) *domain.Timer {
	t := &domain.Timer{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     domain.DefaultColor,
		CreatedAt: Epoch,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Session options
type SessionOption func(*domain.Session)

func WithID(id string) SessionOption {
	return func(s *domain.Session) {
		s.ID = id
	}
}

// WithEnd closes the session at end.
func WithEnd(end time.Time) SessionOption {
	return func(s *domain.Session) {
		e := domain.Truncate(end)
		s.End = &e
	}
}

// WithDuration closes the session d after its start.
func WithDuration(d time.Duration) SessionOption {
	return func(s *domain.Session) {
		e := s.Start.Add(d)
		s.End = &e
	}
}

// NewTestSession builds a running session for timerID starting at start.
func NewTestSession(timerID string, start time.Time, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:        uuid.New().String(),
		TimerID:   timerID,
		Start:     domain.Truncate(start),
		CreatedAt: Epoch,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ptr returns a pointer to t; handy for optional timestamps.
func Ptr(t time.Time) *time.Time {
	return &t
}
