package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateName       = errors.New("timer name already exists")
	ErrAlreadyRunning      = errors.New("timer is already running")
	ErrNotRunning          = errors.New("timer is not running")
	ErrChronologyViolation = errors.New("start is before the latest completed session")
	ErrInvalidStopTime     = errors.New("stop time must be after the session start")
	ErrInvalidRange        = errors.New("session end must be after its start")
	ErrInvalidName         = errors.New("invalid timer name")
	ErrInvalidColor        = errors.New("invalid timer color")
	ErrAmbiguousID         = errors.New("id prefix matches more than one session")
)

// ChronologyError reports a start that would move the ledger backwards.
// LatestEnd is the end of the most recently completed session.
type ChronologyError struct {
	Candidate time.Time
	LatestEnd time.Time
}

func (e *ChronologyError) Error() string {
	return fmt.Sprintf("start %s is before the latest completed session end %s",
		e.Candidate.Format(time.RFC3339), e.LatestEnd.Format(time.RFC3339))
}

func (e *ChronologyError) Unwrap() error { return ErrChronologyViolation }

// StopTimeError reports a stop at or before the session's own start.
type StopTimeError struct {
	Start time.Time
	Stop  time.Time
}

func (e *StopTimeError) Error() string {
	return fmt.Sprintf("stop %s is not after start %s",
		e.Stop.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}

func (e *StopTimeError) Unwrap() error { return ErrInvalidStopTime }
