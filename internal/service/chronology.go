package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tock/internal/domain"
	"github.com/alexanderramin/tock/internal/repository"
)

// ChronologyValidator guards the forward-only timeline: no session may be
// started before the end of the latest completed session of any timer.
//
// It only reads. Bind it to a tx-scoped repository so the check and the
// following insert see the same data.
type ChronologyValidator struct {
	sessions repository.SessionRepo
}

func NewChronologyValidator(sessions repository.SessionRepo) *ChronologyValidator {
	return &ChronologyValidator{sessions: sessions}
}

// LatestCompletedEnd returns the greatest end over all completed sessions,
// or nil if none has completed.
func (v *ChronologyValidator) LatestCompletedEnd(ctx context.Context) (*time.Time, error) {
	return v.sessions.LatestCompletedEnd(ctx)
}

// ValidateStart passes when candidate is at or after the latest completed
// end, or when nothing has completed yet. Otherwise it returns a
// *domain.ChronologyError carrying that end.
func (v *ChronologyValidator) ValidateStart(ctx context.Context, candidate time.Time) error {
	latest, err := v.LatestCompletedEnd(ctx)
	if err != nil {
		return err
	}
	if latest == nil || !candidate.Before(*latest) {
		return nil
	}
	return &domain.ChronologyError{Candidate: candidate, LatestEnd: *latest}
}
