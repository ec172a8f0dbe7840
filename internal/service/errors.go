package service

import (
	"errors"

	"github.com/alexanderramin/tock/internal/domain"
)

var ledgerRejections = []error{
	domain.ErrNotFound,
	domain.ErrDuplicateName,
	domain.ErrAlreadyRunning,
	domain.ErrNotRunning,
	domain.ErrChronologyViolation,
	domain.ErrInvalidStopTime,
	domain.ErrInvalidRange,
	domain.ErrInvalidName,
	domain.ErrInvalidColor,
	domain.ErrAmbiguousID,
}

// isLedgerRejection reports whether err is one of the recoverable ledger
// outcomes rather than a store failure.
func isLedgerRejection(err error) bool {
	for _, target := range ledgerRejections {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
