package commands

import (
	"strings"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/errs"
)

// ValidationError carries every business rule violation found for a proposed
// reservation. It matches errs.ErrValidationFailed.
type ValidationError struct {
	Result *booking.Result
}

func (e *ValidationError) Error() string {
	if e.Result == nil || len(e.Result.Errors) == 0 {
		return errs.ErrValidationFailed.Error()
	}
	return errs.ErrValidationFailed.Error() + ": " + strings.Join(e.Result.Errors, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == errs.ErrValidationFailed
}

func newValidationError(res *booking.Result) error {
	return &ValidationError{Result: res}
}

// mapRepoErr translates repository failures into the sentinels the handler layer understands.
func mapRepoErr(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, notFound)
	case infra.IsKind(err, infra.KindConflict):
		return errs.Mark(err, errs.ErrReservationConflict)
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}
