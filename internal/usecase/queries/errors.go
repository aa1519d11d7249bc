package queries

import (
	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/errs"
)

func mapReadErr(err error, notFound error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, notFound)
	}
	return errs.Mark(err, errs.ErrDatabaseOperationFailed)
}
