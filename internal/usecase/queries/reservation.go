package queries

import (
	"context"
	"sort"

	"facility-booking/internal/domain/timeofday"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) (*ReservationPage, error)
	// ListByFacilityDate returns every reservation of the day, cancelled ones included.
	ListByFacilityDate(ctx context.Context, actor shared.Actor, facilityID uuid.UUID, date string) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	reservations ReservationReadStore
	facilities   FacilityReadStore
}

func NewReservationQueries(reservations ReservationReadStore, facilities FacilityReadStore) ReservationQueries {
	return &reservationQueriesImpl{reservations: reservations, facilities: facilities}
}

// GetByID is visible to the requester, the facility owner and administrators.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReservationView, error) {
	view, err := q.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrReservationNotFound)
	}
	if view.UserID != actor.UserID && !actor.CanManage(view.FacilityOwnerID) {
		return nil, errs.Wrap(errs.ErrForbidden, "reservation belongs to another user")
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, page Page) (*ReservationPage, error) {
	page = page.normalize()
	items, total, err := q.reservations.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrReservationNotFound)
	}
	return &ReservationPage{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (q *reservationQueriesImpl) ListByFacilityDate(ctx context.Context, actor shared.Actor, facilityID uuid.UUID, date string) ([]*ReservationView, error) {
	if !timeofday.IsDate(date) {
		return nil, errs.Wrap(errs.ErrInvalidFormat, timeofday.ErrInvalidDate.Error())
	}

	f, err := q.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrFacilityNotFound)
	}
	if !actor.CanManage(f.OwnerID()) {
		return nil, errs.Wrap(errs.ErrForbidden, "actor does not manage this facility")
	}

	list, err := q.reservations.ListForDay(ctx, facilityID, date)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrFacilityNotFound)
	}

	views := make([]*ReservationView, len(list))
	for i, r := range list {
		v := NewReservationView(r)
		v.FacilityName = f.Name()
		v.FacilityOwnerID = f.OwnerID()
		views[i] = v
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].StartTime < views[j].StartTime })
	return views, nil
}
