package queries

import (
	"context"

	"facility-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type FacilityQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*FacilityView, error)
	List(ctx context.Context, includeDisabled bool, page Page) (*FacilityPage, error)
}

type facilityQueriesImpl struct {
	store FacilityReadStore
}

func NewFacilityQueries(store FacilityReadStore) FacilityQueries {
	return &facilityQueriesImpl{store: store}
}

func (q *facilityQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*FacilityView, error) {
	f, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrFacilityNotFound)
	}
	return NewFacilityView(f), nil
}

func (q *facilityQueriesImpl) List(ctx context.Context, includeDisabled bool, page Page) (*FacilityPage, error) {
	page = page.normalize()
	items, total, err := q.store.List(ctx, includeDisabled, page.Limit, page.Offset)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrFacilityNotFound)
	}

	views := make([]*FacilityView, len(items))
	for i, f := range items {
		views[i] = NewFacilityView(f)
	}
	return &FacilityPage{Items: views, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
