package queries

import (
	"context"
	"time"

	"facility-booking/internal/domain/availability"
	"facility-booking/internal/domain/timeofday"
	"facility-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("facility-booking/usecase/queries")

type AvailabilityQueries interface {
	// Query computes the free slots of a facility for a date. durationMinutes
	// overrides the default slot length when set.
	Query(ctx context.Context, facilityID uuid.UUID, date string, durationMinutes *int) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	facilities   FacilityReadStore
	reservations ReservationReadStore
	loc          *time.Location
	defaultSlot  int
}

func NewAvailabilityQueries(facilities FacilityReadStore, reservations ReservationReadStore, loc *time.Location, defaultSlotMinutes int) AvailabilityQueries {
	if loc == nil {
		loc = time.UTC
	}
	if defaultSlotMinutes <= 0 {
		defaultSlotMinutes = 60
	}
	return &availabilityQueriesImpl{
		facilities:   facilities,
		reservations: reservations,
		loc:          loc,
		defaultSlot:  defaultSlotMinutes,
	}
}

func (q *availabilityQueriesImpl) Query(ctx context.Context, facilityID uuid.UUID, date string, durationMinutes *int) (*AvailabilityView, error) {
	ctx, span := tracer.Start(ctx, "AvailabilityQueries.Query",
		trace.WithAttributes(attribute.String("facility.id", facilityID.String()), attribute.String("booking.date", date)))
	defer span.End()

	day, err := timeofday.ParseDate(date, q.loc)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidFormat)
	}
	step := q.defaultSlot
	if durationMinutes != nil {
		if *durationMinutes <= 0 {
			return nil, errs.Wrap(errs.ErrInvalidFormat, "duration must be a positive number of minutes")
		}
		step = *durationMinutes
	}

	f, err := q.facilities.FindByID(ctx, facilityID)
	if err != nil {
		return nil, mapReadErr(err, errs.ErrFacilityNotFound)
	}

	view := &AvailabilityView{
		FacilityID:    f.ID(),
		Date:          date,
		OpeningTime:   f.OpeningTime(),
		ClosingTime:   f.ClosingTime(),
		PricePerHour:  f.PricePerHour(),
		SlotMinutes:   step,
		FreeSlots:     []SlotView{},
		OccupiedSlots: []SlotView{},
	}

	verdict := f.ResolveAvailability(day)
	if !verdict.Available {
		view.Reason = verdict.Reason
		return view, nil
	}
	view.Available = true

	existing, err := q.reservations.ListForDay(ctx, f.ID(), date)
	if err != nil {
		span.RecordError(err)
		return nil, mapReadErr(err, errs.ErrFacilityNotFound)
	}

	occupied := availability.OccupiedIntervals(existing)
	hours := f.Hours()
	candidates := availability.GenerateSlots(hours.Start, hours.End, step)
	for _, s := range availability.FilterAvailableSlots(candidates, occupied) {
		view.FreeSlots = append(view.FreeSlots, newSlotView(s))
	}
	for _, o := range occupied {
		view.OccupiedSlots = append(view.OccupiedSlots, newSlotView(o))
	}
	view.ReservationCount = len(occupied)

	return view, nil
}
