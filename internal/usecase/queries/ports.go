package queries

import (
	"context"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

type FacilityReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*facility.Facility, error)
	List(ctx context.Context, includeDisabled bool, limit, offset int) ([]*facility.Facility, int, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*ReservationView, int, error)
	ListForDay(ctx context.Context, facilityID uuid.UUID, date string) ([]*reservation.Reservation, error)
}
