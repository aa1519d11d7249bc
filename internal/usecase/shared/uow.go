package shared

import (
	"context"
	"time"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/reservation"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Facilities() FacilityRepository
	Reservations() ReservationRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

// CommandReads loads aggregates for the write side. Not-found surfaces as an
// infra.RepositoryError of kind NOT_FOUND.
type CommandReads interface {
	FacilityByID(ctx context.Context, id uuid.UUID) (*facility.Facility, error)
	ReservationByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	ReservationsForDay(ctx context.Context, facilityID uuid.UUID, date string) ([]*reservation.Reservation, error)
}

type FacilityRepository interface {
	Create(ctx context.Context, f *facility.Facility) error
	// Update persists the facility row and replaces its override set.
	Update(ctx context.Context, f *facility.Facility) error
	// LockByID loads the facility with a row lock held until the transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*facility.Facility, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *reservation.Reservation) error
	Update(ctx context.Context, r *reservation.Reservation) error
	// CompleteEnded flips confirmed reservations that ended before (date, minute)
	// to completed and returns their ids.
	CompleteEnded(ctx context.Context, date string, minute int, now time.Time) ([]uuid.UUID, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, job NotificationJob) error
	// FetchPending claims due queued jobs with SKIP LOCKED.
	FetchPending(ctx context.Context, now time.Time, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, ids []uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time, maxAttempts int) error
}
