package repository

import (
	"context"
	"time"

	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

// Create inserts the reservation. An overlap with a pending or confirmed
// reservation violates reservations_no_overlap and surfaces as KindConflict.
func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	date, err := pgconv.DateToPgtype(res.Date())
	if err != nil {
		return infra.WrapRepoErr("invalid reservation date", err, infra.KindDBFailure)
	}

	slot := res.Slot()
	_, err = r.db.Exec(ctx,
		`INSERT INTO reservations
		    (id, facility_id, user_id, booking_date, start_min, end_min, status, total_price, note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		res.ID(), res.FacilityID(), res.UserID(), date, slot.Start, slot.End,
		res.Status().String(), res.Price().Amount(), pgconv.StringPtrToPgtype(res.Note().Ptr()),
		res.CreatedAt(), res.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	date, err := pgconv.DateToPgtype(res.Date())
	if err != nil {
		return infra.WrapRepoErr("invalid reservation date", err, infra.KindDBFailure)
	}

	slot := res.Slot()
	tag, err := r.db.Exec(ctx,
		`UPDATE reservations
		    SET booking_date = $2, start_min = $3, end_min = $4, status = $5,
		        total_price = $6, note = $7, updated_at = $8
		  WHERE id = $1`,
		res.ID(), date, slot.Start, slot.End, res.Status().String(),
		res.Price().Amount(), pgconv.StringPtrToPgtype(res.Note().Ptr()), res.UpdatedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) CompleteEnded(ctx context.Context, date string, minute int, now time.Time) ([]uuid.UUID, error) {
	day, err := pgconv.DateToPgtype(date)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid completion date", err, infra.KindDBFailure)
	}

	rows, err := r.db.Query(ctx,
		`UPDATE reservations
		    SET status = 'completed', updated_at = $3
		  WHERE status = 'confirmed'
		    AND (booking_date < $1 OR (booking_date = $1 AND end_min <= $2))
		RETURNING id`, day, minute, now)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to complete ended reservations", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to collect completed reservations", err)
	}
	return ids, nil
}
