package readstore

import (
	"context"
	"time"

	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/domain/timeofday"
	"facility-booking/internal/infra"
	"facility-booking/internal/infra/db"
	"facility-booking/internal/pkg/pgconv"
	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const reservationColumns = `r.id, r.facility_id, r.user_id, r.booking_date, r.start_min, r.end_min,
	r.status, r.total_price, r.note, r.created_at, r.updated_at`

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

// FindByID returns the reservation joined with its facility name and owner.
func (s *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+reservationColumns+`, f.name, f.owner_id
		   FROM reservations r
		   JOIN facilities f ON f.id = r.facility_id
		  WHERE r.id = $1`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	view, err := pgx.CollectExactlyOneRow(rows, scanReservationView)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return view, nil
}

// FindAggregateByID loads the reservation for the write side.
func (s *ReservationReadStore) FindAggregateByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	rows, err := s.db.Query(ctx, `SELECT `+reservationColumns+` FROM reservations r WHERE r.id = $1`, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanReservationRow)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return rec.toDomain()
}

func (s *ReservationReadStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*queries.ReservationView, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM reservations WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count reservations", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+reservationColumns+`, f.name, f.owner_id
		   FROM reservations r
		   JOIN facilities f ON f.id = r.facility_id
		  WHERE r.user_id = $1
		  ORDER BY r.created_at DESC, r.id DESC
		  LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list reservations by user", err)
	}
	views, err := pgx.CollectRows(rows, scanReservationView)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to scan reservations", err)
	}
	return views, total, nil
}

// ListForDay returns every reservation of the facility on date, in any status.
func (s *ReservationReadStore) ListForDay(ctx context.Context, facilityID uuid.UUID, date string) ([]*reservation.Reservation, error) {
	day, err := pgconv.DateToPgtype(date)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid reservation date", err, infra.KindDBFailure)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+reservationColumns+`
		   FROM reservations r
		  WHERE r.facility_id = $1 AND r.booking_date = $2
		  ORDER BY r.start_min, r.id`, facilityID, day)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations for day", err)
	}
	records, err := pgx.CollectRows(rows, scanReservationRow)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan reservations", err)
	}

	out := make([]*reservation.Reservation, 0, len(records))
	for _, rec := range records {
		r, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type reservationRecord struct {
	id         uuid.UUID
	facilityID uuid.UUID
	userID     uuid.UUID
	date       pgtype.Date
	startMin   int
	endMin     int
	status     string
	totalPrice int64
	note       pgtype.Text
	createdAt  time.Time
	updatedAt  time.Time
}

func (rec *reservationRecord) targets() []any {
	return []any{
		&rec.id, &rec.facilityID, &rec.userID, &rec.date, &rec.startMin, &rec.endMin,
		&rec.status, &rec.totalPrice, &rec.note, &rec.createdAt, &rec.updatedAt,
	}
}

func scanReservationRow(row pgx.CollectableRow) (reservationRecord, error) {
	var rec reservationRecord
	err := row.Scan(rec.targets()...)
	return rec, err
}

func scanReservationView(row pgx.CollectableRow) (*queries.ReservationView, error) {
	var (
		rec          reservationRecord
		facilityName string
		ownerID      uuid.UUID
	)
	if err := row.Scan(append(rec.targets(), &facilityName, &ownerID)...); err != nil {
		return nil, err
	}

	slot := timeofday.Interval{Start: rec.startMin, End: rec.endMin}
	return &queries.ReservationView{
		ID:              rec.id,
		FacilityID:      rec.facilityID,
		FacilityName:    facilityName,
		FacilityOwnerID: ownerID,
		UserID:          rec.userID,
		Date:            pgconv.DateFromPgtype(rec.date),
		StartTime:       slot.StartClock(),
		EndTime:         slot.EndClock(),
		DurationHours:   float64(slot.Minutes()) / 60,
		Status:          rec.status,
		TotalPrice:      rec.totalPrice,
		Note:            pgconv.StringPtrFromPgtype(rec.note),
		CreatedAt:       rec.createdAt,
		UpdatedAt:       rec.updatedAt,
	}, nil
}

func (rec reservationRecord) toDomain() (*reservation.Reservation, error) {
	status, err := reservation.NewStatus(rec.status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has unknown status", err, infra.KindDBFailure)
	}
	price, err := reservation.NewMoney(rec.totalPrice)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid price", err, infra.KindDBFailure)
	}
	note, err := reservation.NewNote(rec.note.String)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid note", err, infra.KindDBFailure)
	}

	return reservation.Reconstruct(
		rec.id, rec.facilityID, rec.userID,
		pgconv.DateFromPgtype(rec.date),
		timeofday.Interval{Start: rec.startMin, End: rec.endMin},
		status, price, note,
		rec.createdAt, rec.updatedAt,
	), nil
}
