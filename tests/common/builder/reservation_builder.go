//go:build unit || e2e

package builder

import (
	"time"

	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/domain/timeofday"
	reqdto "facility-booking/internal/handler/dto/request"
	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID           uuid.UUID
	FacilityID   uuid.UUID
	FacilityName string
	OwnerID      uuid.UUID
	UserID       uuid.UUID
	Date         string
	StartTime    string
	EndTime      string
	Status       reservation.Status
	Price        int64
	Note         string
	CreatedAt    time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	return &ReservationBuilder{
		ID:           uuid.New(),
		FacilityID:   uuid.New(),
		FacilityName: "Cancha Central",
		OwnerID:      uuid.New(),
		UserID:       uuid.New(),
		Date:         "2025-03-10",
		StartTime:    "14:00",
		EndTime:      "15:00",
		Status:       reservation.StatusConfirmed,
		Price:        1000,
		CreatedAt:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

func (b *ReservationBuilder) WithID(id uuid.UUID) *ReservationBuilder {
	b.ID = id
	return b
}

func (b *ReservationBuilder) WithFacilityID(id uuid.UUID) *ReservationBuilder {
	b.FacilityID = id
	return b
}

func (b *ReservationBuilder) WithUserID(id uuid.UUID) *ReservationBuilder {
	b.UserID = id
	return b
}

func (b *ReservationBuilder) WithOwnerID(id uuid.UUID) *ReservationBuilder {
	b.OwnerID = id
	return b
}

func (b *ReservationBuilder) WithDate(date string) *ReservationBuilder {
	b.Date = date
	return b
}

func (b *ReservationBuilder) WithSlot(start, end string) *ReservationBuilder {
	b.StartTime = start
	b.EndTime = end
	return b
}

func (b *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	b.Status = status
	return b
}

func (b *ReservationBuilder) WithNote(note string) *ReservationBuilder {
	b.Note = note
	return b
}

func (b *ReservationBuilder) BuildDomain() *reservation.Reservation {
	slot, err := timeofday.NewInterval(b.StartTime, b.EndTime)
	if err != nil {
		panic(err)
	}
	price, err := reservation.NewMoney(b.Price)
	if err != nil {
		panic(err)
	}
	note, err := reservation.NewNote(b.Note)
	if err != nil {
		panic(err)
	}
	return reservation.Reconstruct(
		b.ID, b.FacilityID, b.UserID,
		b.Date, slot, b.Status, price, note,
		b.CreatedAt, b.CreatedAt,
	)
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	req := reqdto.CreateReservationRequest{
		FacilityID: b.FacilityID,
		Date:       b.Date,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
	}
	if b.Note != "" {
		note := b.Note
		req.Note = &note
	}
	return req
}

func (b *ReservationBuilder) BuildView() *queries.ReservationView {
	v := queries.NewReservationView(b.BuildDomain())
	v.FacilityName = b.FacilityName
	v.FacilityOwnerID = b.OwnerID
	return v
}
