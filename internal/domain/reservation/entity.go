package reservation

import (
	"errors"
	"fmt"
	"time"

	"facility-booking/internal/domain/timeofday"

	"github.com/google/uuid"
)

var (
	ErrInvalidSlot        = errors.New("end time must be after start time")
	ErrInvalidDate        = errors.New("invalid reservation date")
	ErrInvalidStatus      = errors.New("invalid reservation status")
	ErrInvalidTransition  = errors.New("invalid reservation status transition")
	ErrNoteTooLong        = errors.New("note is too long")
	ErrMissingParticipant = errors.New("facility and user are required")
)

type Reservation struct {
	id         uuid.UUID
	facilityID uuid.UUID
	userID     uuid.UUID
	date       string
	slot       timeofday.Interval
	status     Status
	price      Money
	note       Note
	createdAt  time.Time
	updatedAt  time.Time
}

type Params struct {
	FacilityID uuid.UUID
	UserID     uuid.UUID
	Date       string
	Slot       timeofday.Interval
	Price      Money
	Note       Note
	Status     Status
}

func NewReservation(p Params, now time.Time) (*Reservation, error) {
	if p.FacilityID == uuid.Nil || p.UserID == uuid.Nil {
		return nil, ErrMissingParticipant
	}
	if !timeofday.IsDate(p.Date) {
		return nil, ErrInvalidDate
	}
	if !p.Slot.IsValid() {
		return nil, ErrInvalidSlot
	}
	status := p.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Blocks() {
		return nil, fmt.Errorf("%w: cannot create in %s", ErrInvalidStatus, status)
	}

	return &Reservation{
		id:         uuid.New(),
		facilityID: p.FacilityID,
		userID:     p.UserID,
		date:       p.Date,
		slot:       p.Slot,
		status:     status,
		price:      p.Price,
		note:       p.Note,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// Reconstruct rebuilds a persisted reservation without re-running creation rules.
func Reconstruct(
	id, facilityID, userID uuid.UUID,
	date string,
	slot timeofday.Interval,
	status Status,
	price Money,
	note Note,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:         id,
		facilityID: facilityID,
		userID:     userID,
		date:       date,
		slot:       slot,
		status:     status,
		price:      price,
		note:       note,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Reservation) ID() uuid.UUID            { return r.id }
func (r *Reservation) FacilityID() uuid.UUID    { return r.facilityID }
func (r *Reservation) UserID() uuid.UUID        { return r.userID }
func (r *Reservation) Date() string             { return r.date }
func (r *Reservation) Slot() timeofday.Interval { return r.slot }
func (r *Reservation) StartTime() string        { return r.slot.StartClock() }
func (r *Reservation) EndTime() string          { return r.slot.EndClock() }
func (r *Reservation) Status() Status           { return r.status }
func (r *Reservation) Price() Money             { return r.price }
func (r *Reservation) Note() Note               { return r.note }
func (r *Reservation) CreatedAt() time.Time     { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time     { return r.updatedAt }

// DurationHours is the booked length in hours.
func (r *Reservation) DurationHours() float64 {
	return float64(r.slot.Minutes()) / 60
}

func (r *Reservation) Blocks() bool {
	return r.status.Blocks()
}

func (r *Reservation) BelongsTo(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) Confirm(now time.Time) error {
	if r.status != StatusPending {
		return r.transitionErr(StatusConfirmed)
	}
	r.status = StatusConfirmed
	r.updatedAt = now
	return nil
}

func (r *Reservation) Cancel(now time.Time) error {
	if r.status.IsTerminal() {
		return r.transitionErr(StatusCancelled)
	}
	r.status = StatusCancelled
	r.updatedAt = now
	return nil
}

func (r *Reservation) Complete(now time.Time) error {
	if r.status != StatusConfirmed {
		return r.transitionErr(StatusCompleted)
	}
	r.status = StatusCompleted
	r.updatedAt = now
	return nil
}

// Reschedule moves a live reservation to a new date and interval with a new price.
func (r *Reservation) Reschedule(date string, slot timeofday.Interval, price Money, now time.Time) error {
	if !r.status.Blocks() {
		return fmt.Errorf("%w: cannot reschedule a %s reservation", ErrInvalidTransition, r.status)
	}
	if !timeofday.IsDate(date) {
		return ErrInvalidDate
	}
	if !slot.IsValid() {
		return ErrInvalidSlot
	}
	r.date = date
	r.slot = slot
	r.price = price
	r.updatedAt = now
	return nil
}

func (r *Reservation) transitionErr(to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.status, to)
}
