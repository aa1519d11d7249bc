package commands

import (
	"context"
	"encoding/json"
	"time"

	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	TopicReservationCreated     = "reservation.created"
	TopicReservationRescheduled = "reservation.rescheduled"
	TopicReservationCancelled   = "reservation.cancelled"
	TopicReservationConfirmed   = "reservation.confirmed"
	TopicReservationCompleted   = "reservation.completed"

	eventKind = "reservation_event"
)

type ReservationEvent struct {
	EventID       uuid.UUID `json:"event_id"`
	Type          string    `json:"type"`
	ReservationID uuid.UUID `json:"reservation_id"`
	FacilityID    uuid.UUID `json:"facility_id"`
	UserID        uuid.UUID `json:"user_id"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Status        string    `json:"status"`
	TotalPrice    int64     `json:"total_price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func newReservationEvent(topic string, r *reservation.Reservation, now time.Time) ReservationEvent {
	return ReservationEvent{
		EventID:       uuid.New(),
		Type:          topic,
		ReservationID: r.ID(),
		FacilityID:    r.FacilityID(),
		UserID:        r.UserID(),
		Date:          r.Date(),
		StartTime:     r.StartTime(),
		EndTime:       r.EndTime(),
		Status:        r.Status().String(),
		TotalPrice:    r.Price().Amount(),
		OccurredAt:    now,
	}
}

// enqueueEvent writes the event to the outbox inside the caller's transaction.
func enqueueEvent(ctx context.Context, tx shared.Tx, topic string, r *reservation.Reservation, now time.Time) error {
	payload, err := json.Marshal(newReservationEvent(topic, r, now))
	if err != nil {
		return errs.Wrap(err, "failed to marshal reservation event")
	}

	job := shared.NotificationJob{
		ID:      uuid.New(),
		Kind:    eventKind,
		Topic:   topic,
		Key:     r.ID().String(),
		Payload: payload,
		RunAt:   now,
		Status:  shared.JobStatusQueued,
	}
	if err := tx.Notifications().CreateJob(ctx, job); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}
