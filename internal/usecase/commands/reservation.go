package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/domain/timeofday"
	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("facility-booking/usecase/commands")

// Settings holds the booking parameters that come from configuration.
type Settings struct {
	Location      *time.Location
	InitialStatus reservation.Status
}

type ValidateInput struct {
	FacilityID           string
	Date                 string
	StartTime            string
	EndTime              string
	RequesterID          *uuid.UUID
	ExcludeReservationID *uuid.UUID
}

type CreateReservationInput struct {
	FacilityID     uuid.UUID
	Date           string
	StartTime      string
	EndTime        string
	Note           *string
	IdempotencyKey string
}

type RescheduleInput struct {
	Date      string
	StartTime string
	EndTime   string
}

type ReservationCommands interface {
	Validate(ctx context.Context, in ValidateInput) (*booking.Result, error)
	Create(ctx context.Context, actor shared.Actor, in CreateReservationInput) (*CreateReservationResult, error)
	Reschedule(ctx context.Context, actor shared.Actor, id uuid.UUID, in RescheduleInput) error
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	Confirm(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	Complete(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	CompleteEnded(ctx context.Context) (int, error)
}

type reservationCommandsImpl struct {
	uow         shared.UnitOfWork
	validator   *booking.Validator
	idempotency IdempotencyStore
	clock       clock.Clock
	settings    Settings
}

// NewReservationCommands wires the reservation use cases. idempotency may be nil.
func NewReservationCommands(
	uow shared.UnitOfWork,
	validator *booking.Validator,
	idempotency IdempotencyStore,
	clk clock.Clock,
	settings Settings,
) ReservationCommands {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.InitialStatus == "" {
		settings.InitialStatus = reservation.StatusPending
	}
	return &reservationCommandsImpl{
		uow:         uow,
		validator:   validator,
		idempotency: idempotency,
		clock:       clk,
		settings:    settings,
	}
}

func (c *reservationCommandsImpl) now() time.Time {
	return clock.Local(c.clock, c.settings.Location)
}

func (c *reservationCommandsImpl) Validate(ctx context.Context, in ValidateInput) (*booking.Result, error) {
	ctx, span := tracer.Start(ctx, "ReservationCommands.Validate",
		trace.WithAttributes(attribute.String("facility.id", in.FacilityID), attribute.String("booking.date", in.Date)))
	defer span.End()

	now := c.now()
	req := booking.Request{
		Date:                 in.Date,
		StartTime:            in.StartTime,
		EndTime:              in.EndTime,
		RequesterID:          in.RequesterID,
		ExcludeReservationID: in.ExcludeReservationID,
	}
	if len(c.validator.CheckFormat(req)) > 0 {
		return c.validator.Validate(nil, nil, req, now), nil
	}

	facilityID, err := uuid.Parse(in.FacilityID)
	if err != nil {
		return c.validator.Validate(nil, nil, req, now), nil
	}

	reads := c.uow.CommandReads()
	f, err := reads.FacilityByID(ctx, facilityID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return c.validator.Validate(nil, nil, req, now), nil
		}
		span.RecordError(err)
		return nil, mapRepoErr(err, errs.ErrFacilityNotFound)
	}

	return c.evaluate(ctx, reads, f, req, now)
}

func (c *reservationCommandsImpl) Create(ctx context.Context, actor shared.Actor, in CreateReservationInput) (*CreateReservationResult, error) {
	ctx, span := tracer.Start(ctx, "ReservationCommands.Create",
		trace.WithAttributes(attribute.String("facility.id", in.FacilityID.String()), attribute.String("booking.date", in.Date)))
	defer span.End()

	res, err := c.createIdempotent(ctx, actor, in, func() (uuid.UUID, error) {
		return c.create(ctx, actor, in)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create reservation failed")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("idempotency.replayed", res.IsReplayed))
	return res, nil
}

func (c *reservationCommandsImpl) create(ctx context.Context, actor shared.Actor, in CreateReservationInput) (uuid.UUID, error) {
	req := booking.Request{Date: in.Date, StartTime: in.StartTime, EndTime: in.EndTime}
	if err := c.checkFormat(req); err != nil {
		return uuid.Nil, err
	}

	note, err := reservation.NewNote(deref(in.Note))
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	now := c.now()
	reads := c.uow.CommandReads()
	f, err := reads.FacilityByID(ctx, in.FacilityID)
	if err != nil {
		return uuid.Nil, mapRepoErr(err, errs.ErrFacilityNotFound)
	}

	// Pre-flight outside the transaction; rejected proposals never take the lock.
	result, err := c.evaluate(ctx, reads, f, req, now)
	if err != nil {
		return uuid.Nil, err
	}
	if !result.Valid {
		return uuid.Nil, newValidationError(result)
	}

	var created *reservation.Reservation
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, err := tx.Facilities().LockByID(ctx, in.FacilityID)
		if err != nil {
			return mapRepoErr(err, errs.ErrFacilityNotFound)
		}

		recheck, err := c.evaluate(ctx, tx.Reads(), locked, req, now)
		if err != nil {
			return err
		}
		if err := commitVerdict(recheck); err != nil {
			return err
		}

		slot, _ := timeofday.NewInterval(in.StartTime, in.EndTime)
		price, err := reservation.NewMoney(*recheck.EstimatedPrice)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		created, err = reservation.NewReservation(reservation.Params{
			FacilityID: in.FacilityID,
			UserID:     actor.UserID,
			Date:       in.Date,
			Slot:       slot,
			Price:      price,
			Note:       note,
			Status:     c.settings.InitialStatus,
		}, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Reservations().Create(ctx, created); err != nil {
			return mapRepoErr(err, errs.ErrFacilityNotFound)
		}
		return enqueueEvent(ctx, tx, TopicReservationCreated, created, now)
	})
	if err != nil {
		return uuid.Nil, err
	}

	slog.Info("reservation created",
		"reservation_id", created.ID(),
		"facility_id", created.FacilityID(),
		"user_id", created.UserID(),
		"date", created.Date(),
		"slot", created.Slot().String())
	return created.ID(), nil
}

func (c *reservationCommandsImpl) Reschedule(ctx context.Context, actor shared.Actor, id uuid.UUID, in RescheduleInput) error {
	ctx, span := tracer.Start(ctx, "ReservationCommands.Reschedule",
		trace.WithAttributes(attribute.String("reservation.id", id.String())))
	defer span.End()

	// Only the moved reservation is skipped. The requester's other bookings
	// block like anyone else's since the exclusion constraint rejects them too.
	req := booking.Request{
		Date:                 in.Date,
		StartTime:            in.StartTime,
		EndTime:              in.EndTime,
		ExcludeReservationID: &id,
	}
	if err := c.checkFormat(req); err != nil {
		return err
	}

	now := c.now()
	reads := c.uow.CommandReads()
	current, err := reads.ReservationByID(ctx, id)
	if err != nil {
		return mapRepoErr(err, errs.ErrReservationNotFound)
	}
	if !current.BelongsTo(actor.UserID) {
		return errs.Wrap(errs.ErrForbidden, "only the requester can reschedule a reservation")
	}
	if !current.Blocks() {
		return errs.Wrap(errs.ErrInvalidTransition, "reservation is "+current.Status().String())
	}

	f, err := reads.FacilityByID(ctx, current.FacilityID())
	if err != nil {
		return mapRepoErr(err, errs.ErrFacilityNotFound)
	}
	result, err := c.evaluate(ctx, reads, f, req, now)
	if err != nil {
		return err
	}
	if !result.Valid {
		return newValidationError(result)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, err := tx.Facilities().LockByID(ctx, current.FacilityID())
		if err != nil {
			return mapRepoErr(err, errs.ErrFacilityNotFound)
		}
		r, err := tx.Reads().ReservationByID(ctx, id)
		if err != nil {
			return mapRepoErr(err, errs.ErrReservationNotFound)
		}

		recheck, err := c.evaluate(ctx, tx.Reads(), locked, req, now)
		if err != nil {
			return err
		}
		if err := commitVerdict(recheck); err != nil {
			return err
		}

		slot, _ := timeofday.NewInterval(in.StartTime, in.EndTime)
		price, err := reservation.NewMoney(*recheck.EstimatedPrice)
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		if err := r.Reschedule(in.Date, slot, price, now); err != nil {
			return markTransitionErr(err)
		}
		if err := tx.Reservations().Update(ctx, r); err != nil {
			return mapRepoErr(err, errs.ErrReservationNotFound)
		}
		return enqueueEvent(ctx, tx, TopicReservationRescheduled, r, now)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	slog.Info("reservation rescheduled", "reservation_id", id, "date", in.Date, "start", in.StartTime, "end", in.EndTime)
	return nil
}

func (c *reservationCommandsImpl) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return c.transition(ctx, "ReservationCommands.Cancel", actor, id, TopicReservationCancelled,
		func(r *reservation.Reservation, f *facility.Facility) bool {
			return r.BelongsTo(actor.UserID) || actor.CanManage(f.OwnerID())
		},
		(*reservation.Reservation).Cancel,
	)
}

func (c *reservationCommandsImpl) Confirm(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return c.transition(ctx, "ReservationCommands.Confirm", actor, id, TopicReservationConfirmed,
		func(_ *reservation.Reservation, f *facility.Facility) bool {
			return actor.CanManage(f.OwnerID())
		},
		(*reservation.Reservation).Confirm,
	)
}

func (c *reservationCommandsImpl) Complete(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	return c.transition(ctx, "ReservationCommands.Complete", actor, id, TopicReservationCompleted,
		func(_ *reservation.Reservation, f *facility.Facility) bool {
			return actor.CanManage(f.OwnerID())
		},
		(*reservation.Reservation).Complete,
	)
}

// CompleteEnded marks every confirmed reservation whose end has passed as completed.
func (c *reservationCommandsImpl) CompleteEnded(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "ReservationCommands.CompleteEnded")
	defer span.End()

	now := c.now()
	today := timeofday.FormatDate(now)
	minute := now.Hour()*60 + now.Minute()

	var completed int
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ids, err := tx.Reservations().CompleteEnded(ctx, today, minute, now)
		if err != nil {
			return mapRepoErr(err, errs.ErrReservationNotFound)
		}
		for _, id := range ids {
			r, err := tx.Reads().ReservationByID(ctx, id)
			if err != nil {
				return mapRepoErr(err, errs.ErrReservationNotFound)
			}
			if err := enqueueEvent(ctx, tx, TopicReservationCompleted, r, now); err != nil {
				return err
			}
		}
		completed = len(ids)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}

	if completed > 0 {
		slog.Info("reservations auto-completed", "count", completed, "date", today)
	}
	return completed, nil
}

func (c *reservationCommandsImpl) transition(
	ctx context.Context,
	spanName string,
	actor shared.Actor,
	id uuid.UUID,
	topic string,
	allowed func(*reservation.Reservation, *facility.Facility) bool,
	apply func(*reservation.Reservation, time.Time) error,
) error {
	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("reservation.id", id.String())))
	defer span.End()

	now := c.now()
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reads().ReservationByID(ctx, id)
		if err != nil {
			return mapRepoErr(err, errs.ErrReservationNotFound)
		}
		f, err := tx.Reads().FacilityByID(ctx, r.FacilityID())
		if err != nil {
			return mapRepoErr(err, errs.ErrFacilityNotFound)
		}
		if !allowed(r, f) {
			return errs.Wrap(errs.ErrForbidden, "actor may not change this reservation")
		}
		if err := apply(r, now); err != nil {
			return markTransitionErr(err)
		}
		if err := tx.Reservations().Update(ctx, r); err != nil {
			return mapRepoErr(err, errs.ErrReservationNotFound)
		}
		return enqueueEvent(ctx, tx, topic, r, now)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	slog.Info("reservation status changed", "reservation_id", id, "event", topic, "actor_id", actor.UserID)
	return nil
}

func (c *reservationCommandsImpl) evaluate(
	ctx context.Context,
	reads shared.CommandReads,
	f *facility.Facility,
	req booking.Request,
	now time.Time,
) (*booking.Result, error) {
	existing, err := reads.ReservationsForDay(ctx, f.ID(), req.Date)
	if err != nil {
		return nil, mapRepoErr(err, errs.ErrFacilityNotFound)
	}
	return c.validator.Validate(f, existing, req, now), nil
}

func (c *reservationCommandsImpl) checkFormat(req booking.Request) error {
	if formatErrs := c.validator.CheckFormat(req); len(formatErrs) > 0 {
		return errs.Wrap(errs.ErrInvalidFormat, strings.Join(formatErrs, "; "))
	}
	return nil
}

// commitVerdict decides what a failed re-check under the facility lock means.
// A conflict that the pre-flight did not see is a lost race.
func commitVerdict(res *booking.Result) error {
	if res.Valid {
		return nil
	}
	if res.HasOnlyConflicts() {
		return errs.Wrap(errs.ErrReservationConflict, "slot was taken before commit")
	}
	return newValidationError(res)
}

func markTransitionErr(err error) error {
	if errors.Is(err, reservation.ErrInvalidTransition) {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}
	return errs.Mark(err, errs.ErrDomainValidation)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
