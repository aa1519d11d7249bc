package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/pkg/clock"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type FacilityInput struct {
	Name          string
	OpeningTime   string
	ClosingTime   string
	OperatingDays []string
	PricePerHour  int64
}

type CreateFacilityInput struct {
	FacilityInput
	OwnerID uuid.UUID
}

type OverrideInput struct {
	Date      string
	Available bool
	Reason    string
}

type FacilityCommands interface {
	Create(ctx context.Context, actor shared.Actor, in CreateFacilityInput) (uuid.UUID, error)
	Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in FacilityInput) error
	SetEnabled(ctx context.Context, actor shared.Actor, id uuid.UUID, enabled bool) error
	SetOverride(ctx context.Context, actor shared.Actor, id uuid.UUID, in OverrideInput) error
	RemoveOverride(ctx context.Context, actor shared.Actor, id uuid.UUID, date string) error
}

type facilityCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
	loc   *time.Location
}

func NewFacilityCommands(uow shared.UnitOfWork, clk clock.Clock, settings Settings) FacilityCommands {
	loc := settings.Location
	if loc == nil {
		loc = time.UTC
	}
	return &facilityCommandsImpl{uow: uow, clock: clk, loc: loc}
}

func (c *facilityCommandsImpl) Create(ctx context.Context, actor shared.Actor, in CreateFacilityInput) (uuid.UUID, error) {
	ctx, span := tracer.Start(ctx, "FacilityCommands.Create")
	defer span.End()

	if !actor.IsAdmin() {
		return uuid.Nil, errs.Wrap(errs.ErrForbidden, "only administrators can create facilities")
	}

	schedule, err := toSchedule(in.FacilityInput)
	if err != nil {
		return uuid.Nil, err
	}
	ownerID := in.OwnerID
	if ownerID == uuid.Nil {
		ownerID = actor.UserID
	}

	f, err := facility.NewFacility(ownerID, in.Name, schedule, in.PricePerHour, clock.Local(c.clock, c.loc))
	if err != nil {
		return uuid.Nil, markFacilityErr(err)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Facilities().Create(ctx, f); err != nil {
			return mapRepoErr(err, errs.ErrFacilityNotFound)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, err
	}

	slog.Info("facility created", "facility_id", f.ID(), "slug", f.Slug(), "owner_id", ownerID)
	return f.ID(), nil
}

func (c *facilityCommandsImpl) Update(ctx context.Context, actor shared.Actor, id uuid.UUID, in FacilityInput) error {
	schedule, err := toSchedule(in)
	if err != nil {
		return err
	}
	return c.mutate(ctx, "FacilityCommands.Update", actor, id, func(f *facility.Facility, now time.Time) error {
		if err := f.UpdateDetails(in.Name, in.PricePerHour, now); err != nil {
			return err
		}
		return f.UpdateSchedule(schedule, now)
	})
}

func (c *facilityCommandsImpl) SetEnabled(ctx context.Context, actor shared.Actor, id uuid.UUID, enabled bool) error {
	return c.mutate(ctx, "FacilityCommands.SetEnabled", actor, id, func(f *facility.Facility, now time.Time) error {
		if enabled {
			f.Enable(now)
		} else {
			f.Disable(now)
		}
		return nil
	})
}

func (c *facilityCommandsImpl) SetOverride(ctx context.Context, actor shared.Actor, id uuid.UUID, in OverrideInput) error {
	return c.mutate(ctx, "FacilityCommands.SetOverride", actor, id, func(f *facility.Facility, now time.Time) error {
		return f.SetOverride(facility.Override{Date: in.Date, Available: in.Available, Reason: in.Reason}, now)
	})
}

func (c *facilityCommandsImpl) RemoveOverride(ctx context.Context, actor shared.Actor, id uuid.UUID, date string) error {
	return c.mutate(ctx, "FacilityCommands.RemoveOverride", actor, id, func(f *facility.Facility, now time.Time) error {
		return f.RemoveOverride(date, now)
	})
}

// mutate loads the facility under lock, checks ownership and persists the change.
func (c *facilityCommandsImpl) mutate(
	ctx context.Context,
	spanName string,
	actor shared.Actor,
	id uuid.UUID,
	change func(*facility.Facility, time.Time) error,
) error {
	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("facility.id", id.String())))
	defer span.End()

	now := clock.Local(c.clock, c.loc)
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		f, err := tx.Facilities().LockByID(ctx, id)
		if err != nil {
			return mapRepoErr(err, errs.ErrFacilityNotFound)
		}
		if !actor.CanManage(f.OwnerID()) {
			return errs.Wrap(errs.ErrForbidden, "actor does not manage this facility")
		}
		if err := change(f, now); err != nil {
			return markFacilityErr(err)
		}
		if err := tx.Facilities().Update(ctx, f); err != nil {
			return mapRepoErr(err, errs.ErrFacilityNotFound)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	slog.Info("facility updated", "facility_id", id, "operation", spanName, "actor_id", actor.UserID)
	return nil
}

func toSchedule(in FacilityInput) (facility.Schedule, error) {
	days := make([]facility.Weekday, 0, len(in.OperatingDays))
	for _, d := range in.OperatingDays {
		w, err := facility.ParseWeekday(d)
		if err != nil {
			return facility.Schedule{}, errs.Mark(err, errs.ErrDomainValidation)
		}
		days = append(days, w)
	}
	return facility.Schedule{
		OpeningTime:   in.OpeningTime,
		ClosingTime:   in.ClosingTime,
		OperatingDays: days,
	}, nil
}

func markFacilityErr(err error) error {
	if errors.Is(err, facility.ErrOverrideNotFound) {
		return errs.Mark(err, errs.ErrOverrideNotFound)
	}
	return errs.Mark(err, errs.ErrDomainValidation)
}
