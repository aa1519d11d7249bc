package booking

import (
	"fmt"
	"time"

	"facility-booking/internal/domain/availability"
	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/domain/timeofday"

	"github.com/google/uuid"
)

const (
	MsgInvalidDate       = "Invalid date format, expected YYYY-MM-DD"
	MsgInvalidStartTime  = "Invalid start time format, expected HH:MM"
	MsgInvalidEndTime    = "Invalid end time format, expected HH:MM"
	MsgFacilityNotFound  = "Facility not found"
	MsgFacilityDisabled  = "Facility is not available for reservations"
	MsgPastDate          = "Cannot book dates in the past"
	MsgEndBeforeStart    = "End time must be after start time"
	MsgEditingOwnBooking = "Overlaps your existing reservation (editing existing reservation)"
)

type Request struct {
	Date                 string
	StartTime            string
	EndTime              string
	RequesterID          *uuid.UUID
	ExcludeReservationID *uuid.UUID
}

type Validator struct {
	rules Rules
}

func NewValidator(rules Rules) *Validator {
	return &Validator{rules: rules}
}

func (v *Validator) Rules() Rules {
	return v.rules
}

// CheckFormat returns the format errors of req, if any.
func (v *Validator) CheckFormat(req Request) []string {
	var errs []string
	if !timeofday.IsDate(req.Date) {
		errs = append(errs, MsgInvalidDate)
	}
	if !timeofday.IsClock(req.StartTime) {
		errs = append(errs, MsgInvalidStartTime)
	}
	if !timeofday.IsBoundaryClock(req.EndTime) {
		errs = append(errs, MsgInvalidEndTime)
	}
	return errs
}

// Validate runs every rule against a proposed reservation. Format and facility
// existence short-circuit; all other rule failures accumulate in order.
// existing should hold the reservations of f for req.Date; others are ignored.
func (v *Validator) Validate(f *facility.Facility, existing []*reservation.Reservation, req Request, now time.Time) *Result {
	res := &Result{Errors: []string{}, Warnings: []string{}}

	if formatErrs := v.CheckFormat(req); len(formatErrs) > 0 {
		res.Errors = append(res.Errors, formatErrs...)
		return res
	}
	if f == nil {
		res.addError(MsgFacilityNotFound)
		return res
	}

	date, _ := timeofday.ParseDate(req.Date, now.Location())
	slot := timeofday.Interval{Start: timeofday.MustMinutes(req.StartTime), End: timeofday.MustMinutes(req.EndTime)}
	ordered := slot.IsValid()

	if !f.IsEnabled() {
		res.addError(MsgFacilityDisabled)
	}

	today := timeofday.StartOfDay(now)
	if date.Before(today) {
		res.addError(MsgPastDate)
	} else if date.After(today.AddDate(0, 0, v.rules.MaxAdvanceDays)) {
		res.addError(fmt.Sprintf("Cannot book more than %d days in advance", v.rules.MaxAdvanceDays))
	}

	if !f.IsOperatingDay(date) {
		res.addError(fmt.Sprintf("Facility does not operate on %s", facility.WeekdayOf(date)))
	}

	if !f.Hours().Contains(slot) {
		res.addError(fmt.Sprintf("Requested time must be within operating hours (%s)", f.Hours()))
	}

	if !ordered {
		res.addError(MsgEndBeforeStart)
	} else if m := slot.Minutes(); m < v.rules.MinDurationMinutes || m > v.rules.MaxDurationMinutes {
		res.addError(fmt.Sprintf("Reservation duration must be between %d and %d minutes",
			v.rules.MinDurationMinutes, v.rules.MaxDurationMinutes))
	}

	if o, ok := f.DateOverride(req.Date); ok && !o.Available {
		reason := o.Reason
		if reason == "" {
			reason = facility.ReasonDefaultOverride
		}
		res.addError(fmt.Sprintf("Facility is unavailable on %s: %s", req.Date, reason))
	}

	var own []*reservation.Reservation
	if ordered {
		sameDay := make([]*reservation.Reservation, 0, len(existing))
		for _, r := range existing {
			if r != nil && r.FacilityID() == f.ID() && r.Date() == req.Date {
				sameDay = append(sameDay, r)
			}
		}
		found := availability.FindConflicts(slot, sameDay, availability.Exclusion{
			ReservationID: req.ExcludeReservationID,
			RequesterID:   req.RequesterID,
		})
		for _, r := range found.Blocking {
			res.Conflicts = append(res.Conflicts, Conflict{
				ReservationID: r.ID(),
				StartTime:     r.StartTime(),
				EndTime:       r.EndTime(),
				Status:        r.Status().String(),
			})
		}
		if n := len(found.Blocking); n > 0 {
			res.addError(fmt.Sprintf("Scheduling conflict with %d existing reservation(s)", n))
		}
		own = found.Own
	}

	res.Valid = len(res.Errors) == 0
	if res.Valid {
		price := reservation.PriceFor(slot.Minutes(), f.PricePerHour()).Amount()
		res.EstimatedPrice = &price
	}

	v.addWarnings(res, date, slot, ordered, own, now)
	return res
}

func (v *Validator) addWarnings(res *Result, date time.Time, slot timeofday.Interval, ordered bool, own []*reservation.Reservation, now time.Time) {
	if timeofday.At(date, slot.Start).Sub(now) < v.rules.ShortNotice {
		res.addWarning(fmt.Sprintf("Less than %s notice before the reservation starts", formatDuration(v.rules.ShortNotice)))
	}
	if slot.Start < v.rules.NormalHoursStart || slot.Start > v.rules.NormalHoursEnd {
		res.addWarning(fmt.Sprintf("Reservation starts outside normal hours (%s - %s)",
			timeofday.FromMinutes(v.rules.NormalHoursStart), timeofday.FromMinutes(v.rules.NormalHoursEnd)))
	}
	if ordered && slot.Minutes() > v.rules.LongBookingMinutes {
		res.addWarning(fmt.Sprintf("Long reservation of more than %d hours", v.rules.LongBookingMinutes/60))
	}
	if len(own) > 0 {
		res.addWarning(MsgEditingOwnBooking)
	}
}

func formatDuration(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
