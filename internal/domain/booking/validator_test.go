//go:build unit

package booking_test

import (
	"testing"
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/reservation"
	"facility-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturday morning; 2025-03-10 is the following Monday.
var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

const monday = "2025-03-10"

func req(start, end string) booking.Request {
	return booking.Request{Date: monday, StartTime: start, EndTime: end}
}

func newValidator() *booking.Validator {
	return booking.NewValidator(booking.DefaultRules())
}

func TestValidate_Valid(t *testing.T) {
	f := builder.NewFacilityBuilder().WithPricePerHour(1000).MustBuild()

	res := newValidator().Validate(f, nil, req("10:00", "11:30"), now)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Conflicts)
	require.NotNil(t, res.EstimatedPrice)
	assert.Equal(t, int64(1500), *res.EstimatedPrice)
}

func TestValidate_ShortCircuits(t *testing.T) {
	f := builder.NewFacilityBuilder().MustBuild()

	t.Run("format errors stop everything", func(t *testing.T) {
		res := newValidator().Validate(nil, nil, booking.Request{Date: "10-03-2025", StartTime: "25:00", EndTime: "9"}, now)
		assert.False(t, res.Valid)
		assert.Equal(t, []string{booking.MsgInvalidDate, booking.MsgInvalidStartTime, booking.MsgInvalidEndTime}, res.Errors)
		assert.Nil(t, res.EstimatedPrice)
	})

	t.Run("end of day is a valid end time", func(t *testing.T) {
		assert.Empty(t, newValidator().CheckFormat(req("22:00", "24:00")))
		assert.Equal(t, []string{booking.MsgInvalidStartTime}, newValidator().CheckFormat(req("24:00", "24:00")))
	})

	t.Run("missing facility yields a single error", func(t *testing.T) {
		res := newValidator().Validate(nil, nil, req("10:00", "11:00"), now)
		assert.False(t, res.Valid)
		assert.Equal(t, []string{booking.MsgFacilityNotFound}, res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("facility is used when present", func(t *testing.T) {
		res := newValidator().Validate(f, nil, req("10:00", "11:00"), now)
		assert.True(t, res.Valid)
	})
}

func TestValidate_AccumulatesInOrder(t *testing.T) {
	f := builder.NewFacilityBuilder().
		Disabled().
		WithOperatingDays(facility.Martes).
		WithOverride("2025-02-24", false, "Torneo").
		MustBuild()

	res := newValidator().Validate(f, nil, booking.Request{Date: "2025-02-24", StartTime: "23:00", EndTime: "07:00"}, now)

	assert.False(t, res.Valid)
	assert.Equal(t, []string{
		booking.MsgFacilityDisabled,
		booking.MsgPastDate,
		"Facility does not operate on lunes",
		"Requested time must be within operating hours (08:00 - 22:00)",
		booking.MsgEndBeforeStart,
		"Facility is unavailable on 2025-02-24: Torneo",
	}, res.Errors)
	assert.Nil(t, res.EstimatedPrice)
}

func TestValidate_Rules(t *testing.T) {
	f := builder.NewFacilityBuilder().MustBuild()

	cases := []struct {
		name      string
		request   booking.Request
		wantErrs  []string
		wantValid bool
	}{
		{
			name:     "scenario E: thirty minutes is too short",
			request:  req("10:00", "10:30"),
			wantErrs: []string{"Reservation duration must be between 60 and 480 minutes"},
		},
		{
			name:      "exactly one hour",
			request:   req("10:00", "11:00"),
			wantValid: true,
		},
		{
			name:      "exactly eight hours",
			request:   req("09:00", "17:00"),
			wantValid: true,
		},
		{
			name:     "more than eight hours",
			request:  req("08:00", "16:30"),
			wantErrs: []string{"Reservation duration must be between 60 and 480 minutes"},
		},
		{
			name:     "equal start and end skips duration check",
			request:  req("10:00", "10:00"),
			wantErrs: []string{booking.MsgEndBeforeStart},
		},
		{
			name:     "beyond advance window",
			request:  booking.Request{Date: "2025-04-01", StartTime: "10:00", EndTime: "11:00"},
			wantErrs: []string{"Cannot book more than 30 days in advance"},
		},
		{
			name:      "last day of advance window",
			request:   booking.Request{Date: "2025-03-31", StartTime: "10:00", EndTime: "11:00"},
			wantValid: true,
		},
		{
			name:     "yesterday",
			request:  booking.Request{Date: "2025-02-28", StartTime: "10:00", EndTime: "11:00"},
			wantErrs: []string{booking.MsgPastDate},
		},
		{
			name:     "ends after closing",
			request:  req("21:00", "23:00"),
			wantErrs: []string{"Requested time must be within operating hours (08:00 - 22:00)"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newValidator().Validate(f, nil, tc.request, now)
			assert.Equal(t, tc.wantValid, res.Valid)
			if tc.wantValid {
				assert.Empty(t, res.Errors)
				return
			}
			assert.Equal(t, tc.wantErrs, res.Errors)
		})
	}

	t.Run("today is bookable", func(t *testing.T) {
		res := newValidator().Validate(f, nil, booking.Request{Date: "2025-03-01", StartTime: "15:00", EndTime: "16:00"}, now)
		assert.True(t, res.Valid)
	})
}

func TestValidate_Conflicts(t *testing.T) {
	f := builder.NewFacilityBuilder().MustBuild()
	existing := builder.NewReservationBuilder().
		WithFacilityID(f.ID()).
		WithDate(monday).
		WithSlot("14:00", "15:00").
		WithStatus(reservation.StatusConfirmed).
		BuildDomain()

	t.Run("scenario C: overlapping request", func(t *testing.T) {
		res := newValidator().Validate(f, []*reservation.Reservation{existing}, req("13:30", "14:30"), now)

		assert.False(t, res.Valid)
		assert.Equal(t, []string{"Scheduling conflict with 1 existing reservation(s)"}, res.Errors)
		require.Len(t, res.Conflicts, 1)
		assert.Equal(t, booking.Conflict{
			ReservationID: existing.ID(),
			StartTime:     "14:00",
			EndTime:       "15:00",
			Status:        "confirmed",
		}, res.Conflicts[0])
		assert.True(t, res.HasOnlyConflicts())
	})

	t.Run("back to back is fine", func(t *testing.T) {
		res := newValidator().Validate(f, []*reservation.Reservation{existing}, req("15:00", "16:00"), now)
		assert.True(t, res.Valid)
	})

	t.Run("cancelled and completed never block", func(t *testing.T) {
		for _, st := range []reservation.Status{reservation.StatusCancelled, reservation.StatusCompleted} {
			r := builder.NewReservationBuilder().WithFacilityID(f.ID()).WithDate(monday).
				WithSlot("14:00", "15:00").WithStatus(st).BuildDomain()
			res := newValidator().Validate(f, []*reservation.Reservation{r}, req("14:00", "15:00"), now)
			assert.True(t, res.Valid, "status %s", st)
			assert.Empty(t, res.Conflicts)
		}
	})

	t.Run("other dates and facilities are ignored", func(t *testing.T) {
		otherDay := builder.NewReservationBuilder().WithFacilityID(f.ID()).WithDate("2025-03-11").
			WithSlot("14:00", "15:00").BuildDomain()
		otherFacility := builder.NewReservationBuilder().WithDate(monday).WithSlot("14:00", "15:00").BuildDomain()
		res := newValidator().Validate(f, []*reservation.Reservation{otherDay, otherFacility}, req("14:00", "15:00"), now)
		assert.True(t, res.Valid)
	})

	t.Run("self exclusion by requester", func(t *testing.T) {
		requester := uuid.New()
		own := builder.NewReservationBuilder().WithFacilityID(f.ID()).WithDate(monday).
			WithSlot("16:00", "17:00").WithUserID(requester).WithStatus(reservation.StatusPending).BuildDomain()

		r := req("16:00", "17:00")
		r.RequesterID = &requester
		res := newValidator().Validate(f, []*reservation.Reservation{own}, r, now)

		assert.True(t, res.Valid)
		assert.Empty(t, res.Conflicts)
		assert.Contains(t, res.Warnings, booking.MsgEditingOwnBooking)
	})

	t.Run("self exclusion by reservation id", func(t *testing.T) {
		id := existing.ID()
		r := req("14:00", "15:00")
		r.ExcludeReservationID = &id
		res := newValidator().Validate(f, []*reservation.Reservation{existing}, r, now)

		assert.True(t, res.Valid)
		assert.NotContains(t, res.Warnings, booking.MsgEditingOwnBooking)
	})
}

func TestValidate_Warnings(t *testing.T) {
	f := builder.NewFacilityBuilder().WithHours("06:00", "24:00").MustBuild()

	t.Run("short notice, early start and long booking in order", func(t *testing.T) {
		res := newValidator().Validate(f, nil, booking.Request{Date: "2025-03-01", StartTime: "11:00", EndTime: "15:00"}, now)
		assert.True(t, res.Valid)
		assert.Equal(t, []string{
			"Less than 2 hours notice before the reservation starts",
			"Long reservation of more than 3 hours",
		}, res.Warnings)
	})

	t.Run("outside normal hours", func(t *testing.T) {
		early := newValidator().Validate(f, nil, req("07:00", "08:00"), now)
		assert.Equal(t, []string{"Reservation starts outside normal hours (08:00 - 22:00)"}, early.Warnings)

		late := newValidator().Validate(f, nil, req("22:30", "24:00"), now)
		assert.Equal(t, []string{"Reservation starts outside normal hours (08:00 - 22:00)"}, late.Warnings)

		boundary := newValidator().Validate(f, nil, req("22:00", "23:00"), now)
		assert.Empty(t, boundary.Warnings)
	})

	t.Run("warnings are reported on invalid requests too", func(t *testing.T) {
		res := newValidator().Validate(f, nil, req("06:00", "06:30"), now)
		assert.False(t, res.Valid)
		assert.Equal(t, []string{"Reservation starts outside normal hours (08:00 - 22:00)"}, res.Warnings)
	})
}
