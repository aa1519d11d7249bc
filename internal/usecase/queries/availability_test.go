//go:build unit

package queries_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/infra"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/queries"
	"facility-booking/tests/common/builder"
	queriesmock "facility-booking/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func slots(pairs ...string) []queries.SlotView {
	out := make([]queries.SlotView, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, queries.SlotView{Start: pairs[i], End: pairs[i+1], Label: pairs[i] + " - " + pairs[i+1]})
	}
	return out
}

func booked(f *facility.Facility, start, end string, status reservation.Status) *reservation.Reservation {
	return builder.NewReservationBuilder().
		WithFacilityID(f.ID()).
		WithSlot(start, end).
		WithStatus(status).
		BuildDomain()
}

func TestAvailabilityQuery(t *testing.T) {
	ctx := context.Background()
	// 2025-03-10 is a Monday (lunes).
	const date = "2025-03-10"

	type testCase struct {
		name       string
		facility   *builder.FacilityBuilder
		existing   []reservation.Status
		booked     [][2]string
		duration   *int
		wantAvail  bool
		wantReason string
		wantFree   []queries.SlotView
		wantBusy   []queries.SlotView
	}
	ninety := 90

	testCases := []testCase{
		{
			name:      "empty day yields hourly slots",
			facility:  builder.NewFacilityBuilder().WithHours("08:00", "12:00"),
			wantAvail: true,
			wantFree:  slots("08:00", "09:00", "09:00", "10:00", "10:00", "11:00", "11:00", "12:00"),
			wantBusy:  []queries.SlotView{},
		},
		{
			name:      "blocking reservations remove overlapping slots",
			facility:  builder.NewFacilityBuilder().WithHours("08:00", "12:00"),
			booked:    [][2]string{{"09:30", "10:30"}, {"11:00", "12:00"}},
			existing:  []reservation.Status{reservation.StatusConfirmed, reservation.StatusPending},
			wantAvail: true,
			wantFree:  slots("08:00", "09:00"),
			wantBusy:  slots("09:30", "10:30", "11:00", "12:00"),
		},
		{
			name:      "cancelled and completed bookings free their slot",
			facility:  builder.NewFacilityBuilder().WithHours("08:00", "10:00"),
			booked:    [][2]string{{"08:00", "09:00"}, {"09:00", "10:00"}},
			existing:  []reservation.Status{reservation.StatusCancelled, reservation.StatusCompleted},
			wantAvail: true,
			wantFree:  slots("08:00", "09:00", "09:00", "10:00"),
			wantBusy:  []queries.SlotView{},
		},
		{
			name:      "custom duration drops the trailing partial slot",
			facility:  builder.NewFacilityBuilder().WithHours("08:00", "12:00"),
			duration:  &ninety,
			wantAvail: true,
			wantFree:  slots("08:00", "09:30", "09:30", "11:00"),
			wantBusy:  []queries.SlotView{},
		},
		{
			name:      "closing at midnight includes the last hour",
			facility:  builder.NewFacilityBuilder().WithHours("22:00", "24:00"),
			wantAvail: true,
			wantFree:  slots("22:00", "23:00", "23:00", "24:00"),
			wantBusy:  []queries.SlotView{},
		},
		{
			name:       "disabled facility",
			facility:   builder.NewFacilityBuilder().Disabled(),
			wantReason: facility.ReasonClosed,
			wantFree:   []queries.SlotView{},
			wantBusy:   []queries.SlotView{},
		},
		{
			name:       "non operating weekday",
			facility:   builder.NewFacilityBuilder().WithOperatingDays(facility.Sabado, facility.Domingo),
			wantReason: "Facility does not operate on lunes",
			wantFree:   []queries.SlotView{},
			wantBusy:   []queries.SlotView{},
		},
		{
			name:       "closed override with reason",
			facility:   builder.NewFacilityBuilder().WithOverride(date, false, "Mantenimiento"),
			wantReason: "Mantenimiento",
			wantFree:   []queries.SlotView{},
			wantBusy:   []queries.SlotView{},
		},
		{
			name:       "closed override without reason",
			facility:   builder.NewFacilityBuilder().WithOverride(date, false, ""),
			wantReason: facility.ReasonDefaultOverride,
			wantFree:   []queries.SlotView{},
			wantBusy:   []queries.SlotView{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			facilities := queriesmock.NewMockFacilityReadStore(ctrl)
			reservations := queriesmock.NewMockReservationReadStore(ctrl)
			q := queries.NewAvailabilityQueries(facilities, reservations, time.UTC, 60)

			f := tc.facility.MustBuild()
			facilities.EXPECT().FindByID(gomock.Any(), f.ID()).Return(f, nil).Times(1)
			if tc.wantAvail {
				existing := make([]*reservation.Reservation, len(tc.booked))
				for i, b := range tc.booked {
					existing[i] = booked(f, b[0], b[1], tc.existing[i])
				}
				reservations.EXPECT().ListForDay(gomock.Any(), f.ID(), date).Return(existing, nil).Times(1)
			}

			view, err := q.Query(ctx, f.ID(), date, tc.duration)

			require.NoError(t, err)
			assert.Equal(t, tc.wantAvail, view.Available)
			assert.Equal(t, tc.wantReason, view.Reason)
			if diff := cmp.Diff(tc.wantFree, view.FreeSlots); diff != "" {
				t.Errorf("free slots mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantBusy, view.OccupiedSlots); diff != "" {
				t.Errorf("occupied slots mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, len(tc.wantBusy), view.ReservationCount)
		})
	}

	t.Run("errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		facilities := queriesmock.NewMockFacilityReadStore(ctrl)
		reservations := queriesmock.NewMockReservationReadStore(ctrl)
		q := queries.NewAvailabilityQueries(facilities, reservations, nil, 0)
		id := uuid.New()

		_, err := q.Query(ctx, id, "2025-02-30", nil)
		assert.ErrorIs(t, err, errs.ErrInvalidFormat)

		zero := 0
		_, err = q.Query(ctx, id, date, &zero)
		assert.ErrorIs(t, err, errs.ErrInvalidFormat)

		facilities.EXPECT().FindByID(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("facility not found", nil, infra.KindNotFound)).Times(1)
		_, err = q.Query(ctx, id, date, nil)
		assert.ErrorIs(t, err, errs.ErrFacilityNotFound)

		f := builder.NewFacilityBuilder().MustBuild()
		facilities.EXPECT().FindByID(gomock.Any(), f.ID()).Return(f, nil).Times(1)
		reservations.EXPECT().ListForDay(gomock.Any(), f.ID(), date).
			Return(nil, infra.WrapRepoErr("list", errors.New("timeout"))).Times(1)
		_, err = q.Query(ctx, f.ID(), date, nil)
		assert.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})
}
