//go:build unit

package availability_test

import (
	"testing"

	"facility-booking/internal/domain/availability"
	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/domain/timeofday"
	"facility-booking/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iv(start, end string) timeofday.Interval {
	i, err := timeofday.NewInterval(start, end)
	if err != nil {
		panic(err)
	}
	return i
}

func TestGenerateSlots(t *testing.T) {
	open, close := 8*60, 22*60

	t.Run("hourly slots cover the day", func(t *testing.T) {
		slots := availability.GenerateSlots(open, close, 60)
		require.Len(t, slots, 14)
		assert.Equal(t, "08:00 - 09:00", slots[0].String())
		assert.Equal(t, "21:00 - 22:00", slots[13].String())
	})

	t.Run("deterministic and counted", func(t *testing.T) {
		for _, step := range []int{15, 30, 60, 120, 420, 840} {
			first := availability.GenerateSlots(open, close, step)
			second := availability.GenerateSlots(open, close, step)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Fatalf("step %d not deterministic:\n%s", step, diff)
			}
			assert.Len(t, first, (close-open)/step)
		}
	})

	t.Run("partial last slot is dropped", func(t *testing.T) {
		slots := availability.GenerateSlots(open, 10*60+30, 60)
		require.Len(t, slots, 2)
		assert.Equal(t, "09:00 - 10:00", slots[1].String())
	})

	t.Run("end of day sentinel", func(t *testing.T) {
		slots := availability.GenerateSlots(22*60, timeofday.MinutesPerDay, 60)
		require.Len(t, slots, 2)
		assert.Equal(t, "23:00 - 24:00", slots[1].String())
	})

	t.Run("non positive step", func(t *testing.T) {
		assert.Empty(t, availability.GenerateSlots(open, close, 0))
		assert.Empty(t, availability.GenerateSlots(open, close, -30))
	})
}

func TestOccupiedIntervals(t *testing.T) {
	b := func(start, end string, status reservation.Status) *reservation.Reservation {
		return builder.NewReservationBuilder().WithSlot(start, end).WithStatus(status).BuildDomain()
	}
	existing := []*reservation.Reservation{
		b("18:00", "19:00", reservation.StatusPending),
		b("09:00", "10:00", reservation.StatusCancelled),
		b("10:00", "11:00", reservation.StatusConfirmed),
		b("12:00", "13:00", reservation.StatusCompleted),
	}
	before := append([]*reservation.Reservation(nil), existing...)

	got := availability.OccupiedIntervals(existing)

	assert.Equal(t, []timeofday.Interval{iv("10:00", "11:00"), iv("18:00", "19:00")}, got)
	assert.Equal(t, before, existing, "input order must be preserved")
}

func TestFilterAvailableSlots(t *testing.T) {
	candidates := availability.GenerateSlots(8*60, 22*60, 60)
	occupied := []timeofday.Interval{iv("14:00", "15:00")}

	free := availability.FilterAvailableSlots(candidates, occupied)
	require.Len(t, free, 13)
	for _, s := range free {
		assert.NotEqual(t, "14:00 - 15:00", s.String())
	}

	t.Run("idempotent", func(t *testing.T) {
		again := availability.FilterAvailableSlots(free, occupied)
		assert.Equal(t, free, again)
	})

	t.Run("partial overlaps remove neighbours", func(t *testing.T) {
		free := availability.FilterAvailableSlots(candidates, []timeofday.Interval{iv("13:30", "14:30")})
		require.Len(t, free, 12)
		assert.True(t, availability.IsSlotFree(iv("12:00", "13:00"), []timeofday.Interval{iv("13:00", "14:00")}))
	})
}

func TestFindConflicts(t *testing.T) {
	requester := uuid.New()
	other := builder.NewReservationBuilder().WithSlot("14:00", "15:00").BuildDomain()
	own := builder.NewReservationBuilder().WithSlot("15:00", "16:00").WithUserID(requester).
		WithStatus(reservation.StatusPending).BuildDomain()
	cancelled := builder.NewReservationBuilder().WithSlot("13:00", "17:00").
		WithStatus(reservation.StatusCancelled).BuildDomain()
	existing := []*reservation.Reservation{other, own, cancelled}

	t.Run("no exclusion reports every overlap", func(t *testing.T) {
		got := availability.FindConflicts(iv("14:30", "15:30"), existing, availability.Exclusion{})
		assert.Equal(t, []*reservation.Reservation{other, own}, got.Blocking)
		assert.Empty(t, got.Own)
	})

	t.Run("requester overlaps are reported separately", func(t *testing.T) {
		got := availability.FindConflicts(iv("14:30", "15:30"), existing, availability.Exclusion{RequesterID: &requester})
		assert.Equal(t, []*reservation.Reservation{other}, got.Blocking)
		assert.Equal(t, []*reservation.Reservation{own}, got.Own)
	})

	t.Run("edited reservation is skipped", func(t *testing.T) {
		id := own.ID()
		got := availability.FindConflicts(iv("15:00", "16:00"), existing, availability.Exclusion{ReservationID: &id})
		assert.Empty(t, got.Blocking)
		assert.Empty(t, got.Own)
	})

	t.Run("cancelled never conflicts", func(t *testing.T) {
		got := availability.FindConflicts(iv("13:00", "14:00"), existing, availability.Exclusion{})
		assert.Empty(t, got.Blocking)
	})
}
