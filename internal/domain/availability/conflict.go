package availability

import (
	"sort"

	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/domain/timeofday"

	"github.com/google/uuid"
)

// OccupiedIntervals projects the blocking reservations onto their intervals,
// ordered by start. The input slice is left untouched.
func OccupiedIntervals(existing []*reservation.Reservation) []timeofday.Interval {
	out := make([]timeofday.Interval, 0, len(existing))
	for _, r := range existing {
		if r == nil || !r.Blocks() {
			continue
		}
		out = append(out, r.Slot())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start == out[j].Start {
			return out[i].End < out[j].End
		}
		return out[i].Start < out[j].Start
	})
	return out
}

func IsSlotFree(slot timeofday.Interval, occupied []timeofday.Interval) bool {
	for _, o := range occupied {
		if slot.Overlaps(o) {
			return false
		}
	}
	return true
}

// FilterAvailableSlots keeps the free candidates in their original order.
func FilterAvailableSlots(candidates, occupied []timeofday.Interval) []timeofday.Interval {
	out := make([]timeofday.Interval, 0, len(candidates))
	for _, c := range candidates {
		if IsSlotFree(c, occupied) {
			out = append(out, c)
		}
	}
	return out
}

// Exclusion identifies reservations that must not count against a proposal.
type Exclusion struct {
	ReservationID *uuid.UUID
	RequesterID   *uuid.UUID
}

// Conflicts splits the blocking reservations overlapping a proposal.
type Conflicts struct {
	Blocking []*reservation.Reservation
	Own      []*reservation.Reservation
}

// FindConflicts checks a single proposed interval against every existing
// reservation. The reservation being edited is skipped entirely; overlaps with
// other reservations of the requester are reported as Own instead of Blocking.
func FindConflicts(proposed timeofday.Interval, existing []*reservation.Reservation, excl Exclusion) Conflicts {
	var c Conflicts
	for _, r := range existing {
		if r == nil || !r.Blocks() {
			continue
		}
		if excl.ReservationID != nil && r.ID() == *excl.ReservationID {
			continue
		}
		if !proposed.Overlaps(r.Slot()) {
			continue
		}
		if excl.RequesterID != nil && r.BelongsTo(*excl.RequesterID) {
			c.Own = append(c.Own, r)
			continue
		}
		c.Blocking = append(c.Blocking, r)
	}
	return c
}
