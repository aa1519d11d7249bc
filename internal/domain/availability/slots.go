package availability

import "facility-booking/internal/domain/timeofday"

// GenerateSlots steps from open in increments of step minutes, yielding every
// slot that ends at or before close. A non-positive step yields nothing.
func GenerateSlots(open, close, step int) []timeofday.Interval {
	if step <= 0 || close <= open {
		return []timeofday.Interval{}
	}
	slots := make([]timeofday.Interval, 0, (close-open)/step)
	for start := open; start+step <= close; start += step {
		slots = append(slots, timeofday.Interval{Start: start, End: start + step})
	}
	return slots
}
