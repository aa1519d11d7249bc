package timeofday

import "fmt"

// Interval is a half-open [Start, End) range of minutes within a day.
type Interval struct {
	Start int
	End   int
}

func NewInterval(start, end string) (Interval, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Contains reports whether other lies entirely within i.
func (i Interval) Contains(other Interval) bool {
	return other.Start >= i.Start && other.End <= i.End
}

func (i Interval) Minutes() int {
	return i.End - i.Start
}

func (i Interval) IsValid() bool {
	return i.End > i.Start
}

func (i Interval) StartClock() string {
	return FromMinutes(i.Start)
}

func (i Interval) EndClock() string {
	return FromMinutes(i.End)
}

func (i Interval) String() string {
	return fmt.Sprintf("%s - %s", i.StartClock(), i.EndClock())
}
