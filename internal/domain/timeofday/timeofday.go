package timeofday

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60
	EndOfDay      = "24:00"
)

var ErrInvalidFormat = errors.New("invalid clock format, expected HH:MM")

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsClock reports whether s is an intra-day H:MM or HH:MM value.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// IsBoundaryClock also accepts the end-of-day sentinel "24:00".
func IsBoundaryClock(s string) bool {
	return s == EndOfDay || IsClock(s)
}

// ToMinutes converts a clock string into minutes since midnight.
// "24:00" maps to 1440 and is never wrapped to zero.
func ToMinutes(clock string) (int, error) {
	if clock == EndOfDay {
		return MinutesPerDay, nil
	}
	if !IsClock(clock) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}

	h, m, _ := strings.Cut(clock, ":")
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, clock)
	}

	return hours*60 + minutes, nil
}

// MustMinutes is ToMinutes for values that were validated upstream.
func MustMinutes(clock string) int {
	m, err := ToMinutes(clock)
	if err != nil {
		panic(err)
	}
	return m
}

// FromMinutes renders minutes as a zero-padded HH:MM string.
func FromMinutes(minutes int) string {
	if minutes == MinutesPerDay {
		return EndOfDay
	}
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether [startA, endA) and [startB, endB) share any minute.
// Touching intervals do not overlap.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && endA > startB
}
