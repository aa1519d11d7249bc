package booking

import "time"

// Rules are the business thresholds applied by the Validator.
type Rules struct {
	MinDurationMinutes int
	MaxDurationMinutes int
	MaxAdvanceDays     int

	// advisory thresholds, never blocking
	ShortNotice        time.Duration
	NormalHoursStart   int
	NormalHoursEnd     int
	LongBookingMinutes int
}

func DefaultRules() Rules {
	return Rules{
		MinDurationMinutes: 60,
		MaxDurationMinutes: 480,
		MaxAdvanceDays:     30,
		ShortNotice:        2 * time.Hour,
		NormalHoursStart:   8 * 60,
		NormalHoursEnd:     22 * 60,
		LongBookingMinutes: 180,
	}
}
