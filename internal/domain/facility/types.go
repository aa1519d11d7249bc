package facility

import (
	"strings"
	"time"
)

// Weekday is the lowercase, unaccented token for a day of the week.
type Weekday string

const (
	Domingo   Weekday = "domingo"
	Lunes     Weekday = "lunes"
	Martes    Weekday = "martes"
	Miercoles Weekday = "miercoles"
	Jueves    Weekday = "jueves"
	Viernes   Weekday = "viernes"
	Sabado    Weekday = "sabado"
)

// indexed by time.Weekday, Sunday first
var weekdays = [7]Weekday{Domingo, Lunes, Martes, Miercoles, Jueves, Viernes, Sabado}

func AllWeekdays() []Weekday {
	out := make([]Weekday, len(weekdays))
	copy(out, weekdays[:])
	return out
}

func WeekdayOf(t time.Time) Weekday {
	return weekdays[t.Weekday()]
}

func ParseWeekday(s string) (Weekday, error) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	if !w.IsValid() {
		return "", ErrInvalidWeekday
	}
	return w, nil
}

func (w Weekday) IsValid() bool {
	for _, d := range weekdays {
		if d == w {
			return true
		}
	}
	return false
}

func (w Weekday) index() int {
	for i, d := range weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

func (w Weekday) String() string {
	return string(w)
}

// Override is a date-specific exception to the weekly schedule.
type Override struct {
	Date      string
	Available bool
	Reason    string
}

// Availability is the outcome of resolving a facility against a date.
type Availability struct {
	Available bool
	Reason    string
}
