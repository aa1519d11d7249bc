package facility

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"facility-booking/internal/domain/timeofday"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrInvalidName      = errors.New("facility name is required")
	ErrInvalidHours     = errors.New("closing time must be after opening time")
	ErrInvalidPrice     = errors.New("price per hour must be positive")
	ErrInvalidWeekday   = errors.New("invalid weekday")
	ErrInvalidOverride  = errors.New("invalid override date")
	ErrOverrideNotFound = errors.New("override not found")
)

const (
	ReasonClosed          = "Facility is closed"
	ReasonDefaultOverride = "Facility is unavailable on this date"
)

type Facility struct {
	id           uuid.UUID
	ownerID      uuid.UUID
	name         string
	slug         string
	hours        timeofday.Interval
	operatingDay [7]bool
	enabled      bool
	pricePerHour int64
	overrides    []Override
	createdAt    time.Time
	updatedAt    time.Time
}

type Schedule struct {
	OpeningTime   string
	ClosingTime   string
	OperatingDays []Weekday
}

func NewFacility(ownerID uuid.UUID, name string, schedule Schedule, pricePerHour int64, now time.Time) (*Facility, error) {
	f := &Facility{
		id:        uuid.New(),
		ownerID:   ownerID,
		enabled:   true,
		overrides: []Override{},
		createdAt: now,
		updatedAt: now,
	}
	if err := f.rename(name); err != nil {
		return nil, err
	}
	if err := f.applySchedule(schedule); err != nil {
		return nil, err
	}
	if err := f.setPrice(pricePerHour); err != nil {
		return nil, err
	}
	return f, nil
}

// Reconstruct rebuilds a persisted facility. Overrides are normalized so that
// every date appears once, the last entry for a date winning.
func Reconstruct(
	id, ownerID uuid.UUID,
	name, slugValue string,
	schedule Schedule,
	enabled bool,
	pricePerHour int64,
	overrides []Override,
	createdAt, updatedAt time.Time,
) (*Facility, error) {
	f := &Facility{
		id:           id,
		ownerID:      ownerID,
		name:         name,
		slug:         slugValue,
		enabled:      enabled,
		pricePerHour: pricePerHour,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
	if err := f.applySchedule(schedule); err != nil {
		return nil, err
	}
	if f.slug == "" {
		f.slug = slug.Make(name)
	}
	f.overrides = normalizeOverrides(overrides)
	return f, nil
}

func normalizeOverrides(in []Override) []Override {
	byDate := make(map[string]int, len(in))
	out := make([]Override, 0, len(in))
	for _, o := range in {
		if o.Available {
			o.Reason = ""
		}
		if i, ok := byDate[o.Date]; ok {
			out[i] = o
			continue
		}
		byDate[o.Date] = len(out)
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (f *Facility) rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	f.name = name
	f.slug = slug.Make(name)
	return nil
}

func (f *Facility) setPrice(pricePerHour int64) error {
	if pricePerHour <= 0 {
		return ErrInvalidPrice
	}
	f.pricePerHour = pricePerHour
	return nil
}

func (f *Facility) applySchedule(s Schedule) error {
	hours, err := timeofday.NewInterval(s.OpeningTime, s.ClosingTime)
	if err != nil {
		return err
	}
	if hours.Start >= timeofday.MinutesPerDay || !hours.IsValid() {
		return ErrInvalidHours
	}

	var days [7]bool
	if len(s.OperatingDays) == 0 {
		for i := range days {
			days[i] = true
		}
	}
	for _, d := range s.OperatingDays {
		idx := d.index()
		if idx < 0 {
			return fmt.Errorf("%w: %q", ErrInvalidWeekday, d)
		}
		days[idx] = true
	}

	f.hours = hours
	f.operatingDay = days
	return nil
}

func (f *Facility) ID() uuid.UUID             { return f.id }
func (f *Facility) OwnerID() uuid.UUID        { return f.ownerID }
func (f *Facility) Name() string              { return f.name }
func (f *Facility) Slug() string              { return f.slug }
func (f *Facility) Hours() timeofday.Interval { return f.hours }
func (f *Facility) OpeningTime() string       { return f.hours.StartClock() }
func (f *Facility) ClosingTime() string       { return f.hours.EndClock() }
func (f *Facility) IsEnabled() bool           { return f.enabled }
func (f *Facility) PricePerHour() int64       { return f.pricePerHour }
func (f *Facility) CreatedAt() time.Time      { return f.createdAt }
func (f *Facility) UpdatedAt() time.Time      { return f.updatedAt }

// OperatingDays lists operating weekdays, Sunday first.
func (f *Facility) OperatingDays() []Weekday {
	out := make([]Weekday, 0, len(weekdays))
	for i, open := range f.operatingDay {
		if open {
			out = append(out, weekdays[i])
		}
	}
	return out
}

func (f *Facility) Overrides() []Override {
	out := make([]Override, len(f.overrides))
	copy(out, f.overrides)
	return out
}

func (f *Facility) IsOperatingDay(date time.Time) bool {
	return f.operatingDay[date.Weekday()]
}

// DateOverride looks up an override by exact date string.
func (f *Facility) DateOverride(date string) (Override, bool) {
	for _, o := range f.overrides {
		if o.Date == date {
			return o, true
		}
	}
	return Override{}, false
}

// ResolveAvailability applies, in order, the enabled flag, the weekly schedule
// and the date override. The first failing condition determines the reason.
func (f *Facility) ResolveAvailability(date time.Time) Availability {
	if !f.enabled {
		return Availability{Reason: ReasonClosed}
	}
	if !f.IsOperatingDay(date) {
		return Availability{Reason: fmt.Sprintf("Facility does not operate on %s", WeekdayOf(date))}
	}
	if o, ok := f.DateOverride(timeofday.FormatDate(date)); ok && !o.Available {
		reason := o.Reason
		if reason == "" {
			reason = ReasonDefaultOverride
		}
		return Availability{Reason: reason}
	}
	return Availability{Available: true}
}

func (f *Facility) UpdateDetails(name string, pricePerHour int64, now time.Time) error {
	if err := f.rename(name); err != nil {
		return err
	}
	if err := f.setPrice(pricePerHour); err != nil {
		return err
	}
	f.updatedAt = now
	return nil
}

func (f *Facility) UpdateSchedule(s Schedule, now time.Time) error {
	if err := f.applySchedule(s); err != nil {
		return err
	}
	f.updatedAt = now
	return nil
}

func (f *Facility) Enable(now time.Time) {
	f.enabled = true
	f.updatedAt = now
}

// Disable soft-disables the facility. Facilities are never deleted.
func (f *Facility) Disable(now time.Time) {
	f.enabled = false
	f.updatedAt = now
}

// SetOverride inserts or replaces the override for o.Date.
func (f *Facility) SetOverride(o Override, now time.Time) error {
	if !timeofday.IsDate(o.Date) {
		return ErrInvalidOverride
	}
	f.overrides = normalizeOverrides(append(f.overrides, o))
	f.updatedAt = now
	return nil
}

func (f *Facility) RemoveOverride(date string, now time.Time) error {
	for i, o := range f.overrides {
		if o.Date == date {
			f.overrides = append(f.overrides[:i:i], f.overrides[i+1:]...)
			f.updatedAt = now
			return nil
		}
	}
	return ErrOverrideNotFound
}

// OwnedBy reports whether userID owns the facility.
func (f *Facility) OwnedBy(userID uuid.UUID) bool {
	return f.ownerID == userID
}
