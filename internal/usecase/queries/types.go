package queries

import (
	"time"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/reservation"
	"facility-booking/internal/domain/timeofday"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type OverrideView struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type FacilityView struct {
	ID            uuid.UUID      `json:"id"`
	OwnerID       uuid.UUID      `json:"owner_id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	OpeningTime   string         `json:"opening_time"`
	ClosingTime   string         `json:"closing_time"`
	OperatingDays []string       `json:"operating_days"`
	Enabled       bool           `json:"enabled"`
	PricePerHour  int64          `json:"price_per_hour"`
	Overrides     []OverrideView `json:"overrides"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func NewFacilityView(f *facility.Facility) *FacilityView {
	days := f.OperatingDays()
	dayNames := make([]string, len(days))
	for i, d := range days {
		dayNames[i] = d.String()
	}

	overrides := f.Overrides()
	ov := make([]OverrideView, len(overrides))
	for i, o := range overrides {
		ov[i] = OverrideView{Date: o.Date, Available: o.Available, Reason: o.Reason}
	}

	return &FacilityView{
		ID:            f.ID(),
		OwnerID:       f.OwnerID(),
		Name:          f.Name(),
		Slug:          f.Slug(),
		OpeningTime:   f.OpeningTime(),
		ClosingTime:   f.ClosingTime(),
		OperatingDays: dayNames,
		Enabled:       f.IsEnabled(),
		PricePerHour:  f.PricePerHour(),
		Overrides:     ov,
		CreatedAt:     f.CreatedAt(),
		UpdatedAt:     f.UpdatedAt(),
	}
}

type ReservationView struct {
	ID              uuid.UUID `json:"id"`
	FacilityID      uuid.UUID `json:"facility_id"`
	FacilityName    string    `json:"facility_name"`
	FacilityOwnerID uuid.UUID `json:"facility_owner_id"`
	UserID          uuid.UUID `json:"user_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	DurationHours   float64   `json:"duration_hours"`
	Status          string    `json:"status"`
	TotalPrice      int64     `json:"total_price"`
	Note            *string   `json:"note,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewReservationView projects the aggregate. Facility fields are filled by the caller.
func NewReservationView(r *reservation.Reservation) *ReservationView {
	return &ReservationView{
		ID:            r.ID(),
		FacilityID:    r.FacilityID(),
		UserID:        r.UserID(),
		Date:          r.Date(),
		StartTime:     r.StartTime(),
		EndTime:       r.EndTime(),
		DurationHours: r.DurationHours(),
		Status:        r.Status().String(),
		TotalPrice:    r.Price().Amount(),
		Note:          r.Note().Ptr(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

type SlotView struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

func newSlotView(i timeofday.Interval) SlotView {
	return SlotView{Start: i.StartClock(), End: i.EndClock(), Label: i.String()}
}

type AvailabilityView struct {
	FacilityID       uuid.UUID  `json:"facility_id"`
	Date             string     `json:"date"`
	Available        bool       `json:"available"`
	Reason           string     `json:"reason,omitempty"`
	OpeningTime      string     `json:"opening_time"`
	ClosingTime      string     `json:"closing_time"`
	PricePerHour     int64      `json:"price_per_hour"`
	SlotMinutes      int        `json:"slot_minutes"`
	FreeSlots        []SlotView `json:"free_slots"`
	OccupiedSlots    []SlotView `json:"occupied_slots"`
	ReservationCount int        `json:"reservation_count"`
}

type Page struct {
	Limit  int
	Offset int
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type FacilityPage struct {
	Items  []*FacilityView `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type ReservationPage struct {
	Items  []*ReservationView `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
