//go:build unit || e2e

package builder

import (
	"time"

	"facility-booking/internal/domain/facility"
	reqdto "facility-booking/internal/handler/dto/request"
	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type FacilityBuilder struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Name          string
	OpeningTime   string
	ClosingTime   string
	OperatingDays []facility.Weekday
	Enabled       bool
	PricePerHour  int64
	Overrides     []facility.Override
	CreatedAt     time.Time
}

func NewFacilityBuilder() *FacilityBuilder {
	return &FacilityBuilder{
		ID:            uuid.New(),
		OwnerID:       uuid.New(),
		Name:          "Cancha Central",
		OpeningTime:   "08:00",
		ClosingTime:   "22:00",
		OperatingDays: facility.AllWeekdays(),
		Enabled:       true,
		PricePerHour:  1000,
		Overrides:     []facility.Override{},
		CreatedAt:     time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *FacilityBuilder) With(mutate func(*FacilityBuilder)) *FacilityBuilder {
	mutate(b)
	return b
}

func (b *FacilityBuilder) WithID(id uuid.UUID) *FacilityBuilder {
	b.ID = id
	return b
}

func (b *FacilityBuilder) WithOwnerID(id uuid.UUID) *FacilityBuilder {
	b.OwnerID = id
	return b
}

func (b *FacilityBuilder) WithName(name string) *FacilityBuilder {
	b.Name = name
	return b
}

func (b *FacilityBuilder) WithHours(opening, closing string) *FacilityBuilder {
	b.OpeningTime = opening
	b.ClosingTime = closing
	return b
}

func (b *FacilityBuilder) WithOperatingDays(days ...facility.Weekday) *FacilityBuilder {
	b.OperatingDays = days
	return b
}

func (b *FacilityBuilder) WithPricePerHour(price int64) *FacilityBuilder {
	b.PricePerHour = price
	return b
}

func (b *FacilityBuilder) WithOverride(date string, available bool, reason string) *FacilityBuilder {
	b.Overrides = append(b.Overrides, facility.Override{Date: date, Available: available, Reason: reason})
	return b
}

func (b *FacilityBuilder) Disabled() *FacilityBuilder {
	b.Enabled = false
	return b
}

func (b *FacilityBuilder) schedule() facility.Schedule {
	return facility.Schedule{
		OpeningTime:   b.OpeningTime,
		ClosingTime:   b.ClosingTime,
		OperatingDays: b.OperatingDays,
	}
}

func (b *FacilityBuilder) BuildDomain() (*facility.Facility, error) {
	return facility.Reconstruct(
		b.ID, b.OwnerID,
		b.Name, "",
		b.schedule(),
		b.Enabled,
		b.PricePerHour,
		b.Overrides,
		b.CreatedAt, b.CreatedAt,
	)
}

// MustBuild panics on invalid builder state; use only with valid fixtures.
func (b *FacilityBuilder) MustBuild() *facility.Facility {
	f, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return f
}

func (b *FacilityBuilder) BuildCreateRequestDTO() reqdto.CreateFacilityRequest {
	days := make([]string, len(b.OperatingDays))
	for i, d := range b.OperatingDays {
		days[i] = d.String()
	}
	return reqdto.CreateFacilityRequest{
		Name:          b.Name,
		OwnerID:       b.OwnerID,
		OpeningTime:   b.OpeningTime,
		ClosingTime:   b.ClosingTime,
		OperatingDays: days,
		PricePerHour:  b.PricePerHour,
	}
}

func (b *FacilityBuilder) BuildView() *queries.FacilityView {
	return queries.NewFacilityView(b.MustBuild())
}
