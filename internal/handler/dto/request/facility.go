package request

import (
	"facility-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateFacilityRequest struct {
	Name          string    `json:"name" binding:"required,max=120"`
	OwnerID       uuid.UUID `json:"owner_id"`
	OpeningTime   string    `json:"opening_time" binding:"required,clock"`
	ClosingTime   string    `json:"closing_time" binding:"required,boundary_clock"`
	OperatingDays []string  `json:"operating_days" binding:"required,min=1,max=7,dive,weekday"`
	PricePerHour  int64     `json:"price_per_hour" binding:"required,gt=0"`
}

func (r CreateFacilityRequest) ToInput() commands.CreateFacilityInput {
	return commands.CreateFacilityInput{
		FacilityInput: commands.FacilityInput{
			Name:          r.Name,
			OpeningTime:   r.OpeningTime,
			ClosingTime:   r.ClosingTime,
			OperatingDays: r.OperatingDays,
			PricePerHour:  r.PricePerHour,
		},
		OwnerID: r.OwnerID,
	}
}

type UpdateFacilityRequest struct {
	Name          string   `json:"name" binding:"required,max=120"`
	OpeningTime   string   `json:"opening_time" binding:"required,clock"`
	ClosingTime   string   `json:"closing_time" binding:"required,boundary_clock"`
	OperatingDays []string `json:"operating_days" binding:"required,min=1,max=7,dive,weekday"`
	PricePerHour  int64    `json:"price_per_hour" binding:"required,gt=0"`
}

func (r UpdateFacilityRequest) ToInput() commands.FacilityInput {
	return commands.FacilityInput{
		Name:          r.Name,
		OpeningTime:   r.OpeningTime,
		ClosingTime:   r.ClosingTime,
		OperatingDays: r.OperatingDays,
		PricePerHour:  r.PricePerHour,
	}
}

type SetFacilityStatusRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// OverrideRequest is the body of PUT /facilities/:id/overrides/:date.
type OverrideRequest struct {
	Available *bool  `json:"available" binding:"required"`
	Reason    string `json:"reason" binding:"max=200"`
}

func (r OverrideRequest) ToInput(date string) commands.OverrideInput {
	return commands.OverrideInput{
		Date:      date,
		Available: *r.Available,
		Reason:    r.Reason,
	}
}

type ListFacilitiesQuery struct {
	Limit           int  `form:"limit" binding:"gte=0,lte=100"`
	Offset          int  `form:"offset" binding:"gte=0"`
	IncludeDisabled bool `form:"include_disabled"`
}

type AvailabilityQuery struct {
	Date     string `form:"date" binding:"required,date"`
	Duration *int   `form:"duration" binding:"omitempty,gt=0,lte=1440"`
}

type DayQuery struct {
	Date string `form:"date" binding:"required,date"`
}
