package response

import (
	"time"

	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OverrideResponse struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type FacilityResponse struct {
	ID            uuid.UUID          `json:"id"`
	OwnerID       uuid.UUID          `json:"ownerId"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug"`
	OpeningTime   string             `json:"openingTime"`
	ClosingTime   string             `json:"closingTime"`
	OperatingDays []string           `json:"operatingDays"`
	Enabled       bool               `json:"enabled"`
	PricePerHour  int64              `json:"pricePerHour"`
	Overrides     []OverrideResponse `json:"overrides"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

type FacilityListResponse struct {
	Items  []FacilityResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

type AvailabilityResponse struct {
	FacilityID       uuid.UUID      `json:"facilityId"`
	Date             string         `json:"date"`
	Available        bool           `json:"available"`
	Reason           string         `json:"reason,omitempty"`
	OpeningTime      string         `json:"openingTime"`
	ClosingTime      string         `json:"closingTime"`
	PricePerHour     int64          `json:"pricePerHour"`
	SlotMinutes      int            `json:"slotMinutes"`
	FreeSlots        []SlotResponse `json:"freeSlots"`
	OccupiedSlots    []SlotResponse `json:"occupiedSlots"`
	ReservationCount int            `json:"reservationCount"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromFacilityView(v *queries.FacilityView) FacilityResponse {
	var res FacilityResponse
	_ = copier.Copy(&res, v)
	if res.Overrides == nil {
		res.Overrides = []OverrideResponse{}
	}
	if res.OperatingDays == nil {
		res.OperatingDays = []string{}
	}
	return res
}

func FromFacilityPage(p *queries.FacilityPage) FacilityListResponse {
	items := make([]FacilityResponse, 0, len(p.Items))
	for _, v := range p.Items {
		items = append(items, FromFacilityView(v))
	}
	return FacilityListResponse{Items: items, Total: p.Total, Limit: p.Limit, Offset: p.Offset}
}

func FromAvailabilityView(v *queries.AvailabilityView) AvailabilityResponse {
	var res AvailabilityResponse
	_ = copier.Copy(&res, v)
	if res.FreeSlots == nil {
		res.FreeSlots = []SlotResponse{}
	}
	if res.OccupiedSlots == nil {
		res.OccupiedSlots = []SlotResponse{}
	}
	return res
}
