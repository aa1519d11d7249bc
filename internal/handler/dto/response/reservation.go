package response

import (
	"time"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID            uuid.UUID `json:"id"`
	FacilityID    uuid.UUID `json:"facilityId"`
	FacilityName  string    `json:"facilityName"`
	UserID        uuid.UUID `json:"userId"`
	Date          string    `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	DurationHours float64   `json:"durationHours"`
	Status        string    `json:"status"`
	TotalPrice    int64     `json:"totalPrice"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ReservationListResponse struct {
	Items  []ReservationResponse `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

type ConflictResponse struct {
	ReservationID uuid.UUID `json:"reservationId"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
}

// ValidationResultResponse mirrors booking.Result. Errors and Warnings are
// always arrays so clients can render them without nil checks.
type ValidationResultResponse struct {
	Valid          bool               `json:"valid"`
	Errors         []string           `json:"errors"`
	Warnings       []string           `json:"warnings"`
	EstimatedPrice *int64             `json:"estimatedPrice,omitempty"`
	Conflicts      []ConflictResponse `json:"conflicts,omitempty"`
}

func FromReservationView(v *queries.ReservationView) ReservationResponse {
	var res ReservationResponse
	_ = copier.Copy(&res, v)
	return res
}

func FromReservationViews(vs []*queries.ReservationView) []ReservationResponse {
	items := make([]ReservationResponse, 0, len(vs))
	for _, v := range vs {
		items = append(items, FromReservationView(v))
	}
	return items
}

func FromReservationPage(p *queries.ReservationPage) ReservationListResponse {
	return ReservationListResponse{
		Items:  FromReservationViews(p.Items),
		Total:  p.Total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
}

func FromValidationResult(r *booking.Result) ValidationResultResponse {
	var res ValidationResultResponse
	_ = copier.Copy(&res, r)
	if res.Errors == nil {
		res.Errors = []string{}
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	return res
}
