package request

import (
	"strings"

	"facility-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// ValidateReservationRequest is intentionally loose: malformed values are
// reported inside the validation result rather than rejected.
type ValidateReservationRequest struct {
	FacilityID           string     `json:"facility_id"`
	Date                 string     `json:"date"`
	StartTime            string     `json:"start_time"`
	EndTime              string     `json:"end_time"`
	ExcludeReservationID *uuid.UUID `json:"exclude_reservation_id,omitempty"`
}

func (r ValidateReservationRequest) ToInput(requesterID uuid.UUID) commands.ValidateInput {
	return commands.ValidateInput{
		FacilityID:           strings.TrimSpace(r.FacilityID),
		Date:                 strings.TrimSpace(r.Date),
		StartTime:            strings.TrimSpace(r.StartTime),
		EndTime:              strings.TrimSpace(r.EndTime),
		RequesterID:          &requesterID,
		ExcludeReservationID: r.ExcludeReservationID,
	}
}

type CreateReservationRequest struct {
	FacilityID uuid.UUID `json:"facility_id" binding:"required"`
	Date       string    `json:"date" binding:"required,date"`
	StartTime  string    `json:"start_time" binding:"required,clock"`
	EndTime    string    `json:"end_time" binding:"required,boundary_clock"`
	Note       *string   `json:"note,omitempty" binding:"omitempty,max=500"`
}

func (r CreateReservationRequest) ToInput(idempotencyKey string) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		FacilityID:     r.FacilityID,
		Date:           r.Date,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		Note:           r.GetNote(),
		IdempotencyKey: idempotencyKey,
	}
}

// GetNote trims the note and drops it when blank.
func (r CreateReservationRequest) GetNote() *string {
	if r.Note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.Note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type RescheduleReservationRequest struct {
	Date      string `json:"date" binding:"required,date"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,boundary_clock"`
}

func (r RescheduleReservationRequest) ToInput() commands.RescheduleInput {
	return commands.RescheduleInput{
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

type ListReservationsQuery struct {
	Limit  int `form:"limit" binding:"gte=0,lte=100"`
	Offset int `form:"offset" binding:"gte=0"`
}
