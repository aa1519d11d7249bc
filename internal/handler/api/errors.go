package api

import (
	"errors"
	"net/http"

	resdto "facility-booking/internal/handler/dto/response"
	"facility-booking/internal/handler/httperr"
	"facility-booking/internal/handler/middleware"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// abortWithUseCaseError maps use case errors onto the HTTP error envelope.
func abortWithUseCaseError(c *gin.Context, err error) {
	var verr *commands.ValidationError
	switch {
	case errors.As(err, &verr):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Reservation is not valid",
			resdto.FromValidationResult(verr.Result))
	case errors.Is(err, errs.ErrInvalidFormat):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
	case errors.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errors.Is(err, errs.ErrFacilityNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Facility not found", nil)
	case errors.Is(err, errs.ErrReservationNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errors.Is(err, errs.ErrOverrideNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Override not found", nil)
	case errors.Is(err, errs.ErrForbidden):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Insufficient permissions", nil)
	case errors.Is(err, errs.ErrReservationConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Time slot is already reserved", nil)
	case errors.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation cannot change to the requested status", nil)
	case errors.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Reservation request is currently being processed", nil)
	case errors.Is(err, errs.ErrIdempotencyMismatch):
		httperr.AbortWithError(c, http.StatusConflict, err, "Idempotency key was used with a different request", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func requireActor(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("actor missing from context"), "Unauthorized", nil)
		return shared.Actor{}, false
	}
	return actor, true
}

func parseIDParam(c *gin.Context, name, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrInvalidFormat), msg, nil)
		return uuid.Nil, false
	}
	return id, true
}

func bindErr(c *gin.Context, err error) {
	httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrInvalidFormat), "Invalid request format", nil)
}
