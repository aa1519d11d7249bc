package api

import (
	"net/http"

	"facility-booking/internal/domain/timeofday"
	reqdto "facility-booking/internal/handler/dto/request"
	resdto "facility-booking/internal/handler/dto/response"
	"facility-booking/internal/handler/httperr"
	"facility-booking/internal/handler/middleware"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FacilityHandler struct {
	cmds         commands.FacilityCommands
	q            queries.FacilityQueries
	availability queries.AvailabilityQueries
	reservations queries.ReservationQueries
}

func NewFacilityHandler(
	cmds commands.FacilityCommands,
	q queries.FacilityQueries,
	availability queries.AvailabilityQueries,
	reservations queries.ReservationQueries,
) *FacilityHandler {
	return &FacilityHandler{cmds: cmds, q: q, availability: availability, reservations: reservations}
}

// @Summary List facilities
// @Description List bookable facilities. Administrators may include disabled ones.
// @Tags facilities
// @Produce json
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Param include_disabled query bool false "Include disabled facilities (admin only)"
// @Success 200 {object} resdto.FacilityListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/facilities [get]
func (h *FacilityHandler) List(c *gin.Context) {
	var q reqdto.ListFacilitiesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindErr(c, err)
		return
	}

	includeDisabled := false
	if actor, ok := middleware.GetActor(c); ok && actor.IsAdmin() {
		includeDisabled = q.IncludeDisabled
	}

	page, err := h.q.List(c.Request.Context(), includeDisabled, queries.Page{Limit: q.Limit, Offset: q.Offset})
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFacilityPage(page))
}

// @Summary Get facility
// @Description Facility detail including date overrides
// @Tags facilities
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} resdto.FacilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/facilities/{id} [get]
func (h *FacilityHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid facility ID format")
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFacilityView(view))
}

// @Summary Query availability
// @Description Free and occupied slots of a facility for one date
// @Tags facilities
// @Produce json
// @Param id path string true "Facility ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query int false "Slot length in minutes"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/facilities/{id}/availability [get]
func (h *FacilityHandler) Availability(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid facility ID format")
	if !ok {
		return
	}
	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindErr(c, err)
		return
	}
	view, err := h.availability.Query(c.Request.Context(), id, q.Date, q.Duration)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Reservations of a day
// @Description Every reservation of a facility for one date, for its owner or an administrator
// @Tags facilities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/facilities/{id}/reservations [get]
func (h *FacilityHandler) Reservations(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid facility ID format")
	if !ok {
		return
	}
	var q reqdto.DayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindErr(c, err)
		return
	}
	views, err := h.reservations.ListByFacilityDate(c.Request.Context(), actor, id, q.Date)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Create facility
// @Description Register a facility. The owner defaults to the caller.
// @Tags facilities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateFacilityRequest true "Facility"
// @Success 201 {object} resdto.FacilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/facilities [post]
func (h *FacilityHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req reqdto.CreateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	id, err := h.cmds.Create(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load facility", nil)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromFacilityView(view))
}

// @Summary Update facility
// @Description Replace name, operating hours, operating days and price
// @Tags facilities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param request body reqdto.UpdateFacilityRequest true "Facility"
// @Success 200 {object} resdto.FacilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/facilities/{id} [put]
func (h *FacilityHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid facility ID format")
	if !ok {
		return
	}
	var req reqdto.UpdateFacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	if err := h.cmds.Update(c.Request.Context(), actor, id, req.ToInput()); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respondFacility(c, id)
}

// @Summary Enable or disable facility
// @Tags facilities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param request body reqdto.SetFacilityStatusRequest true "Status"
// @Success 200 {object} resdto.FacilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/facilities/{id}/status [patch]
func (h *FacilityHandler) SetStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid facility ID format")
	if !ok {
		return
	}
	var req reqdto.SetFacilityStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	if err := h.cmds.SetEnabled(c.Request.Context(), actor, id, *req.Enabled); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respondFacility(c, id)
}

// @Summary Upsert date override
// @Description Open or close a facility on a specific date
// @Tags facilities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param request body reqdto.OverrideRequest true "Override"
// @Success 200 {object} resdto.FacilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/facilities/{id}/overrides/{date} [put]
func (h *FacilityHandler) PutOverride(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid facility ID format")
	if !ok {
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}
	var req reqdto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	if err := h.cmds.SetOverride(c.Request.Context(), actor, id, req.ToInput(date)); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	h.respondFacility(c, id)
}

// @Summary Remove date override
// @Tags facilities
// @Security BearerAuth
// @Param id path string true "Facility ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/facilities/{id}/overrides/{date} [delete]
func (h *FacilityHandler) DeleteOverride(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id", "Invalid facility ID format")
	if !ok {
		return
	}
	date, ok := dateParam(c)
	if !ok {
		return
	}
	if err := h.cmds.RemoveOverride(c.Request.Context(), actor, id, date); err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FacilityHandler) respondFacility(c *gin.Context, id uuid.UUID) {
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromFacilityView(view))
}

func dateParam(c *gin.Context) (string, bool) {
	date := c.Param("date")
	if !timeofday.IsDate(date) {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.ErrInvalidFormat, "Invalid date format, expected YYYY-MM-DD", nil)
		return "", false
	}
	return date, true
}
