//go:build e2e

package facility_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"facility-booking/internal/domain/user"
	resdto "facility-booking/internal/handler/dto/response"
	"facility-booking/tests/common/authtest"
	"facility-booking/tests/common/builder"
	"facility-booking/tests/common/dbtest"
	"facility-booking/tests/common/httptest"
	"facility-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const facilitiesURL = "/api/facilities"

type FacilitySuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *FacilitySuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *FacilitySuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestFacilitySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(FacilitySuite))
}

func (s *FacilitySuite) TestCreateAndManageFacility() {
	s.Run("Normal case: admin creates, owner reschedules and disables", func() {
		t := s.T()
		_, adminToken := s.jwt.NewIdentity(t, user.RoleAdmin)
		ownerID, ownerToken := s.jwt.NewIdentity(t, user.RoleOwner)

		reqBody := builder.NewFacilityBuilder().WithOwnerID(ownerID).WithName("Cancha Río Verde").BuildCreateRequestDTO()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, facilitiesURL, reqBody, adminToken)

		var created resdto.FacilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		require.Equal(t, ownerID, created.OwnerID)
		require.Equal(t, "cancha-rio-verde", created.Slug)
		require.Len(t, created.OperatingDays, 7)
		require.True(t, created.Enabled)

		url := fmt.Sprintf("%s/%s", facilitiesURL, created.ID)
		w = httptest.PerformRequest(t, s.Router, http.MethodPut, url, map[string]any{
			"name":           "Cancha Río Verde",
			"opening_time":   "09:00",
			"closing_time":   "24:00",
			"operating_days": []string{"lunes", "martes", "miercoles", "jueves", "viernes"},
			"price_per_hour": 1500,
		}, ownerToken)
		var updated resdto.FacilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &updated)
		require.Equal(t, "24:00", updated.ClosingTime)
		require.Equal(t, []string{"lunes", "martes", "miercoles", "jueves", "viernes"}, updated.OperatingDays)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, url+"/status", map[string]any{"enabled": false}, ownerToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, nil)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, facilitiesURL, nil, "")
		var page resdto.FacilityListResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Zero(t, page.Total, "disabled facilities are hidden from the public list")

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, facilitiesURL+"?include_disabled=true", nil, adminToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &page)
		require.Equal(t, 1, page.Total)
	})

	s.Run("Error case: owners cannot create or manage others' facilities", func() {
		t := s.T()
		_, ownerToken := s.jwt.NewIdentity(t, user.RoleOwner)
		facilityID := dbtest.CreateTestFacility(t, s.DB, uuid.New(), "Ajena", "08:00", "22:00", 1000)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, facilitiesURL,
			builder.NewFacilityBuilder().BuildCreateRequestDTO(), ownerToken)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch, fmt.Sprintf("%s/%s/status", facilitiesURL, facilityID),
			map[string]any{"enabled": false}, ownerToken)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("Error case: closing before opening", func() {
		t := s.T()
		_, adminToken := s.jwt.NewIdentity(t, user.RoleAdmin)
		reqBody := builder.NewFacilityBuilder().WithHours("20:00", "08:00").BuildCreateRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, facilitiesURL, reqBody, adminToken)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid request")
	})
}

func (s *FacilitySuite) TestAvailability() {
	date := dbtest.Tomorrow(time.UTC)

	s.Run("Normal case: booked hours are removed from the free slots", func() {
		t := s.T()
		facilityID := dbtest.CreateTestFacility(t, s.DB, uuid.New(), "Cancha Central", "08:00", "12:00", 1000)
		dbtest.CreateTestReservation(t, s.DB, facilityID, uuid.New(), date, "09:00", "10:00", "confirmed")
		dbtest.CreateTestReservation(t, s.DB, facilityID, uuid.New(), date, "10:00", "11:00", "cancelled")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s/availability?date=%s", facilitiesURL, facilityID, date), nil, "")

		var got resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.True(t, got.Available)
		require.Equal(t, 1, got.ReservationCount)
		starts := make([]string, len(got.FreeSlots))
		for i, sl := range got.FreeSlots {
			starts[i] = sl.Start
		}
		require.Equal(t, []string{"08:00", "10:00", "11:00"}, starts)
	})

	s.Run("Normal case: owner override closes the day", func() {
		t := s.T()
		ownerID, ownerToken := s.jwt.NewIdentity(t, user.RoleOwner)
		facilityID := dbtest.CreateTestFacility(t, s.DB, ownerID, "Cancha Central", "08:00", "22:00", 1000)

		w := httptest.PerformRequest(t, s.Router, http.MethodPut,
			fmt.Sprintf("%s/%s/overrides/%s", facilitiesURL, facilityID, date),
			map[string]any{"available": false, "reason": "Mantenimiento"}, ownerToken)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, nil)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s/availability?date=%s", facilitiesURL, facilityID, date), nil, "")
		var got resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.False(t, got.Available)
		require.Equal(t, "Mantenimiento", got.Reason)
		require.Empty(t, got.FreeSlots)

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete,
			fmt.Sprintf("%s/%s/overrides/%s", facilitiesURL, facilityID, date), nil, ownerToken)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s/availability?date=%s", facilitiesURL, facilityID, date), nil, "")
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.True(t, got.Available)
	})

	s.Run("Normal case: owner sees the day's reservations including cancelled", func() {
		t := s.T()
		ownerID, ownerToken := s.jwt.NewIdentity(t, user.RoleOwner)
		facilityID := dbtest.CreateTestFacility(t, s.DB, ownerID, "Cancha Central", "08:00", "22:00", 1000)
		dbtest.CreateTestReservation(t, s.DB, facilityID, uuid.New(), date, "15:00", "16:00", "confirmed")
		dbtest.CreateTestReservation(t, s.DB, facilityID, uuid.New(), date, "09:00", "10:00", "cancelled")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s/reservations?date=%s", facilitiesURL, facilityID, date), nil, ownerToken)

		var got []resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		require.Len(t, got, 2)
		require.Equal(t, "09:00", got[0].StartTime)
		require.Equal(t, "cancelled", got[0].Status)
	})

	s.Run("Error case: unknown facility", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%s/availability?date=%s", facilitiesURL, uuid.New(), date), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Facility not found")
	})
}
