//go:build unit

package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"facility-booking/internal/domain/facility"
	"facility-booking/internal/domain/user"
	resdto "facility-booking/internal/handler/dto/response"
	"facility-booking/internal/pkg/errs"
	"facility-booking/internal/usecase/commands"
	"facility-booking/internal/usecase/queries"
	"facility-booking/tests/common/authtest"
	"facility-booking/tests/common/builder"
	"facility-booking/tests/common/httptest"
	"facility-booking/tests/common/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const facilitiesURL = "/api/facilities"

type FacilityHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mocks    *testMocks
	jwt      *authtest.JWTHelper
	admin    identity
	owner    identity
	player   identity
}

func (s *FacilityHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.router, s.mocks, s.jwt = newTestRouter(s.mockCtrl)
	s.admin = newIdentity(s.T(), s.jwt, user.RoleAdmin)
	s.owner = newIdentity(s.T(), s.jwt, user.RoleOwner)
	s.player = newIdentity(s.T(), s.jwt, user.RolePlayer)
}

func (s *FacilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestFacilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(FacilityHandlerTestSuite))
}

func (s *FacilityHandlerTestSuite) TestList() {
	view := builder.NewFacilityBuilder().BuildView()
	page := &queries.FacilityPage{Items: []*queries.FacilityView{view}, Total: 1, Limit: 20}

	testCases := []struct {
		name            string
		token           string
		query           string
		includeDisabled bool
	}{
		{name: "anonymous sees enabled facilities", token: "", query: ""},
		{name: "player cannot include disabled", token: s.player.token, query: "?include_disabled=true"},
		{name: "admin can include disabled", token: s.admin.token, query: "?include_disabled=true", includeDisabled: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mocks.facilityQ.EXPECT().List(gomock.Any(), tc.includeDisabled, queries.Page{}).Return(page, nil).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, facilitiesURL+tc.query, nil, tc.token)

			var res resdto.FacilityListResponse
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
			s.Equal(1, res.Total)
			s.Require().Len(res.Items, 1)
			s.Equal(view.ID, res.Items[0].ID)
			s.Len(res.Items[0].OperatingDays, 7)
		})
	}

	s.Run("error: limit out of range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, facilitiesURL+"?limit=-1", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *FacilityHandlerTestSuite) TestGet() {
	s.Run("success: public read", func() {
		view := builder.NewFacilityBuilder().WithOverride("2025-03-15", false, "Mantenimiento").BuildView()
		s.mocks.facilityQ.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, facilitiesURL+"/"+view.ID.String(), nil, "")

		var res resdto.FacilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("Cancha Central", res.Name)
		s.Equal(int64(1000), res.PricePerHour)
		s.Require().Len(res.Overrides, 1)
		s.False(res.Overrides[0].Available)
	})

	s.Run("error: not found", func() {
		id := uuid.New()
		s.mocks.facilityQ.EXPECT().GetByID(gomock.Any(), id).
			Return(nil, errs.Wrap(errs.ErrFacilityNotFound, "find")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, facilitiesURL+"/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Facility not found")
	})

	s.Run("error: invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, facilitiesURL+"/123", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid facility ID format")
	})
}

func (s *FacilityHandlerTestSuite) TestAvailability() {
	id := uuid.New()

	s.Run("success: custom duration is passed through", func() {
		view := &queries.AvailabilityView{
			FacilityID:  id,
			Date:        "2025-03-10",
			Available:   true,
			OpeningTime: "08:00",
			ClosingTime: "10:00",
			SlotMinutes: 90,
			FreeSlots:   []queries.SlotView{{Start: "08:00", End: "09:30", Label: "08:00-09:30"}},
		}
		s.mocks.availabilityQ.EXPECT().Query(gomock.Any(), id, "2025-03-10", gomock.Any()).
			DoAndReturn(func(_ any, _ uuid.UUID, _ string, duration *int) (*queries.AvailabilityView, error) {
				s.Require().NotNil(duration)
				s.Equal(90, *duration)
				return view, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			fmt.Sprintf("%s/%s/availability?date=2025-03-10&duration=90", facilitiesURL, id), nil, "")

		var res resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.True(res.Available)
		s.Require().Len(res.FreeSlots, 1)
		s.Equal("08:00", res.FreeSlots[0].Start)
		s.NotNil(res.OccupiedSlots)
	})

	s.Run("error: 400 Bad Request on invalid query", func() {
		testCases := []struct {
			name  string
			query string
		}{
			{name: "missing date", query: ""},
			{name: "bad date", query: "?date=2025-13-01"},
			{name: "zero duration", query: "?date=2025-03-10&duration=0"},
			{name: "duration over a day", query: "?date=2025-03-10&duration=1441"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
					fmt.Sprintf("%s/%s/availability%s", facilitiesURL, id, tc.query), nil, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})
}

func (s *FacilityHandlerTestSuite) TestReservations() {
	id := uuid.New()
	url := fmt.Sprintf("%s/%s/reservations?date=2025-03-10", facilitiesURL, id)

	s.Run("success: owner reads the day", func() {
		view := builder.NewReservationBuilder().WithFacilityID(id).WithOwnerID(s.owner.actor.UserID).BuildView()
		s.mocks.reservationQ.EXPECT().ListByFacilityDate(gomock.Any(), s.owner.actor, id, "2025-03-10").
			Return([]*queries.ReservationView{view}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.owner.token)

		var res []resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().Len(res, 1)
		s.Equal(view.ID, res[0].ID)
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 403 for another owner's facility", func() {
		s.mocks.reservationQ.EXPECT().ListByFacilityDate(gomock.Any(), s.player.actor, id, "2025-03-10").
			Return(nil, errs.Wrap(errs.ErrForbidden, "not owner")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, s.player.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}

type testCaseFacility struct {
	name       string
	mutate     testutil.Mutation
	expectCode int
}

func (s *FacilityHandlerTestSuite) TestCreate() {
	b := builder.NewFacilityBuilder().WithOwnerID(s.owner.actor.UserID)
	reqBody := b.BuildCreateRequestDTO()
	view := b.BuildView()

	s.Run("success: admin creates a facility", func() {
		s.mocks.facilityCmds.EXPECT().Create(gomock.Any(), s.admin.actor, reqBody.ToInput()).Return(view.ID, nil).Times(1)
		s.mocks.facilityQ.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, facilitiesURL, reqBody, s.admin.token)

		var res resdto.FacilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(view.ID, res.ID)
		s.Equal(s.owner.actor.UserID, res.OwnerID)
		s.Equal("cancha-central", res.Slug)
	})

	s.Run("error: roles below admin are rejected", func() {
		for _, who := range []identity{s.player, s.owner} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, facilitiesURL, reqBody, who.token)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
		}
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []testCaseFacility{
			{name: "closing at 24:00 is accepted", mutate: testutil.Field("closing_time", "24:00"), expectCode: http.StatusCreated},
			{name: "opening at 24:00 is rejected", mutate: testutil.Field("opening_time", "24:00"), expectCode: http.StatusBadRequest},
			{name: "zero price is rejected", mutate: testutil.Field("price_per_hour", 0), expectCode: http.StatusBadRequest},
			{name: "unknown weekday is rejected", mutate: testutil.Field("operating_days", []string{"monday"}), expectCode: http.StatusBadRequest},
			{name: "empty operating days is rejected", mutate: testutil.Field("operating_days", []string{}), expectCode: http.StatusBadRequest},
			{name: "missing field: name", mutate: testutil.Field("name", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: opening_time", mutate: testutil.Field("opening_time", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: closing_time", mutate: testutil.Field("closing_time", nil), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				if tc.expectCode == http.StatusCreated {
					s.mocks.facilityCmds.EXPECT().Create(gomock.Any(), s.admin.actor, gomock.Any()).Return(view.ID, nil)
					s.mocks.facilityQ.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)
				}

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, facilitiesURL, requestMap, s.admin.token)
				if tc.expectCode == http.StatusCreated {
					httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
				} else {
					httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request format")
				}
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "closing before opening", commandsError: errs.Mark(facility.ErrInvalidHours, errs.ErrDomainValidation), expectedStatus: http.StatusBadRequest, expectedMsg: "Invalid request"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mocks.facilityCmds.EXPECT().Create(gomock.Any(), s.admin.actor, gomock.Any()).Return(uuid.Nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, facilitiesURL, reqBody, s.admin.token)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *FacilityHandlerTestSuite) TestUpdate() {
	b := builder.NewFacilityBuilder().WithOwnerID(s.owner.actor.UserID).WithHours("07:00", "23:00")
	view := b.BuildView()
	url := facilitiesURL + "/" + view.ID.String()
	body := map[string]any{
		"name":           "Cancha Central",
		"opening_time":   "07:00",
		"closing_time":   "23:00",
		"operating_days": []string{"lunes", "martes"},
		"price_per_hour": 1200,
	}

	s.Run("success: owner updates the schedule", func() {
		s.mocks.facilityCmds.EXPECT().Update(gomock.Any(), s.owner.actor, view.ID, gomock.Any()).
			DoAndReturn(func(_ any, _ any, _ uuid.UUID, in commands.FacilityInput) error {
				s.Equal("07:00", in.OpeningTime)
				s.Equal([]string{"lunes", "martes"}, in.OperatingDays)
				s.Equal(int64(1200), in.PricePerHour)
				return nil
			}).Times(1)
		s.mocks.facilityQ.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, s.owner.token)

		var res resdto.FacilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("07:00", res.OpeningTime)
	})

	s.Run("error: someone else's facility", func() {
		s.mocks.facilityCmds.EXPECT().Update(gomock.Any(), s.player.actor, view.ID, gomock.Any()).
			Return(errs.Wrap(errs.ErrForbidden, "not owner")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, s.player.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}

func (s *FacilityHandlerTestSuite) TestSetStatus() {
	view := builder.NewFacilityBuilder().WithOwnerID(s.owner.actor.UserID).Disabled().BuildView()
	url := fmt.Sprintf("%s/%s/status", facilitiesURL, view.ID)

	s.Run("success: disables the facility", func() {
		s.mocks.facilityCmds.EXPECT().SetEnabled(gomock.Any(), s.owner.actor, view.ID, false).Return(nil).Times(1)
		s.mocks.facilityQ.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"enabled": false}, s.owner.token)

		var res resdto.FacilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.False(res.Enabled)
	})

	s.Run("error: enabled is required", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, s.owner.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *FacilityHandlerTestSuite) TestOverrides() {
	view := builder.NewFacilityBuilder().WithOwnerID(s.owner.actor.UserID).
		WithOverride("2025-03-15", false, "Torneo").BuildView()
	url := fmt.Sprintf("%s/%s/overrides/2025-03-15", facilitiesURL, view.ID)

	s.Run("success: closes a single day", func() {
		s.mocks.facilityCmds.EXPECT().SetOverride(gomock.Any(), s.owner.actor, view.ID,
			commands.OverrideInput{Date: "2025-03-15", Available: false, Reason: "Torneo"}).Return(nil).Times(1)
		s.mocks.facilityQ.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url,
			map[string]any{"available": false, "reason": "Torneo"}, s.owner.token)

		var res resdto.FacilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().Len(res.Overrides, 1)
		s.Equal("Torneo", res.Overrides[0].Reason)
	})

	s.Run("success: removes the override", func() {
		s.mocks.facilityCmds.EXPECT().RemoveOverride(gomock.Any(), s.owner.actor, view.ID, "2025-03-15").Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, s.owner.token)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: removing a missing override", func() {
		s.mocks.facilityCmds.EXPECT().RemoveOverride(gomock.Any(), s.owner.actor, view.ID, "2025-03-15").
			Return(errs.ErrOverrideNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, s.owner.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Override not found")
	})

	s.Run("error: malformed date in path", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut,
			fmt.Sprintf("%s/%s/overrides/15-03-2025", facilitiesURL, view.ID),
			map[string]any{"available": true}, s.owner.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid date format")
	})
}
