//go:build unit

package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"facility-booking/internal/domain/booking"
	"facility-booking/internal/domain/reservation"
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

const reservationsURL = "/api/reservations"

type ReservationHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	mockCtrl *gomock.Controller
	mocks    *testMocks
	jwt      *authtest.JWTHelper
	player   identity
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.router, s.mocks, s.jwt = newTestRouter(s.mockCtrl)
	s.player = newIdentity(s.T(), s.jwt, user.RolePlayer)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

type testCaseReservation struct {
	name       string
	mutate     testutil.Mutation
	expectCode int
}

func (s *ReservationHandlerTestSuite) TestValidate() {
	url := reservationsURL + "/validate"

	s.Run("success: returns the verdict with the requester attached", func() {
		price := int64(1500)
		body := map[string]any{
			"facility_id": uuid.NewString(),
			"date":        "2025-03-10",
			"start_time":  "10:00",
			"end_time":    "11:30",
		}
		s.mocks.reservationCmds.EXPECT().Validate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, in commands.ValidateInput) (*booking.Result, error) {
				s.Require().NotNil(in.RequesterID)
				s.Equal(s.player.actor.UserID, *in.RequesterID)
				s.Equal("11:30", in.EndTime)
				return &booking.Result{Valid: true, EstimatedPrice: &price}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.player.token)

		var res resdto.ValidationResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.True(res.Valid)
		s.Empty(res.Errors)
		s.NotNil(res.Warnings)
		s.Require().NotNil(res.EstimatedPrice)
		s.Equal(price, *res.EstimatedPrice)
	})

	s.Run("success: malformed values are reported in the result, not rejected", func() {
		body := map[string]any{"facility_id": "nope", "date": "10/03/2025", "start_time": "9", "end_time": "x"}
		s.mocks.reservationCmds.EXPECT().Validate(gomock.Any(), gomock.Any()).
			Return(&booking.Result{Errors: []string{booking.MsgFacilityNotFound}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, s.player.token)

		var res resdto.ValidationResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.False(res.Valid)
		s.Equal([]string{booking.MsgFacilityNotFound}, res.Errors)
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := reservationsURL
	b := builder.NewReservationBuilder().WithUserID(s.player.actor.UserID)
	reqBody := b.BuildCreateRequestDTO()
	view := b.BuildView()

	s.Run("success: returns 201 with the stored reservation", func() {
		s.mocks.reservationCmds.EXPECT().Create(gomock.Any(), s.player.actor, reqBody.ToInput("")).
			Return(&commands.CreateReservationResult{ReservationID: view.ID}, nil).Times(1)
		s.mocks.reservationQ.EXPECT().GetByID(gomock.Any(), s.player.actor, view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.player.token)

		var res resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		httptest.AssertReplayed(s.T(), rec, false)
		s.Equal(view.ID, res.ID)
		s.Equal("14:00", res.StartTime)
		s.Equal(view.FacilityName, res.FacilityName)
	})

	s.Run("success: replayed idempotent request returns 200", func() {
		s.mocks.reservationCmds.EXPECT().Create(gomock.Any(), s.player.actor, reqBody.ToInput("key-1")).
			Return(&commands.CreateReservationResult{ReservationID: view.ID, IsReplayed: true}, nil).Times(1)
		s.mocks.reservationQ.EXPECT().GetByID(gomock.Any(), s.player.actor, view.ID).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, s.player.token,
			map[string]string{"Idempotency-Key": "key-1"})

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		httptest.AssertReplayed(s.T(), rec, true)
	})

	s.Run("error: overlong idempotency key", func() {
		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, s.player.token,
			map[string]string{"Idempotency-Key": strings.Repeat("k", 256)})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Idempotency key is too long")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		bound := []testCaseReservation{
			{name: "end time 24:00 is accepted", mutate: testutil.Field("end_time", "24:00"), expectCode: http.StatusCreated},
			{name: "start time 24:00 is rejected", mutate: testutil.Field("start_time", "24:00"), expectCode: http.StatusBadRequest},
			{name: "start time 9:00 is rejected", mutate: testutil.Field("start_time", "9:00"), expectCode: http.StatusBadRequest},
			{name: "end time 23:60 is rejected", mutate: testutil.Field("end_time", "23:60"), expectCode: http.StatusBadRequest},
			{name: "date 2025-02-30 is rejected", mutate: testutil.Field("date", "2025-02-30"), expectCode: http.StatusBadRequest},
			{name: "note of 501 chars is rejected", mutate: testutil.Field("note", strings.Repeat("a", 501)), expectCode: http.StatusBadRequest},
		}

		missing := []testCaseReservation{
			{name: "missing field: facility_id", mutate: testutil.Field("facility_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: date", mutate: testutil.Field("date", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: start_time", mutate: testutil.Field("start_time", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: end_time", mutate: testutil.Field("end_time", nil), expectCode: http.StatusBadRequest},
		}

		for _, group := range [][]testCaseReservation{bound, missing} {
			for _, tc := range group {
				s.Run(tc.name, func() {
					requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
					if tc.expectCode == http.StatusCreated {
						s.mocks.reservationCmds.EXPECT().Create(gomock.Any(), s.player.actor, gomock.Any()).
							Return(&commands.CreateReservationResult{ReservationID: view.ID}, nil)
						s.mocks.reservationQ.EXPECT().GetByID(gomock.Any(), s.player.actor, view.ID).Return(view, nil)
					}

					rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, s.player.token)
					if tc.expectCode == http.StatusCreated {
						httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
					} else {
						httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request format")
					}
				})
			}
		}
	})

	s.Run("error: 422 carries the validation result", func() {
		result := &booking.Result{Errors: []string{booking.MsgPastDate}}
		s.mocks.reservationCmds.EXPECT().Create(gomock.Any(), s.player.actor, gomock.Any()).
			Return(nil, &commands.ValidationError{Result: result}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.player.token)
		got := httptest.AssertRejectedReservation(s.T(), rec)
		s.Equal([]string{booking.MsgPastDate}, got.Errors)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "facility not found", commandsError: errs.Wrap(errs.ErrFacilityNotFound, "lookup"), expectedStatus: http.StatusNotFound, expectedMsg: "Facility not found"},
			{name: "conflict", commandsError: errs.Wrap(errs.ErrReservationConflict, "commit"), expectedStatus: http.StatusConflict, expectedMsg: "Time slot is already reserved"},
			{name: "request in progress", commandsError: errs.ErrIdempotencyInProgress, expectedStatus: http.StatusConflict, expectedMsg: "currently being processed"},
			{name: "key reused", commandsError: errs.ErrIdempotencyMismatch, expectedStatus: http.StatusConflict, expectedMsg: "different request"},
			{name: "invalid format", commandsError: errs.Wrap(errs.ErrInvalidFormat, "parse"), expectedStatus: http.StatusBadRequest, expectedMsg: "Invalid request format"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mocks.reservationCmds.EXPECT().Create(gomock.Any(), s.player.actor, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, s.player.token)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestList() {
	s.Run("success: returns own reservations page", func() {
		view := builder.NewReservationBuilder().WithUserID(s.player.actor.UserID).BuildView()
		s.mocks.reservationQ.EXPECT().ListByUser(gomock.Any(), s.player.actor.UserID, queries.Page{Limit: 5, Offset: 10}).
			Return(&queries.ReservationPage{Items: []*queries.ReservationView{view}, Total: 11, Limit: 5, Offset: 10}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, reservationsURL+"?limit=5&offset=10", nil, s.player.token)

		var res resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal(11, res.Total)
		s.Require().Len(res.Items, 1)
		s.Equal(view.ID, res.Items[0].ID)
	})

	s.Run("error: limit above 100", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, reservationsURL+"?limit=101", nil, s.player.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *ReservationHandlerTestSuite) TestGet() {
	s.Run("error: invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, reservationsURL+"/not-a-uuid", nil, s.player.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid reservation ID format")
	})

	s.Run("error: maps query errors", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "not found", err: errs.ErrReservationNotFound, expectedStatus: http.StatusNotFound},
			{name: "someone else's reservation", err: errs.Wrap(errs.ErrForbidden, "owner"), expectedStatus: http.StatusForbidden},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				id := uuid.New()
				s.mocks.reservationQ.EXPECT().GetByID(gomock.Any(), s.player.actor, id).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, reservationsURL+"/"+id.String(), nil, s.player.token)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

func (s *ReservationHandlerTestSuite) TestReschedule() {
	b := builder.NewReservationBuilder().WithUserID(s.player.actor.UserID).WithSlot("16:00", "17:00")
	view := b.BuildView()
	url := fmt.Sprintf("%s/%s", reservationsURL, view.ID)
	body := map[string]any{"date": "2025-03-10", "start_time": "16:00", "end_time": "17:00"}

	s.Run("success: returns the moved reservation", func() {
		s.mocks.reservationCmds.EXPECT().Reschedule(gomock.Any(), s.player.actor, view.ID,
			commands.RescheduleInput{Date: "2025-03-10", StartTime: "16:00", EndTime: "17:00"}).Return(nil).Times(1)
		s.mocks.reservationQ.EXPECT().GetByID(gomock.Any(), s.player.actor, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, s.player.token)

		var res resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("16:00", res.StartTime)
	})

	s.Run("error: cancelled reservations cannot move", func() {
		s.mocks.reservationCmds.EXPECT().Reschedule(gomock.Any(), s.player.actor, view.ID, gomock.Any()).
			Return(errs.Wrap(errs.ErrInvalidTransition, "cancelled")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, body, s.player.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "cannot change")
	})
}

func (s *ReservationHandlerTestSuite) TestTransitions() {
	owner := newIdentity(s.T(), s.jwt, user.RoleOwner)
	view := builder.NewReservationBuilder().WithOwnerID(owner.actor.UserID).WithStatus(reservation.StatusConfirmed).BuildView()

	s.Run("success: facility owner confirms", func() {
		s.mocks.reservationCmds.EXPECT().Confirm(gomock.Any(), owner.actor, view.ID).Return(nil).Times(1)
		s.mocks.reservationQ.EXPECT().GetByID(gomock.Any(), owner.actor, view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			fmt.Sprintf("%s/%s/confirm", reservationsURL, view.ID), nil, owner.token)

		var res resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("confirmed", res.Status)
	})

	s.Run("error: player cannot complete someone else's booking", func() {
		s.mocks.reservationCmds.EXPECT().Complete(gomock.Any(), s.player.actor, view.ID).
			Return(errs.Wrap(errs.ErrForbidden, "not facility owner")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			fmt.Sprintf("%s/%s/complete", reservationsURL, view.ID), nil, s.player.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: cancelling twice", func() {
		s.mocks.reservationCmds.EXPECT().Cancel(gomock.Any(), s.player.actor, view.ID).
			Return(errs.Wrap(errs.ErrInvalidTransition, "terminal")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost,
			fmt.Sprintf("%s/%s/cancel", reservationsURL, view.ID), nil, s.player.token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}
