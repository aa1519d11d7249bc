//go:build unit

package api_test

import (
	"testing"

	"facility-booking/internal/domain/user"
	"facility-booking/internal/handler"
	"facility-booking/internal/handler/api"
	"facility-booking/internal/handler/middleware"
	"facility-booking/internal/pkg/config"
	"facility-booking/internal/pkg/jwt"
	"facility-booking/internal/usecase"
	"facility-booking/internal/usecase/shared"
	"facility-booking/tests/common/authtest"
	commandsmock "facility-booking/tests/mock/commands"
	queriesmock "facility-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	facilityCmds    *commandsmock.MockFacilityCommands
	reservationCmds *commandsmock.MockReservationCommands
	facilityQ       *queriesmock.MockFacilityQueries
	reservationQ    *queriesmock.MockReservationQueries
	availabilityQ   *queriesmock.MockAvailabilityQueries
}

type identity struct {
	actor shared.Actor
	token string
}

// newTestRouter wires the real router, auth middleware and JWT validation
// around mocked use cases.
func newTestRouter(ctrl *gomock.Controller) (*gin.Engine, *testMocks, *authtest.JWTHelper) {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()

	m := &testMocks{
		facilityCmds:    commandsmock.NewMockFacilityCommands(ctrl),
		reservationCmds: commandsmock.NewMockReservationCommands(ctrl),
		facilityQ:       queriesmock.NewMockFacilityQueries(ctrl),
		reservationQ:    queriesmock.NewMockReservationQueries(ctrl),
		availabilityQ:   queriesmock.NewMockAvailabilityQueries(ctrl),
	}

	jwtService, err := jwt.FromConfig(cfg.JWT)
	if err != nil {
		panic(err)
	}
	authMw := middleware.NewAuthMiddleware(usecase.NewTokenValidator(jwtService))

	engine := gin.New()
	handler.NewRouter(
		engine,
		cfg,
		middleware.NewLogger(cfg.Log),
		api.NewFacilityHandler(m.facilityCmds, m.facilityQ, m.availabilityQ, m.reservationQ),
		api.NewReservationHandler(m.reservationCmds, m.reservationQ),
		authMw,
		nil,
	)
	return engine, m, authtest.NewJWTHelper(cfg.JWT)
}

func newIdentity(t *testing.T, h *authtest.JWTHelper, role user.Role) identity {
	t.Helper()
	id := uuid.New()
	return identity{
		actor: shared.Actor{UserID: id, Role: role},
		token: h.GenerateToken(t, id, role),
	}
}
