package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"facility-booking/internal/domain/user"
	"facility-booking/internal/handler/api"
	reqdto "facility-booking/internal/handler/dto/request"
	"facility-booking/internal/handler/middleware"
	"facility-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type routerDeps struct {
	facilities   *api.FacilityHandler
	reservations *api.ReservationHandler
	auth         *middleware.AuthMiddleware
	limiter      middleware.RateLimiter
}

// NewRouter registers middleware and routes. limiter may be nil, which
// disables rate limiting.
func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	facilityHandler *api.FacilityHandler,
	reservationHandler *api.ReservationHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter middleware.RateLimiter,
) {
	reqdto.RegisterValidators()
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, routerDeps{
		facilities:   facilityHandler,
		reservations: reservationHandler,
		auth:         authMiddleware,
		limiter:      limiter,
	})
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, d routerDeps) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := d.auth
	fh := d.facilities
	rh := d.reservations

	apiGroup := engine.Group("/api")
	{
		facilities := apiGroup.Group("/facilities")
		{
			addRoutes(facilities, []route{
				{Method: http.MethodGet, Path: "", Handler: fh.List, Mw: []gin.HandlerFunc{auth.OptionalAuth()}},
				{Method: http.MethodGet, Path: "/:id", Handler: fh.Get},
				{Method: http.MethodGet, Path: "/:id/availability", Handler: fh.Availability},
			})

			managed := facilities.Group("")
			managed.Use(auth.RequireAuth())
			addRoutes(managed, []route{
				{Method: http.MethodPost, Path: "", Handler: fh.Create, Mw: []gin.HandlerFunc{auth.RequireRoleAtLeast(user.RoleAdmin)}},
				{Method: http.MethodGet, Path: "/:id/reservations", Handler: fh.Reservations},
				{Method: http.MethodPut, Path: "/:id", Handler: fh.Update},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: fh.SetStatus},
				{Method: http.MethodPut, Path: "/:id/overrides/:date", Handler: fh.PutOverride},
				{Method: http.MethodDelete, Path: "/:id/overrides/:date", Handler: fh.DeleteOverride},
			})
		}

		reservations := apiGroup.Group("/reservations")
		reservations.Use(auth.RequireAuth())
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "/validate", Handler: rh.Validate},
				{Method: http.MethodPost, Path: "", Handler: rh.Create, Mw: []gin.HandlerFunc{middleware.RateLimit(d.limiter)}},
				{Method: http.MethodGet, Path: "", Handler: rh.List},
				{Method: http.MethodGet, Path: "/:id", Handler: rh.Get},
				{Method: http.MethodPut, Path: "/:id", Handler: rh.Reschedule, Mw: []gin.HandlerFunc{middleware.RateLimit(d.limiter)}},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: rh.Cancel},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: rh.Confirm},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: rh.Complete},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
