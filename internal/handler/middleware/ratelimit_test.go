//go:build unit

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"facility-booking/internal/handler/middleware"
	"facility-booking/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	limit   int
	window  time.Duration
	counts  map[string]int64
	err     error
	clients []string
}

func newFakeLimiter(limit int) *fakeLimiter {
	return &fakeLimiter{limit: limit, window: time.Minute, counts: map[string]int64{}}
}

func (f *fakeLimiter) Allow(_ context.Context, client string) (bool, int64, error) {
	f.clients = append(f.clients, client)
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[client]++
	n := f.counts[client]
	return n <= int64(f.limit), n, nil
}

func (f *fakeLimiter) Limit() int            { return f.limit }
func (f *fakeLimiter) Window() time.Duration { return f.window }

func newRateLimitedRouter(limiter middleware.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/book", middleware.RateLimit(limiter), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})
	return r
}

func TestRateLimit(t *testing.T) {
	t.Run("allows until the limit then rejects", func(t *testing.T) {
		limiter := newFakeLimiter(2)
		r := newRateLimitedRouter(limiter)

		first := httptest.PerformRequest(t, r, http.MethodPost, "/book", nil, "")
		httptest.AssertSuccessResponse(t, first, http.StatusCreated, nil)
		httptest.AssertRateLimit(t, first, 2, 1)

		second := httptest.PerformRequest(t, r, http.MethodPost, "/book", nil, "")
		httptest.AssertSuccessResponse(t, second, http.StatusCreated, nil)
		httptest.AssertRateLimit(t, second, 2, 0)

		third := httptest.PerformRequest(t, r, http.MethodPost, "/book", nil, "")
		httptest.AssertErrorResponse(t, third, http.StatusTooManyRequests, "Too many requests")
		httptest.AssertHeaders(t, third, map[string]string{"Retry-After": "60", "X-RateLimit-Remaining": "0"})

		assert.Len(t, limiter.clients, 3)
		assert.Contains(t, limiter.clients[0], "ip:")
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		limiter := newFakeLimiter(1)
		limiter.err = errors.New("redis: connection refused")
		r := newRateLimitedRouter(limiter)

		for range 3 {
			rec := httptest.PerformRequest(t, r, http.MethodPost, "/book", nil, "")
			httptest.AssertSuccessResponse(t, rec, http.StatusCreated, nil)
			assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
		}
	})

	t.Run("nil limiter is a passthrough", func(t *testing.T) {
		r := newRateLimitedRouter(nil)
		rec := httptest.PerformRequest(t, r, http.MethodPost, "/book", nil, "")
		httptest.AssertSuccessResponse(t, rec, http.StatusCreated, nil)
	})
}
