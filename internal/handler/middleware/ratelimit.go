package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"facility-booking/internal/handler/httperr"
	"facility-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var ErrRateLimited = errs.New("rate limit exceeded")

type RateLimiter interface {
	Allow(ctx context.Context, client string) (bool, int64, error)
	Limit() int
	Window() time.Duration
}

// RateLimit counts requests per authenticated user, or per client IP for
// anonymous callers. A limiter failure lets the request through.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		client := "ip:" + c.ClientIP()
		if id, ok := GetUserID(c); ok {
			client = "user:" + id.String()
		}

		allowed, count, err := limiter.Allow(c.Request.Context(), client)
		if err != nil {
			slog.Warn("Rate limiter unavailable, allowing request", "client", client, "error", err.Error())
			c.Next()
			return
		}

		remaining := int64(limiter.Limit()) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(limiter.Window().Seconds())))
			httperr.AbortWithError(c, http.StatusTooManyRequests, ErrRateLimited, "Too many requests", nil)
			return
		}

		c.Next()
	}
}
