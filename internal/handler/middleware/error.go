package middleware

import (
	"log/slog"
	"net/http"

	"facility-booking/internal/handler/httperr"
	"facility-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const stackLinesLogged = 12

// ErrorHandler renders the last public error left by a handler when nothing
// was written yet, and logs the stack of server side failures.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if resp, err, ok := lastPublicError(c); ok && resp.Status >= http.StatusInternalServerError {
			slog.Error("request failed",
				"request_id", GetRequestID(c),
				"route", routeOf(c),
				"error", err.Error(),
				"stack", errs.ExtractStackLines(err, stackLinesLogged))
		}

		if c.Writer.Written() {
			return
		}
		if resp, _, ok := lastPublicError(c); ok {
			c.JSON(resp.Status, resp)
			return
		}
		if status := c.Writer.Status(); status != http.StatusOK {
			c.Status(status)
			c.Writer.WriteHeaderNow()
			return
		}
		c.JSON(http.StatusInternalServerError, internalError())
	}
}

func lastPublicError(c *gin.Context) (httperr.Response, error, bool) {
	for i := len(c.Errors) - 1; i >= 0; i-- {
		e := c.Errors[i]
		if !e.IsType(gin.ErrorTypePublic) {
			continue
		}
		if resp, ok := e.Meta.(httperr.Response); ok {
			return resp, e.Err, true
		}
	}
	return httperr.Response{}, nil, false
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("recovered from panic", "panic", rec, "request_id", GetRequestID(c), "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
			}
		}()
		c.Next()
	}
}

func internalError() httperr.Response {
	return httperr.NewResponse(http.StatusInternalServerError, "Internal server error", nil)
}
