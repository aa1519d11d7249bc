//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

const headerReplayed = "Idempotent-Replayed"

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

// AssertReplayed checks whether a create was served from the idempotency
// store. First executions must not carry the header at all.
func AssertReplayed(t *testing.T, w *httptest.ResponseRecorder, replayed bool) {
	t.Helper()
	if replayed {
		assert.Equal(t, "true", w.Header().Get(headerReplayed), "expected a replayed response")
		return
	}
	assert.Empty(t, w.Header().Get(headerReplayed), "expected a first execution")
}

// AssertRateLimit checks the quota headers on a reservation write.
func AssertRateLimit(t *testing.T, w *httptest.ResponseRecorder, limit, remaining int) {
	t.Helper()
	AssertHeaders(t, w, map[string]string{
		"X-RateLimit-Limit":     strconv.Itoa(limit),
		"X-RateLimit-Remaining": strconv.Itoa(remaining),
	})
}
