//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	resdto "facility-booking/internal/handler/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errorEnvelope mirrors httperr.Response with the 422 detail decoded.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail *resdto.ValidationResultResponse `json:"detail"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env),
		fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))
	return env
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}
	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), targetStruct),
			fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

// AssertErrorResponse checks the status and that the envelope message contains
// expectedErrorMsg. An empty message only checks the envelope decodes.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String()))

	env := decodeEnvelope(t, w)
	if expectedErrorMsg != "" {
		assert.Contains(t, env.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
}

// AssertRejectedReservation checks a 422 and returns the validation result
// carried in the envelope detail.
func AssertRejectedReservation(t *testing.T, w *httptest.ResponseRecorder) resdto.ValidationResultResponse {
	t.Helper()

	require.Equal(t, http.StatusUnprocessableEntity, w.Code,
		fmt.Sprintf("Expected a rejected reservation, got %d. Response: %s", w.Code, w.Body.String()))

	env := decodeEnvelope(t, w)
	assert.Equal(t, "Reservation is not valid", env.Error.Message)
	require.NotNil(t, env.Detail, "422 response carries no validation result")
	assert.False(t, env.Detail.Valid)
	return *env.Detail
}
