//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Mutation edits a request body before it is sent.
type Mutation func(m map[string]any)

// Field sets key to value, or drops it when value is nil so a binding rule
// like required can be exercised.
func Field(key string, value any) Mutation {
	return func(m map[string]any) {
		if value == nil {
			delete(m, key)
			return
		}
		m[key] = value
	}
}

// DtoMap renders a request DTO through its JSON tags and applies muts, so
// tests can send bodies the typed DTO cannot express (24:00, wrong types).
func DtoMap(t *testing.T, v any, muts ...Mutation) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err, "marshal request body")

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m), "request body must be a JSON object")
	for _, f := range muts {
		f(m)
	}
	return m
}
