package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode checks the response code with testify and echoes the body
// on mismatch.
func AssertStatusCode(t *testing.T, label string, expected, got int, body []byte) bool {
	t.Helper()
	return assert.Equal(t, expected, got,
		"[%s] HTTP status code mismatch\nbody: %s", label, string(body))
}

// AssertJSONSubset checks that actual contains everything in expected.
// Objects may carry extra keys; arrays must match in length.
func AssertJSONSubset(t *testing.T, label string, expected, actual []byte) bool {
	t.Helper()

	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected body is not valid JSON", label,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", label, string(actual),
	) {
		return false
	}

	diffs := DiffJSON("", expVal, actVal)
	return assert.Empty(t, diffs, "[%s] response body mismatch\n%s\nbody: %s",
		label, strings.Join(diffs, "\n"), string(actual))
}

// ─── JSON diff helper ─────────────────────────────────────────────────────────

// DiffJSON returns human-readable differences between two JSON-decoded
// values. Keys present only in actual are not differences.
func DiffJSON(path string, expected, actual interface{}) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
