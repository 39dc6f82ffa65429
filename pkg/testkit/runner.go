// Scenario runner for testkit.
//
// Run() executes one scenario file against an http.Handler.
// RunDir() discovers all *.json files in a directory and runs them as subtests.

package testkit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

// ─── Public API ───────────────────────────────────────────────────────────────

// Run executes the scenario at path against handler as a subtest.
func Run(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	s, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", path, err)
	}

	t.Run(s.Name, func(t *testing.T) {
		RunScenario(t, handler, s)
	})
}

// RunDir runs every *.json scenario in dir. newHandler is called once per
// scenario so scenarios never see each other's data.
func RunDir(t *testing.T, newHandler func() http.Handler, dir string) {
	t.Helper()

	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		t.Fatalf("testkit: no scenario files found in %q", dir)
	}

	for _, path := range entries {
		s, err := LoadScenario(path)
		if err != nil {
			t.Errorf("testkit: load %q: %v", path, err)
			continue
		}

		t.Run(s.Name, func(t *testing.T) {
			RunScenario(t, newHandler(), s)
		})
	}
}

// RunScenario fires every step of s in order. A step whose status code does
// not match stops the scenario, since later steps usually depend on it.
func RunScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	vars := map[string]string{}
	for _, st := range s.Steps {
		if !runStep(t, handler, s, st, vars) {
			return
		}
	}
}

// ─── Internal execution ───────────────────────────────────────────────────────

func runStep(t *testing.T, handler http.Handler, s *Scenario, st Step, vars map[string]string) bool {
	t.Helper()

	// ── 1. Build request ──────────────────────────────────────────────────

	raw, err := s.requestBody(st)
	if err != nil {
		t.Fatalf("[%s/%s] read request body: %v", s.Name, st.Name, err)
	}

	var body io.Reader
	if raw != nil {
		body = bytes.NewReader(expand(raw, vars))
	}

	req := httptest.NewRequest(st.RequestMethod, string(expand([]byte(st.RequestURL), vars)), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range st.Headers {
		req.Header.Set(k, v)
	}

	// ── 2. Fire ───────────────────────────────────────────────────────────

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// ── 3. Assert status code ─────────────────────────────────────────────

	if !AssertStatusCode(t, s.Name+"/"+st.Name, st.ExpectedCode, rec.Code, rec.Body.Bytes()) {
		return false
	}

	// ── 4. Assert response body ───────────────────────────────────────────

	expected, err := s.responseBody(st)
	if err != nil {
		t.Fatalf("[%s/%s] read response body: %v", s.Name, st.Name, err)
	}
	if expected != nil {
		AssertJSONSubset(t, s.Name+"/"+st.Name, expand(expected, vars), rec.Body.Bytes())
	}

	// ── 5. Capture ────────────────────────────────────────────────────────

	if len(st.Capture) == 0 {
		return true
	}
	var doc interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Errorf("[%s/%s] capture: response is not JSON: %v", s.Name, st.Name, err)
		return false
	}
	for name, path := range st.Capture {
		v, ok := Lookup(doc, path)
		if !ok {
			t.Errorf("[%s/%s] capture %q: no value at %q", s.Name, st.Name, name, path)
			return false
		}
		vars[name] = fmt.Sprint(v)
	}
	return true
}

// expand replaces every {{name}} in b with its captured value.
func expand(b []byte, vars map[string]string) []byte {
	if len(vars) == 0 {
		return b
	}
	out := string(b)
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return []byte(out)
}

// Lookup walks a decoded JSON document along a dotted path. Numeric segments
// index arrays.
func Lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	if path == "" {
		return cur, true
	}
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []interface{}:
			var i int
			if _, err := fmt.Sscanf(seg, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
