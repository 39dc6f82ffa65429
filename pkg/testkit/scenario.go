// Package testkit runs REST API tests described in JSON scenario files.
//
// A scenario is an ordered list of steps fired against one http.Handler.
// Values captured from a response (generated ids, for instance) are
// substituted into later steps wherever "{{name}}" appears:
//
//	{
//	  "name": "create then read variant",
//	  "steps": [
//	    {"name": "create", "requestMethod": "POST", "requestUrl": "/products",
//	     "requestBody": {"name": "Shirt", "variants": [{"name": "Small", "SKU": "SH-S"}]},
//	     "expectedCode": 201,
//	     "capture": {"variant": "variants.0._id"}},
//	    {"name": "read", "requestUrl": "/products/variants/{{variant}}",
//	     "expectedCode": 200, "responseBody": {"SKU": "SH-S"}}
//	  ]
//	}
//
// Expected bodies are matched as a subset: object keys missing from the
// expectation are ignored, arrays must have the same length.
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata")
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ─── Schema ───────────────────────────────────────────────────────────────────

// Scenario is one JSON file: a named sequence of steps sharing captures.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`

	// resolved at load time, not in JSON
	dir string
}

// Step is a single request and its expectations.
type Step struct {
	Name string `json:"name"`

	// Request
	RequestMethod   string            `json:"requestMethod"`   // defaults to GET
	RequestURL      string            `json:"requestUrl"`      // e.g. /products/{{product}}
	RequestBody     json.RawMessage   `json:"requestBody"`     // inline body
	RequestFileName string            `json:"requestFileName"` // body file, relative to the scenario
	Headers         map[string]string `json:"headers"`

	// Response assertions
	ExpectedCode       int             `json:"expectedCode"`
	ExpectedStatusCode int             `json:"expectedStatusCode"` // alias for expectedCode
	ResponseBody       json.RawMessage `json:"responseBody"`
	ResponseFileName   string          `json:"responseFileName"`

	// Capture maps a variable name to a dotted path into the response,
	// e.g. "variants.0._id".
	Capture map[string]string `json:"capture"`
}

// ─── Loading ──────────────────────────────────────────────────────────────────

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

// validate checks required fields and fills defaults.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("at least one step is required")
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		if st.Name == "" {
			st.Name = fmt.Sprintf("step %d", i+1)
		}
		if st.RequestURL == "" {
			return fmt.Errorf("steps[%d].requestUrl is required", i)
		}
		if st.RequestMethod == "" {
			st.RequestMethod = "GET"
		}
		st.RequestMethod = strings.ToUpper(st.RequestMethod)
		if st.ExpectedCode == 0 {
			st.ExpectedCode = st.ExpectedStatusCode
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("steps[%d].expectedCode is required", i)
		}
		if len(st.RequestBody) > 0 && st.RequestFileName != "" {
			return fmt.Errorf("steps[%d]: requestBody and requestFileName are exclusive", i)
		}
	}
	return nil
}

// resolve returns name relative to the scenario directory, or "" if unset.
func (s *Scenario) resolve(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// requestBody returns the raw body for st, or nil when it has none.
func (s *Scenario) requestBody(st Step) ([]byte, error) {
	if len(st.RequestBody) > 0 {
		return st.RequestBody, nil
	}
	if p := s.resolve(st.RequestFileName); p != "" {
		return os.ReadFile(p)
	}
	return nil, nil
}

// responseBody returns the expected body for st, or nil when unchecked.
func (s *Scenario) responseBody(st Step) ([]byte, error) {
	if len(st.ResponseBody) > 0 {
		return st.ResponseBody, nil
	}
	if p := s.resolve(st.ResponseFileName); p != "" {
		return os.ReadFile(p)
	}
	return nil, nil
}
