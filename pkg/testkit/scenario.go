// Package testkit holds the service's test helpers: a throwaway SQLite
// database, a GraphQL request helper, JSON assertions, and a runner for
// JSON scenario files.
//
// A scenario file is an ordered array of requests that run against one
// handler and share its database, so later steps see earlier writes:
//
//	testdata/
//	  orders.json                ← flow: [ {scenario}, {scenario}, ... ]
//	  orders_create_res.json     ← expected response body (partial match)
//
// Example _test.go:
//
//	func TestFlows(t *testing.T) {
//	    testkit.RunDir(t, "testdata", newHandler)
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// Scenario describes a single request and its expected outcome.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Request. A non-empty Query is sent as a GraphQL POST body with
	// Variables; otherwise RequestFileName (if set) is sent verbatim.
	RequestMethod   string                 `json:"requestMethod"`
	RequestURL      string                 `json:"requestUrl"`
	RequestFileName string                 `json:"requestFileName"`
	Query           string                 `json:"query"`
	Variables       map[string]interface{} `json:"variables"`
	Headers         map[string]string      `json:"headers"`

	// Response assertions. ResponseFileName or Response hold the expected
	// body; keys missing from it are not checked.
	ExpectedCode     int             `json:"expectedCode"`
	ResponseFileName string          `json:"responseFileName"`
	Response         json.RawMessage `json:"response"`

	dir string
}

// LoadScenarios reads an array of scenarios from path, filling defaults:
// POST to /graphql when a query is given, GET otherwise, and status 200.
func LoadScenarios(path string) ([]*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var scenarios []*Scenario
	if err := json.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	for i, s := range scenarios {
		s.dir = filepath.Dir(abs)
		if err := s.normalize(); err != nil {
			return nil, fmt.Errorf("testkit: %q scenario %d: %w", abs, i, err)
		}
	}
	return scenarios, nil
}

func (s *Scenario) normalize() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.RequestURL == "" {
		s.RequestURL = "/graphql"
	}
	if s.RequestMethod == "" {
		s.RequestMethod = http.MethodGet
		if s.Query != "" || s.RequestFileName != "" {
			s.RequestMethod = http.MethodPost
		}
	}
	if s.ExpectedCode == 0 {
		s.ExpectedCode = http.StatusOK
	}
	return nil
}

// RequestBody returns the bytes to send, or nil for no body.
func (s *Scenario) RequestBody() ([]byte, error) {
	if s.Query != "" {
		return json.Marshal(map[string]interface{}{"query": s.Query, "variables": s.Variables})
	}
	if s.RequestFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.RequestFileName))
}

// ExpectedBody returns the expected response JSON, or nil when the body is
// not checked.
func (s *Scenario) ExpectedBody() ([]byte, error) {
	if len(s.Response) > 0 {
		return s.Response, nil
	}
	if s.ResponseFileName == "" {
		return nil, nil
	}
	return os.ReadFile(s.resolve(s.ResponseFileName))
}

func (s *Scenario) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}
