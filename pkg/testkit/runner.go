package testkit

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFlow runs every scenario in the file at path, in order, against one
// handler.
func RunFlow(t *testing.T, handler http.Handler, path string) {
	t.Helper()

	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)

	for _, s := range scenarios {
		if !t.Run(s.Name, func(t *testing.T) { runScenario(t, handler, s) }) {
			// Later steps depend on this one.
			t.FailNow()
		}
	}
}

// RunDir runs each *.json flow in dir as a subtest with a fresh handler.
// Files ending in _res.json or _req.json are bodies, not flows.
func RunDir(t *testing.T, dir string, newHandler func(t *testing.T) http.Handler) {
	t.Helper()

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)

	ran := 0
	for _, path := range paths {
		if strings.HasSuffix(path, "_res.json") || strings.HasSuffix(path, "_req.json") {
			continue
		}
		ran++
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		t.Run(name, func(t *testing.T) {
			RunFlow(t, newHandler(t), path)
		})
	}
	require.NotZero(t, ran, "testkit: no flow files found in %q", dir)
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario) {
	t.Helper()

	body, err := s.RequestBody()
	require.NoError(t, err, "[%s] request body", s.Name)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(strings.ToUpper(s.RequestMethod), s.RequestURL, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, s.ExpectedCode, rec.Code, "[%s] status code\nbody: %s", s.Name, rec.Body.String())

	expected, err := s.ExpectedBody()
	require.NoError(t, err, "[%s] expected body", s.Name)
	if expected != nil {
		AssertJSONEqual(t, expected, rec.Body.Bytes(), "[%s] response body", s.Name)
	}
}
