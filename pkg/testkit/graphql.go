package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// GraphQLError is one entry of a GraphQL response's errors array.
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// GraphQLResponse is a decoded GraphQL HTTP response.
type GraphQLResponse struct {
	Status int
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Messages returns the error messages in order.
func (r *GraphQLResponse) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Message)
	}
	return out
}

// Decode unmarshals the data member into dest.
func (r *GraphQLResponse) Decode(t *testing.T, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, dest), "testkit: decode data: %s", string(r.Data))
}

// GraphQL POSTs query with variables to path on handler and decodes the
// response. Extra headers are optional key/value pairs.
func GraphQL(t *testing.T, handler http.Handler, path, query string, variables map[string]interface{}, headers ...string) *GraphQLResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	resp := &GraphQLResponse{Status: rec.Code}
	if rec.Code == http.StatusOK || rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp), "testkit: decode response: %s", rec.Body.String())
	}
	return resp
}
