package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-crm/pkg/reqid"
)

func TestMiddleware(t *testing.T) {
	var got string
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = reqid.FromCtx(r.Context())
	}))

	cases := []struct {
		name    string
		inbound string
		reuse   bool
	}{
		{"generated", "", false},
		{"reused", "trace-42", true},
		{"too long", strings.Repeat("a", 200), false},
		{"control chars", "bad\nid", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.inbound != "" {
				req.Header.Set(reqid.Header, tc.inbound)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, got, rec.Header().Get(reqid.Header))
			if tc.reuse {
				assert.Equal(t, tc.inbound, got)
			} else {
				assert.Len(t, got, 36)
			}
		})
	}
}
