package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-crm/pkg/router"
)

func text(s string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(s)) })
}

func tag(v string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Tag", v)
			next.ServeHTTP(w, r)
		})
	}
}

func TestNamedRoutesAndGroups(t *testing.T) {
	r := router.New()
	r.Get("/health", "health", text("up"))

	api := r.Group("/api/", tag("api"))
	api.Post("graphql", "graphql.post", text("gql"), tag("route"))
	api.Get("/graphql", "", text("gql-get"))

	path, ok := r.Path("graphql.post")
	require.True(t, ok)
	assert.Equal(t, "/api/graphql", path)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/graphql", nil))
	assert.Equal(t, "gql", rec.Body.String())
	assert.Equal(t, []string{"api", "route"}, rec.Header().Values("X-Tag"))

	assert.Equal(t, []router.RouteInfo{
		{Method: "GET", Path: "/api/graphql"},
		{Method: "POST", Path: "/api/graphql", Name: "graphql.post"},
		{Method: "GET", Path: "/health", Name: "health"},
	}, r.Routes())
}

func TestURL(t *testing.T) {
	r := router.New()
	r.Get("/customers/{id}", "customers.show", text(""))

	u, err := r.URL("customers.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/customers/7", u)

	_, err = r.URL("customers.show", nil)
	assert.Error(t, err)
	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}
