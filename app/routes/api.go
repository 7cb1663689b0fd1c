package routes

import (
	"net/http"

	"github.com/shashiranjanraj/kashvi-crm/config"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-crm/pkg/middleware"
	"github.com/shashiranjanraj/kashvi-crm/pkg/router"
)

// Handlers are the endpoint implementations mounted by Register.
type Handlers struct {
	GraphQL http.Handler
	Health  http.Handler
}

// Register mounts the CRM endpoints. The GraphQL route is guarded by
// bearer-token auth when AUTH_REQUIRED is set.
func Register(r *router.Router, h Handlers) {
	var guard []router.Middleware
	if config.AuthRequired() {
		guard = append(guard, middleware.Auth)
	}

	path := config.GraphQLPath()
	r.Post(path, "graphql", h.GraphQL, guard...)
	r.Get(path, "graphql.query", h.GraphQL, guard...)

	r.Get("/health", "health", h.Health)
	r.Get("/metrics", "metrics", metrics.Handler())
}
