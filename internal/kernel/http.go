// Package kernel assembles the HTTP handler: global middleware, the GraphQL
// schema bound to the CRM service, and the routes.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/app/controllers"
	"github.com/shashiranjanraj/kashvi-crm/app/repositories"
	"github.com/shashiranjanraj/kashvi-crm/app/routes"
	"github.com/shashiranjanraj/kashvi-crm/app/schema"
	"github.com/shashiranjanraj/kashvi-crm/app/services"
	"github.com/shashiranjanraj/kashvi-crm/config"
	"github.com/shashiranjanraj/kashvi-crm/pkg/cache"
	gql "github.com/shashiranjanraj/kashvi-crm/pkg/graphql"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-crm/pkg/middleware"
	"github.com/shashiranjanraj/kashvi-crm/pkg/orm"
	"github.com/shashiranjanraj/kashvi-crm/pkg/reqid"
	"github.com/shashiranjanraj/kashvi-crm/pkg/response"
	"github.com/shashiranjanraj/kashvi-crm/pkg/router"
)

type HTTPKernel struct {
	db *gorm.DB
}

// NewHTTPKernel serves from db. A nil db is enough for listing routes.
func NewHTTPKernel(db *gorm.DB) *HTTPKernel {
	return &HTTPKernel{db: db}
}

// Router builds the router with every route registered.
func (k *HTTPKernel) Router() (*router.Router, error) {
	// Wire cache into ORM (breaks the import cycle).
	orm.CacheStore = ormCache{}
	services.RegisterListeners()

	store := repositories.NewStore(k.db, config.CacheTTL())
	s, err := schema.New(services.NewCRMService(store))
	if err != nil {
		return nil, err
	}

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery
	//  3. Request ID         — before anything logs
	//  4. Logger
	//  5. CORS
	//  6. Rate limiter
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(config.RateLimitPerMinute(), time.Minute),
	)

	routes.Register(r, routes.Handlers{
		GraphQL: gql.Handler(s),
		Health:  http.HandlerFunc(controllers.NewHealthController(k.db).Show),
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not found")
	})
	return r, nil
}

func (k *HTTPKernel) Handler() (http.Handler, error) {
	r, err := k.Router()
	if err != nil {
		return nil, err
	}
	return r.Handler(), nil
}

// ormCache bridges pkg/cache to the orm.Cacher interface.
type ormCache struct{}

func (ormCache) Get(ctx context.Context, key string, dest interface{}) bool {
	return cache.Get(ctx, key, dest)
}

func (ormCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return cache.Set(ctx, key, value, ttl)
}

func (ormCache) Forget(ctx context.Context, keys ...string) error {
	return cache.Forget(ctx, keys...)
}
