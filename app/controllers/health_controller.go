package controllers

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/pkg/cache"
	"github.com/shashiranjanraj/kashvi-crm/pkg/database"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/response"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Show reports database and cache reachability. The database is required;
// a cache failure only marks it degraded since reads fall back to SQL.
func (c *HealthController) Show(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "ok", "cache": "disabled"}

	dbErr := database.PingContext(ctx, c.db)
	if dbErr != nil {
		status["database"] = "down"
		logger.WithCtx(ctx).Warn("health: database unreachable", "error", dbErr)
	}

	if cache.Enabled() {
		status["cache"] = "ok"
		if err := cache.Ping(ctx); err != nil {
			status["cache"] = "degraded"
			logger.WithCtx(ctx).Warn("health: cache unreachable", "error", err)
		}
	}

	if dbErr != nil {
		response.ServiceUnavailable(w, status)
		return
	}
	response.Success(w, status)
}
