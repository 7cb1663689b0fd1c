package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
)

const startedAtKey = "crm:query_started_at"

// QueryMetrics is a GORM plugin that times every statement into
// metrics.DBQueryDuration.
type QueryMetrics struct{}

func (QueryMetrics) Name() string { return "crm:query_metrics" }

func (QueryMetrics) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	return errors.Join(
		cb.Create().Before("gorm:create").Register("crm:metrics_start_create", startTimer),
		cb.Create().After("gorm:create").Register("crm:metrics_stop_create", stopTimer("insert")),
		cb.Query().Before("gorm:query").Register("crm:metrics_start_query", startTimer),
		cb.Query().After("gorm:query").Register("crm:metrics_stop_query", stopTimer("select")),
		cb.Update().Before("gorm:update").Register("crm:metrics_start_update", startTimer),
		cb.Update().After("gorm:update").Register("crm:metrics_stop_update", stopTimer("update")),
		cb.Delete().Before("gorm:delete").Register("crm:metrics_start_delete", startTimer),
		cb.Delete().After("gorm:delete").Register("crm:metrics_stop_delete", stopTimer("delete")),
		cb.Row().Before("gorm:row").Register("crm:metrics_start_row", startTimer),
		cb.Row().After("gorm:row").Register("crm:metrics_stop_row", stopTimer("select")),
		cb.Raw().Before("gorm:raw").Register("crm:metrics_start_raw", startTimer),
		cb.Raw().After("gorm:raw").Register("crm:metrics_stop_raw", stopTimer("raw")),
	)
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(startedAtKey, time.Now())
}

func stopTimer(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		if start, ok := v.(time.Time); ok {
			metrics.ObserveDBQuery(operation, start)
		}
	}
}
