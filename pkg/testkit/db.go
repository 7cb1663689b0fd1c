package testkit

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/pkg/database"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database, migrates models into it,
// and closes it when the test ends.
func NewDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")

	if len(models) > 0 {
		require.NoError(t, db.AutoMigrate(models...), "testkit: migrate")
	}

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
