package database_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-crm/pkg/database"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := database.Open("sqlite", "file:db_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	assert.NoError(t, database.Ping(db))

	var n int
	require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)

	assert.Positive(t, testutil.CollectAndCount(metrics.DBQueryDuration))
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestPingWithoutConnection(t *testing.T) {
	assert.Error(t, database.Ping(nil))
}
