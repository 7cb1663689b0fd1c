package seeders_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
	"github.com/shashiranjanraj/kashvi-crm/database/seeders"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/testkit"
)

func TestSeedDemoIsRepeatable(t *testing.T) {
	t.Cleanup(logger.Replace(logger.New(io.Discard, false)))
	db := testkit.NewDB(t, &models.Customer{}, &models.Product{}, &models.Order{})
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, db, &out))
	require.NoError(t, seeders.RunAll(ctx, db, &out))
	assert.Contains(t, out.String(), "Running seeder: demo")

	count := func(model interface{}) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 3, count(&models.Customer{}))
	assert.EqualValues(t, 3, count(&models.Product{}))
	assert.EqualValues(t, 1, count(&models.Order{}))

	var order models.Order
	require.NoError(t, db.Preload("Products").First(&order).Error)
	assert.Equal(t, "15.5", order.TotalAmount.String())
	assert.Len(t, order.Products, 2)
}
