package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kashvi-crm/pkg/cache"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	ctx := context.Background()
	cache.RDB = nil

	assert.False(t, cache.Enabled())
	assert.NoError(t, cache.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var out map[string]int
	assert.False(t, cache.Get(ctx, "k", &out))
	assert.Nil(t, out)

	assert.NoError(t, cache.Forget(ctx, "k"))
	assert.NoError(t, cache.Ping(ctx))
	assert.NoError(t, cache.Close())
}
