// Package orm is a small fluent layer over *gorm.DB used by the
// repositories. It adds context plumbing and an optional read-through
// cache for whole-table reads.
//
//	var products []models.Product
//	err := orm.On(db).WithContext(ctx).Order("id").Cache("crm:products", ttl, &products)
package orm

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned by First when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

// Cacher is the storage behind Query.Cache. The HTTP kernel installs a
// Redis-backed implementation; when nil, Cache always hits the database.
type Cacher interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Forget(ctx context.Context, keys ...string) error
}

var CacheStore Cacher

// generations counts Forget calls per key. A reader that saw a different
// generation before its database read must not leave its result cached.
var generations sync.Map // key -> *atomic.Uint64

func generation(key string) *atomic.Uint64 {
	g, _ := generations.LoadOrStore(key, new(atomic.Uint64))
	return g.(*atomic.Uint64)
}

type Query struct {
	db  *gorm.DB
	ctx context.Context
}

// On starts a query against db, which may be the root handle or an open
// transaction.
func On(db *gorm.DB) *Query {
	return &Query{db: db, ctx: context.Background()}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx), ctx: ctx}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v), ctx: q.ctx}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...), ctx: q.ctx}
}

func (q *Query) Preload(association string) *Query {
	return &Query{db: q.db.Preload(association), ctx: q.ctx}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value), ctx: q.ctx}
}

func (q *Query) Omit(columns ...string) *Query {
	return &Query{db: q.db.Omit(columns...), ctx: q.ctx}
}

func (q *Query) Get(dest interface{}) error {
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	return q.db.First(dest).Error
}

// Exists reports whether any row matches the current conditions.
func (q *Query) Exists() (bool, error) {
	var n int64
	if err := q.db.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (q *Query) Create(v interface{}) error {
	return q.db.Create(v).Error
}

// Cache serves dest from CacheStore when present, otherwise runs Get and
// stores the result unless Forget(key) ran after the read started. A zero
// ttl bypasses the cache.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if CacheStore == nil || ttl <= 0 {
		return q.Get(dest)
	}

	if CacheStore.Get(q.ctx, key, dest) {
		return nil
	}

	gen := generation(key)
	seen := gen.Load()
	if err := q.Get(dest); err != nil {
		return err
	}
	if gen.Load() != seen {
		return nil
	}

	// A failed write only costs the next reader a database hit.
	_ = CacheStore.Set(q.ctx, key, dest, ttl)

	// Forget ran while Set was in flight: the value may predate that
	// write, so drop it again.
	if gen.Load() != seen {
		_ = CacheStore.Forget(q.ctx, key)
	}
	return nil
}

// Forget drops cached keys, typically after a write that changes them.
// Reads of those keys already in flight will not re-cache what they read.
func Forget(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		generation(k).Add(1)
	}
	if CacheStore == nil {
		return nil
	}
	return CacheStore.Forget(ctx, keys...)
}

// IsNotFound reports whether err means "no such row".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
