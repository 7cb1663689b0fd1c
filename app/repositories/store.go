// Package repositories is the persistence layer of the CRM domain.
//
// A Store wraps the root database handle. Begin opens a Tx that hands out
// the same repositories bound to the transaction:
//
//	tx, err := store.Begin(ctx)
//	if err != nil { return err }
//	defer tx.Rollback() // no-op once committed
//	...
//	return tx.Commit()
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/pkg/orm"
)

// Cache keys for whole-table reads.
const (
	CustomersKey = "crm:customers"
	ProductsKey  = "crm:products"
	OrdersKey    = "crm:orders"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

// ErrTxClosed is returned when a committed or rolled back Tx is reused.
var ErrTxClosed = errors.New("transaction already closed")

// Store is the persistence-context handle injected into services.
type Store struct {
	db       *gorm.DB
	cacheTTL time.Duration
}

// NewStore wraps db. cacheTTL controls how long list reads stay cached;
// zero disables caching.
func NewStore(db *gorm.DB, cacheTTL time.Duration) *Store {
	return &Store{db: db, cacheTTL: cacheTTL}
}

// DB exposes the root handle for bootstrap code such as health checks.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Customers() *CustomerRepository {
	return &CustomerRepository{db: s.db, cacheTTL: s.cacheTTL}
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{db: s.db, cacheTTL: s.cacheTTL}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{db: s.db, cacheTTL: s.cacheTTL}
}

// Invalidate drops cached list reads after a committed write.
func (s *Store) Invalidate(ctx context.Context, keys ...string) error {
	return orm.Forget(ctx, keys...)
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("repositories: begin transaction: %w", tx.Error)
	}
	return &Tx{db: tx}, nil
}

// Tx is an open transaction. Exactly one of Commit or Rollback takes
// effect; later calls to Rollback are no-ops so it can always be deferred.
type Tx struct {
	db     *gorm.DB
	closed bool
}

// Repositories bound to a transaction never read through the cache.

func (t *Tx) Customers() *CustomerRepository { return &CustomerRepository{db: t.db} }

func (t *Tx) Products() *ProductRepository { return &ProductRepository{db: t.db} }

func (t *Tx) Orders() *OrderRepository { return &OrderRepository{db: t.db} }

func (t *Tx) Commit() error {
	if t.closed {
		return ErrTxClosed
	}
	t.closed = true
	if err := t.db.Commit().Error; err != nil {
		return fmt.Errorf("repositories: commit: %w", err)
	}
	return nil
}

func (t *Tx) Rollback() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.db.Rollback().Error; err != nil {
		return fmt.Errorf("repositories: rollback: %w", err)
	}
	return nil
}
