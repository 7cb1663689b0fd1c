package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
	"github.com/shashiranjanraj/kashvi-crm/pkg/orm"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	db       *gorm.DB
	cacheTTL time.Duration
}

// All returns every order with its customer and products loaded.
func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := orm.On(r.db).WithContext(ctx).
		Preload("Customer").
		Preload("Products").
		Order("id").
		Cache(OrdersKey, r.cacheTTL, &orders)
	return orders, err
}

// Create inserts order and its order_products rows. The referenced customer
// and products must already exist; they are linked, never upserted.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return orm.On(r.db).WithContext(ctx).Omit("Customer", "Products.*").Create(order)
}
