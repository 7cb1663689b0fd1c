package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
	"github.com/shashiranjanraj/kashvi-crm/pkg/orm"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct {
	db       *gorm.DB
	cacheTTL time.Duration
}

// All returns every customer ordered by id.
func (r *CustomerRepository) All(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := orm.On(r.db).WithContext(ctx).Order("id").Cache(CustomersKey, r.cacheTTL, &customers)
	return customers, err
}

// FindByID looks up a customer by primary key.
func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (models.Customer, error) {
	var customer models.Customer
	err := orm.On(r.db).WithContext(ctx).Where("id = ?", id).First(&customer)
	if orm.IsNotFound(err) {
		return customer, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	return customer, err
}

// ExistsByEmail reports whether a customer already uses email.
func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return orm.On(r.db).WithContext(ctx).Model(&models.Customer{}).Where("email = ?", email).Exists()
}

// Create persists a new customer and fills in its ID.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return orm.On(r.db).WithContext(ctx).Create(customer)
}
