package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
	"github.com/shashiranjanraj/kashvi-crm/pkg/orm"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db       *gorm.DB
	cacheTTL time.Duration
}

// All returns every product ordered by id.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := orm.On(r.db).WithContext(ctx).Order("id").Cache(ProductsKey, r.cacheTTL, &products)
	return products, err
}

// FindAllByIDs returns the products whose ids appear in ids. Unknown ids are
// skipped and duplicates collapse, so the result may be shorter than ids.
func (r *ProductRepository) FindAllByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	err := orm.On(r.db).WithContext(ctx).Where("id IN ?", ids).Order("id").Get(&products)
	return products, err
}

// Create persists a new product and fills in its ID.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return orm.On(r.db).WithContext(ctx).Create(product)
}
