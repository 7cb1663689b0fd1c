package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
	"github.com/shashiranjanraj/kashvi-crm/app/repositories"
	"github.com/shashiranjanraj/kashvi-crm/pkg/event"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-crm/pkg/validate"
)

const (
	msgCustomerCreated  = "Customer created successfully."
	msgEmailExists      = "Email already exists"
	msgPriceNotPositive = "Price must be positive"
	msgPricePrecision   = "Price must have at most two decimal places"
	msgNegativeStock    = "Stock cannot be negative"
	msgNoProducts       = "At least one product must be selected"
	msgBadCustomer      = "Invalid customer ID"
	msgBadProducts      = "One or more product IDs are invalid"
)

type CustomerInput struct {
	Name  string  `json:"name"  validate:"required,max=255"`
	Email string  `json:"email" validate:"required,max=255"`
	Phone *string `json:"phone" validate:"nullable,max=50"`
}

type ProductInput struct {
	Name  string `json:"name" validate:"required,max=255"`
	Price decimal.Decimal
	Stock *int
}

// OrderInput carries ids as the API receives them. OrderDate defaults to now.
type OrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time
}

type CreateCustomerResult struct {
	Customer models.Customer
	Message  string
	Success  bool
}

// BulkCreateResult lists created customers and per-record errors, both in
// input order.
type BulkCreateResult struct {
	Customers []models.Customer
	Errors    []string
}

// CRMService implements the customer, product and order operations.
type CRMService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewCRMService(store *repositories.Store) *CRMService {
	return &CRMService{store: store, now: time.Now}
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *CRMService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.store.Customers().All(ctx)
}

func (s *CRMService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.store.Products().All(ctx)
}

func (s *CRMService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders().All(ctx)
}

// ── Customers ────────────────────────────────────────────────────────────────

// CreateCustomer inserts a customer unless the email is already taken.
func (s *CRMService) CreateCustomer(ctx context.Context, in CustomerInput) (*CreateCustomerResult, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}

	repo := s.store.Customers()
	exists, err := repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid(msgEmailExists + ".")
	}

	customer := models.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := repo.Create(ctx, &customer); err != nil {
		return nil, err
	}

	s.invalidate(ctx, repositories.CustomersKey)
	event.Fire(ctx, EventCustomerCreated, customer)

	return &CreateCustomerResult{Customer: customer, Message: msgCustomerCreated, Success: true}, nil
}

// BulkCreateCustomers inserts inputs in order inside one transaction.
// Records that fail validation are reported as "Record <n>: <reason>" and
// skipped; any other error rolls back the whole batch.
func (s *CRMService) BulkCreateCustomers(ctx context.Context, inputs []CustomerInput) (*BulkCreateResult, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	res := &BulkCreateResult{Customers: []models.Customer{}, Errors: []string{}}
	repo := tx.Customers()
	seen := make(map[string]struct{}, len(inputs))

	for i, in := range inputs {
		customer, err := createInBatch(ctx, repo, in, seen)
		if err != nil {
			var ve *ValidationError
			if !errors.As(err, &ve) {
				return nil, fmt.Errorf("bulk create customers: record %d: %w", i+1, err)
			}
			res.Errors = append(res.Errors, fmt.Sprintf("Record %d: %s", i+1, ve.Message))
			continue
		}
		res.Customers = append(res.Customers, customer)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	metrics.BulkRecords.WithLabelValues("created").Add(float64(len(res.Customers)))
	metrics.BulkRecords.WithLabelValues("rejected").Add(float64(len(res.Errors)))
	logger.WithCtx(ctx).Info("bulk customer create",
		"received", len(inputs), "created", len(res.Customers), "rejected", len(res.Errors))

	if len(res.Customers) > 0 {
		s.invalidate(ctx, repositories.CustomersKey)
	}
	for _, c := range res.Customers {
		event.Fire(ctx, EventCustomerCreated, c)
	}
	return res, nil
}

func createInBatch(ctx context.Context, repo *repositories.CustomerRepository, in CustomerInput, seen map[string]struct{}) (models.Customer, error) {
	if err := checkInput(in); err != nil {
		return models.Customer{}, err
	}
	if _, dup := seen[in.Email]; dup {
		return models.Customer{}, invalid(msgEmailExists)
	}
	exists, err := repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return models.Customer{}, err
	}
	if exists {
		return models.Customer{}, invalid(msgEmailExists)
	}

	customer := models.Customer{Name: in.Name, Email: in.Email, Phone: in.Phone}
	if err := repo.Create(ctx, &customer); err != nil {
		return models.Customer{}, err
	}
	seen[in.Email] = struct{}{}
	return customer, nil
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *CRMService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := checkInput(in); err != nil {
		return nil, err
	}
	if !in.Price.IsPositive() {
		return nil, invalid(msgPriceNotPositive)
	}
	// Prices are stored as decimal(10,2); a sub-cent value would be
	// truncated, possibly to 0.00.
	if !in.Price.Equal(in.Price.Truncate(2)) {
		return nil, invalid(msgPricePrecision)
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, invalid(msgNegativeStock)
	}

	product := models.Product{Name: in.Name, Price: in.Price, Stock: stock}
	if err := s.store.Products().Create(ctx, &product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, repositories.ProductsKey)
	event.Fire(ctx, EventProductCreated, product)
	return &product, nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

// CreateOrder places an order for existing products. Every requested id
// must resolve, so a repeated id fails the same way an unknown one does.
// TotalAmount is the sum of the product prices at this moment.
func (s *CRMService) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	if len(in.ProductIDs) == 0 {
		return nil, invalid(msgNoProducts)
	}
	customerID, err := parseID(in.CustomerID)
	if err != nil {
		return nil, invalid(msgBadCustomer)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	customer, err := tx.Customers().FindByID(ctx, customerID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, invalid(msgBadCustomer)
	}
	if err != nil {
		return nil, err
	}

	productIDs := make([]uint, 0, len(in.ProductIDs))
	for _, raw := range in.ProductIDs {
		id, err := parseID(raw)
		if err != nil {
			return nil, invalid(msgBadProducts)
		}
		productIDs = append(productIDs, id)
	}
	products, err := tx.Products().FindAllByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(products) != len(productIDs) {
		return nil, invalid(msgBadProducts)
	}

	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}

	orderDate := s.now().UTC()
	if in.OrderDate != nil {
		orderDate = in.OrderDate.UTC()
	}

	order := models.Order{
		CustomerID:  customer.ID,
		Customer:    customer,
		Products:    products,
		OrderDate:   orderDate,
		TotalAmount: total,
	}
	if err := tx.Orders().Create(ctx, &order); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidate(ctx, repositories.OrdersKey)
	event.Fire(ctx, EventOrderCreated, order)
	return &order, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func checkInput(in interface{}) error {
	if errs := validate.Check(in); len(errs) > 0 {
		return invalid(errs[0].Message)
	}
	return nil
}

func parseID(raw string) (uint, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(n), nil
}

func (s *CRMService) invalidate(ctx context.Context, keys ...string) {
	if err := s.store.Invalidate(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
