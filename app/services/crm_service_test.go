package services_test

import (
	"context"
	"errors"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
	"github.com/shashiranjanraj/kashvi-crm/app/repositories"
	"github.com/shashiranjanraj/kashvi-crm/app/services"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
	"github.com/shashiranjanraj/kashvi-crm/pkg/testkit"
)

func setup(t *testing.T) (*services.CRMService, *repositories.Store, *gorm.DB) {
	t.Helper()
	t.Cleanup(logger.Replace(logger.New(io.Discard, false)))

	db := testkit.NewDB(t, &models.Customer{}, &models.Product{}, &models.Order{})
	store := repositories.NewStore(db, 0)
	return services.NewCRMService(store), store, db
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	var ve *services.ValidationError
	require.True(t, errors.As(err, &ve), "want ValidationError, got %T: %v", err, err)
	assert.Equal(t, msg, ve.Message)
}

func countCustomers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&n).Error)
	return n
}

func mustProduct(t *testing.T, svc *services.CRMService, name, price string) *models.Product {
	t.Helper()
	p, err := svc.CreateProduct(context.Background(), services.ProductInput{
		Name:  name,
		Price: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func id(v uint) string { return strconv.FormatUint(uint64(v), 10) }

// ── Customers ────────────────────────────────────────────────────────────────

func TestCreateCustomer(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	res, err := svc.CreateCustomer(ctx, services.CustomerInput{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Phone: strPtr("555-0100"),
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Customer created successfully.", res.Message)
	assert.NotZero(t, res.Customer.ID)
	assert.Equal(t, "Ada Lovelace", res.Customer.Name)
	assert.Equal(t, "ada@example.com", res.Customer.Email)
	require.NotNil(t, res.Customer.Phone)
	assert.Equal(t, "555-0100", *res.Customer.Phone)

	all, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, res.Customer.ID, all[0].ID)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, services.CustomerInput{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.CreateCustomer(ctx, services.CustomerInput{Name: "B", Email: "a@x.com"})
		requireValidation(t, err, "Email already exists.")
	}
	assert.EqualValues(t, 1, countCustomers(t, db))
}

func TestCreateCustomerRequiresNameAndEmail(t *testing.T) {
	svc, _, db := setup(t)

	_, err := svc.CreateCustomer(context.Background(), services.CustomerInput{Name: "  ", Email: "a@x.com"})
	requireValidation(t, err, "The name field is required.")

	_, err = svc.CreateCustomer(context.Background(), services.CustomerInput{Name: "A"})
	requireValidation(t, err, "The email field is required.")

	assert.Zero(t, countCustomers(t, db))
}

func TestBulkCreateCustomersPartialFailure(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	rejectedBefore := testutil.ToFloat64(metrics.BulkRecords.WithLabelValues("rejected"))

	res, err := svc.BulkCreateCustomers(ctx, []services.CustomerInput{
		{Name: "A", Email: "a@x.com"},
		{Name: "B", Email: "a@x.com"},
		{Name: "C", Email: "c@x.com"},
	})
	require.NoError(t, err)

	require.Len(t, res.Customers, 2)
	assert.Equal(t, "A", res.Customers[0].Name)
	assert.Equal(t, "C", res.Customers[1].Name)
	assert.Equal(t, []string{"Record 2: Email already exists"}, res.Errors)
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(metrics.BulkRecords.WithLabelValues("rejected")))

	all, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBulkCreateCustomersAgainstExistingAndInvalid(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, services.CustomerInput{Name: "Old", Email: "old@x.com"})
	require.NoError(t, err)

	res, err := svc.BulkCreateCustomers(ctx, []services.CustomerInput{
		{Name: "", Email: "blank@x.com"},
		{Name: "New", Email: "new@x.com", Phone: strPtr("123")},
		{Name: "Again", Email: "old@x.com"},
	})
	require.NoError(t, err)

	require.Len(t, res.Customers, 1)
	assert.Equal(t, "new@x.com", res.Customers[0].Email)
	assert.Equal(t, []string{
		"Record 1: The name field is required.",
		"Record 3: Email already exists",
	}, res.Errors)
}

func TestBulkCreateCustomersEmpty(t *testing.T) {
	svc, _, _ := setup(t)

	res, err := svc.BulkCreateCustomers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Customers)
	assert.Empty(t, res.Errors)
}

func TestBulkCreateCustomersRollsBackOnFault(t *testing.T) {
	svc, _, db := setup(t)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_boom", func(tx *gorm.DB) {
		if c, ok := tx.Statement.Dest.(*models.Customer); ok && c.Email == "boom@x.com" {
			_ = tx.AddError(errors.New("disk on fire"))
		}
	}))

	_, err := svc.BulkCreateCustomers(context.Background(), []services.CustomerInput{
		{Name: "A", Email: "a@x.com"},
		{Name: "B", Email: "a@x.com"},
		{Name: "Boom", Email: "boom@x.com"},
	})
	require.Error(t, err)
	assert.False(t, services.IsValidation(err))
	assert.Contains(t, err.Error(), "record 3")

	assert.Zero(t, countCustomers(t, db), "the whole batch is rolled back")
}

// ── Products ─────────────────────────────────────────────────────────────────

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   services.ProductInput
		msg  string
	}{
		{"zero price", services.ProductInput{Name: "W", Price: decimal.Zero}, "Price must be positive"},
		{"negative price", services.ProductInput{Name: "W", Price: decimal.NewFromInt(-5)}, "Price must be positive"},
		{"negative stock", services.ProductInput{Name: "W", Price: decimal.NewFromInt(1), Stock: intPtr(-1)}, "Stock cannot be negative"},
		{"sub-cent price", services.ProductInput{Name: "Dust", Price: decimal.RequireFromString("0.004")}, "Price must have at most two decimal places"},
		{"fractional cent", services.ProductInput{Name: "W", Price: decimal.RequireFromString("1.005")}, "Price must have at most two decimal places"},
		{"blank name", services.ProductInput{Price: decimal.NewFromInt(1)}, "The name field is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tc.in)
			requireValidation(t, err, tc.msg)
		})
	}

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateProduct(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, services.ProductInput{
		Name:  "Widget",
		Price: decimal.RequireFromString("9.99"),
		Stock: intPtr(5),
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("9.99")))

	noStock, err := svc.CreateProduct(ctx, services.ProductInput{Name: "Gadget", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Zero(t, noStock.Stock)

	// Trailing zeros beyond the cents are not extra precision.
	padded, err := svc.CreateProduct(ctx, services.ProductInput{Name: "Cent", Price: decimal.RequireFromString("0.010")})
	require.NoError(t, err)
	assert.Equal(t, "0.01", padded.Price.StringFixed(2))

	all, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// ── Orders ───────────────────────────────────────────────────────────────────

func TestCreateOrderTotalsPrices(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, services.CustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	p1 := mustProduct(t, svc, "Widget", "10.00")
	p2 := mustProduct(t, svc, "Gadget", "5.50")

	when := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	order, err := svc.CreateOrder(ctx, services.OrderInput{
		CustomerID: id(c.Customer.ID),
		ProductIDs: []string{id(p1.ID), id(p2.ID)},
		OrderDate:  &when,
	})
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("15.50")), "total %s", order.TotalAmount)
	assert.Equal(t, "Ada", order.Customer.Name)
	assert.True(t, order.OrderDate.Equal(when))
	require.Len(t, order.Products, 2)

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	got := []uint{orders[0].Products[0].ID, orders[0].Products[1].ID}
	assert.ElementsMatch(t, []uint{p1.ID, p2.ID}, got)
	assert.True(t, orders[0].TotalAmount.Equal(decimal.RequireFromString("15.5")))
}

func TestCreateOrderDefaultsDateToNow(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, services.CustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	p := mustProduct(t, svc, "Widget", "1.00")

	before := time.Now().UTC().Add(-time.Second)
	order, err := svc.CreateOrder(ctx, services.OrderInput{CustomerID: id(c.Customer.ID), ProductIDs: []string{id(p.ID)}})
	require.NoError(t, err)
	assert.True(t, order.OrderDate.After(before))
}

func TestCreateOrderFailures(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, services.CustomerInput{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	p := mustProduct(t, svc, "Widget", "10.00")
	cid, pid := id(c.Customer.ID), id(p.ID)

	cases := []struct {
		name string
		in   services.OrderInput
		msg  string
	}{
		{"no products", services.OrderInput{CustomerID: cid}, "At least one product must be selected"},
		{"no products, bad customer", services.OrderInput{CustomerID: "999", ProductIDs: []string{}}, "At least one product must be selected"},
		{"unknown customer", services.OrderInput{CustomerID: "999", ProductIDs: []string{pid}}, "Invalid customer ID"},
		{"malformed customer", services.OrderInput{CustomerID: "abc", ProductIDs: []string{pid}}, "Invalid customer ID"},
		{"unknown customer, malformed product", services.OrderInput{CustomerID: "999", ProductIDs: []string{"x"}}, "Invalid customer ID"},
		{"unknown product", services.OrderInput{CustomerID: cid, ProductIDs: []string{pid, "999"}}, "One or more product IDs are invalid"},
		{"duplicate product", services.OrderInput{CustomerID: cid, ProductIDs: []string{pid, pid}}, "One or more product IDs are invalid"},
		{"malformed product", services.OrderInput{CustomerID: cid, ProductIDs: []string{"x"}}, "One or more product IDs are invalid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Failing twice proves nothing was persisted between attempts.
			for i := 0; i < 2; i++ {
				_, err := svc.CreateOrder(ctx, tc.in)
				requireValidation(t, err, tc.msg)
			}
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEntitiesCreatedMetric(t *testing.T) {
	services.RegisterListeners()
	svc, _, _ := setup(t)
	before := testutil.ToFloat64(metrics.EntitiesCreated.WithLabelValues("customer"))

	_, err := svc.CreateCustomer(context.Background(), services.CustomerInput{Name: "A", Email: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EntitiesCreated.WithLabelValues("customer")))
}
