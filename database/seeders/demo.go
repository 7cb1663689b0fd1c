package seeders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kashvi-crm/app/repositories"
	"github.com/shashiranjanraj/kashvi-crm/app/services"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
)

func init() {
	Register("demo", SeedDemo)
}

var demoCustomers = []services.CustomerInput{
	{Name: "Ada Lovelace", Email: "ada@example.com"},
	{Name: "Grace Hopper", Email: "grace@example.com"},
	{Name: "Alan Turing", Email: "alan@example.com"},
}

var demoProducts = []struct {
	name  string
	price string
	stock int
}{
	{"Widget", "10.00", 100},
	{"Gadget", "5.50", 40},
	{"Gizmo", "24.99", 7},
}

// SeedDemo loads a few customers, products and one order through the CRM
// service, so the usual validation applies. Running it again adds nothing.
func SeedDemo(ctx context.Context, db *gorm.DB) error {
	store := repositories.NewStore(db, 0)
	svc := services.NewCRMService(store)

	res, err := svc.BulkCreateCustomers(ctx, demoCustomers)
	if err != nil {
		return err
	}
	for _, msg := range res.Errors {
		logger.WithCtx(ctx).Debug("seed: customer skipped", "reason", msg)
	}

	products, err := svc.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		for _, p := range demoProducts {
			stock := p.stock
			created, err := svc.CreateProduct(ctx, services.ProductInput{
				Name:  p.name,
				Price: decimal.RequireFromString(p.price),
				Stock: &stock,
			})
			if err != nil {
				return err
			}
			products = append(products, *created)
		}
	}

	orders, err := svc.ListOrders(ctx)
	if err != nil || len(orders) > 0 {
		return err
	}
	customers, err := svc.ListCustomers(ctx)
	if err != nil {
		return err
	}
	if len(customers) == 0 || len(products) < 2 {
		return nil
	}

	_, err = svc.CreateOrder(ctx, services.OrderInput{
		CustomerID: fmt.Sprint(customers[0].ID),
		ProductIDs: []string{fmt.Sprint(products[0].ID), fmt.Sprint(products[1].ID)},
	})
	return err
}
