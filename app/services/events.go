package services

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/kashvi-crm/app/models"
	"github.com/shashiranjanraj/kashvi-crm/pkg/event"
	"github.com/shashiranjanraj/kashvi-crm/pkg/logger"
	"github.com/shashiranjanraj/kashvi-crm/pkg/metrics"
)

// Events fired after a create is committed. The payload is the created
// model value.
const (
	EventCustomerCreated = "customer.created"
	EventProductCreated  = "product.created"
	EventOrderCreated    = "order.created"
)

var listenOnce sync.Once

// RegisterListeners wires the domain events to metrics and logs. Safe to
// call more than once.
func RegisterListeners() {
	listenOnce.Do(func() {
		event.Listen(EventCustomerCreated, func(ctx context.Context, p interface{}) {
			c := p.(models.Customer)
			metrics.EntitiesCreated.WithLabelValues("customer").Inc()
			logger.WithCtx(ctx).Info("customer created", "customer_id", c.ID)
		})
		event.Listen(EventProductCreated, func(ctx context.Context, p interface{}) {
			pr := p.(models.Product)
			metrics.EntitiesCreated.WithLabelValues("product").Inc()
			logger.WithCtx(ctx).Info("product created", "product_id", pr.ID, "price", pr.Price.String())
		})
		event.Listen(EventOrderCreated, func(ctx context.Context, p interface{}) {
			o := p.(models.Order)
			metrics.EntitiesCreated.WithLabelValues("order").Inc()
			logger.WithCtx(ctx).Info("order created",
				"order_id", o.ID, "customer_id", o.CustomerID, "total_amount", o.TotalAmount.String())
		})
	})
}
