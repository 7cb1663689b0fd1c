package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order links one customer to one or more products. TotalAmount is fixed
// at creation and not recomputed when product prices change.
type Order struct {
	ID          uint            `gorm:"primaryKey"                          json:"id"`
	CustomerID  uint            `gorm:"not null;index"                      json:"customer_id"`
	Customer    Customer        `gorm:"constraint:OnDelete:CASCADE"         json:"customer"`
	Products    []Product       `gorm:"many2many:order_products"            json:"products"`
	OrderDate   time.Time       `gorm:"not null"                            json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"         json:"total_amount"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
