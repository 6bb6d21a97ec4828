package model

import (
	"time"
)

// Order represents a synced Shopify order. CustomerID is nullable — Shopify
// orders may have no linked customer. Cancelled/closed/processed timestamps
// are each independently nullable.
type Order struct {
	ID                string     `json:"id" gorm:"type:varchar(32);primaryKey"`
	TenantID          string     `json:"tenant_id" gorm:"type:varchar(36);primaryKey;index"`
	CustomerID        *string    `json:"customer_id" gorm:"type:varchar(32);index"`
	Email             string     `json:"email" gorm:"type:varchar(255)"`
	OrderNumber       int        `json:"order_number"`
	FinancialStatus   string     `json:"financial_status" gorm:"type:varchar(32)"`
	FulfillmentStatus string     `json:"fulfillment_status" gorm:"type:varchar(32)"`
	TotalPrice        float64    `json:"total_price" gorm:"default:0"`
	SubtotalPrice     *float64   `json:"subtotal_price"`
	TotalTax          *float64   `json:"total_tax"`
	TotalDiscounts    *float64   `json:"total_discounts"`
	Currency          string     `json:"currency" gorm:"type:varchar(8)"`
	LineItemsCount    int        `json:"line_items_count" gorm:"default:0"`
	TotalWeight       float64    `json:"total_weight" gorm:"default:0"`
	CancelledAt       *time.Time `json:"cancelled_at"`
	ClosedAt          *time.Time `json:"closed_at"`
	ProcessedAt       *time.Time `json:"processed_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
