package shopify

import (
	"time"
)

// Payload types for the Shopify Admin REST API collection responses.
// Field tags mirror the platform's snake_case shapes. Monetary amounts
// arrive as string-encoded decimals and are parsed by the ingest layer.

// Variant represents one product variant. InventoryQuantity may be absent.
type Variant struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	SKU               string  `json:"sku"`
	Price             string  `json:"price"`
	CompareAtPrice    *string `json:"compare_at_price"`
	InventoryQuantity int     `json:"inventory_quantity"`
}

// Product represents one product record. Variants may be empty; the first
// variant, when present, carries the representative price and inventory.
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	BodyHTML    string     `json:"body_html"`
	Vendor      string     `json:"vendor"`
	ProductType string     `json:"product_type"`
	Handle      string     `json:"handle"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
	Variants    []Variant  `json:"variants"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Customer represents one customer record. FirstName/LastName/Phone/Note
// may arrive blank or null.
type Customer struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	OrdersCount   int       `json:"orders_count"`
	TotalSpent    string    `json:"total_spent"`
	Phone         string    `json:"phone"`
	VerifiedEmail bool      `json:"verified_email"`
	State         string    `json:"state"`
	Note          string    `json:"note"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderCustomer is the nested customer reference on an order. The whole
// object is absent for orders placed without a customer.
type OrderCustomer struct {
	ID int64 `json:"id"`
}

// LineItem represents one order line item. Only the count is persisted.
type LineItem struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// Order represents one order record. Customer and the cancelled/closed/
// processed timestamps are each independently nullable.
type Order struct {
	ID                int64          `json:"id"`
	Customer          *OrderCustomer `json:"customer"`
	Email             string         `json:"email"`
	OrderNumber       int            `json:"order_number"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	TotalPrice        string         `json:"total_price"`
	SubtotalPrice     string         `json:"subtotal_price"`
	TotalTax          string         `json:"total_tax"`
	TotalDiscounts    string         `json:"total_discounts"`
	Currency          string         `json:"currency"`
	LineItems         []LineItem     `json:"line_items"`
	TotalWeight       float64        `json:"total_weight"`
	CancelledAt       *time.Time     `json:"cancelled_at"`
	ClosedAt          *time.Time     `json:"closed_at"`
	ProcessedAt       *time.Time     `json:"processed_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
