package model

import (
	"time"
)

// Product represents a synced Shopify product. The ID is Shopify's numeric
// product id stored as a string to avoid precision loss; the primary key is
// compound (id, tenant_id) so the same external id under two tenants never
// collides. Price fields come from the first variant and are nil when the
// product has no variants.
type Product struct {
	ID                string     `json:"id" gorm:"type:varchar(32);primaryKey"`
	TenantID          string     `json:"tenant_id" gorm:"type:varchar(36);primaryKey;index"`
	Title             string     `json:"title" gorm:"type:varchar(255)"`
	BodyHTML          string     `json:"body_html" gorm:"type:text"`
	Vendor            string     `json:"vendor" gorm:"type:varchar(255)"`
	ProductType       string     `json:"product_type" gorm:"type:varchar(255)"`
	Handle            string     `json:"handle" gorm:"type:varchar(255)"`
	Status            string     `json:"status" gorm:"type:varchar(32)"`
	PublishedAt       *time.Time `json:"published_at"`
	Price             *float64   `json:"price"`
	CompareAtPrice    *float64   `json:"compare_at_price"`
	VariantsCount     int        `json:"variants_count" gorm:"default:0"`
	InventoryQuantity int        `json:"inventory_quantity" gorm:"default:0"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
