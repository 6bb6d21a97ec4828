package model

import (
	"time"
)

// Customer represents a synced Shopify customer. First/last name may arrive
// blank from the source. TotalSpent is denormalized from Shopify's own
// aggregate, not recomputed locally.
type Customer struct {
	ID            string    `json:"id" gorm:"type:varchar(32);primaryKey"`
	TenantID      string    `json:"tenant_id" gorm:"type:varchar(36);primaryKey;index"`
	Email         string    `json:"email" gorm:"type:varchar(255)"`
	FirstName     string    `json:"first_name" gorm:"type:varchar(255)"`
	LastName      string    `json:"last_name" gorm:"type:varchar(255)"`
	OrdersCount   int       `json:"orders_count" gorm:"default:0"`
	TotalSpent    float64   `json:"total_spent" gorm:"default:0"`
	Phone         string    `json:"phone" gorm:"type:varchar(64)"`
	VerifiedEmail bool      `json:"verified_email" gorm:"default:false"`
	State         string    `json:"state" gorm:"type:varchar(32)"`
	Note          string    `json:"note" gorm:"type:text"`
	Currency      string    `json:"currency" gorm:"type:varchar(8)"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
