package model

import (
	"time"
)

// Tenant represents one onboarded Shopify store. All synced data is scoped
// to a tenant; deactivating a tenant stops scheduled syncs but keeps its data.
type Tenant struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	ShopURL     string    `json:"shop_url" gorm:"type:varchar(255);uniqueIndex;not null"`
	AccessToken string    `json:"-" gorm:"type:varchar(255);not null"`
	Email       string    `json:"email" gorm:"type:varchar(255)"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
