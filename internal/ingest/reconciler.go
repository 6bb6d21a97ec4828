package ingest

import (
	"context"
	"strconv"

	"insights-service/internal/model"
	"insights-service/internal/shopify"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Reconciler writes one external record at a time into the tenant-scoped
// store as an idempotent upsert keyed by (external id, tenant id).
// Reconciling the identical record twice leaves the row unchanged. Records
// are independent — there is no transaction across a collection, so a crash
// mid-collection leaves already-processed rows committed.
type Reconciler struct {
	db *gorm.DB
}

// NewReconciler creates a Reconciler bound to the given database handle.
func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db}
}

// externalID coerces Shopify's numeric id to its canonical decimal string
// form so large ids never lose precision in storage.
func externalID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseAmount parses a string-encoded decimal, falling back to zero when
// the value is absent or malformed.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseNullableAmount parses a string-encoded decimal, mapping absence to
// nil rather than zero.
func parseNullableAmount(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// MapProduct maps a Shopify product payload to the internal schema. The
// first variant, when present, drives price and inventory; a product with
// no variants stores a nil price and zero inventory.
func MapProduct(tenantID string, p shopify.Product) model.Product {
	row := model.Product{
		ID:            externalID(p.ID),
		TenantID:      tenantID,
		Title:         p.Title,
		BodyHTML:      p.BodyHTML,
		Vendor:        p.Vendor,
		ProductType:   p.ProductType,
		Handle:        p.Handle,
		Status:        p.Status,
		PublishedAt:   p.PublishedAt,
		VariantsCount: len(p.Variants),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if len(p.Variants) > 0 {
		variant := p.Variants[0]
		row.Price = parseNullableAmount(variant.Price)
		if variant.CompareAtPrice != nil {
			row.CompareAtPrice = parseNullableAmount(*variant.CompareAtPrice)
		}
		row.InventoryQuantity = variant.InventoryQuantity
	}
	return row
}

// MapCustomer maps a Shopify customer payload to the internal schema.
// Names may arrive blank from the source; total_spent falls back to zero.
func MapCustomer(tenantID string, c shopify.Customer) model.Customer {
	return model.Customer{
		ID:            externalID(c.ID),
		TenantID:      tenantID,
		Email:         c.Email,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		OrdersCount:   c.OrdersCount,
		TotalSpent:    parseAmount(c.TotalSpent),
		Phone:         c.Phone,
		VerifiedEmail: c.VerifiedEmail,
		State:         c.State,
		Note:          c.Note,
		Currency:      c.Currency,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// MapOrder maps a Shopify order payload to the internal schema. An order
// without a nested customer stores a nil customer reference.
func MapOrder(tenantID string, o shopify.Order) model.Order {
	row := model.Order{
		ID:                externalID(o.ID),
		TenantID:          tenantID,
		Email:             o.Email,
		OrderNumber:       o.OrderNumber,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: o.FulfillmentStatus,
		TotalPrice:        parseAmount(o.TotalPrice),
		SubtotalPrice:     parseNullableAmount(o.SubtotalPrice),
		TotalTax:          parseNullableAmount(o.TotalTax),
		TotalDiscounts:    parseNullableAmount(o.TotalDiscounts),
		Currency:          o.Currency,
		LineItemsCount:    len(o.LineItems),
		TotalWeight:       o.TotalWeight,
		CancelledAt:       o.CancelledAt,
		ClosedAt:          o.ClosedAt,
		ProcessedAt:       o.ProcessedAt,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if o.Customer != nil {
		id := externalID(o.Customer.ID)
		row.CustomerID = &id
	}
	return row
}

// conflictTarget names the compound upsert key shared by all synced entities.
var conflictTarget = []clause.Column{{Name: "id"}, {Name: "tenant_id"}}

// UpsertProduct creates or updates exactly one product row.
func (r *Reconciler) UpsertProduct(ctx context.Context, tenantID string, p shopify.Product) error {
	row := MapProduct(tenantID, p)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: conflictTarget,
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "body_html", "vendor", "product_type", "handle", "status",
			"published_at", "price", "compare_at_price", "variants_count",
			"inventory_quantity", "updated_at",
		}),
	}).Create(&row).Error
}

// UpsertCustomer creates or updates exactly one customer row.
func (r *Reconciler) UpsertCustomer(ctx context.Context, tenantID string, c shopify.Customer) error {
	row := MapCustomer(tenantID, c)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: conflictTarget,
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "orders_count", "total_spent",
			"phone", "verified_email", "state", "note", "currency", "updated_at",
		}),
	}).Create(&row).Error
}

// UpsertOrder creates or updates exactly one order row.
func (r *Reconciler) UpsertOrder(ctx context.Context, tenantID string, o shopify.Order) error {
	row := MapOrder(tenantID, o)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: conflictTarget,
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_id", "email", "order_number", "financial_status",
			"fulfillment_status", "total_price", "subtotal_price", "total_tax",
			"total_discounts", "currency", "line_items_count", "total_weight",
			"cancelled_at", "closed_at", "processed_at", "updated_at",
		}),
	}).Create(&row).Error
}
