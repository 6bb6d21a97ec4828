package analytics

import (
	"context"
	"strings"
	"time"

	"insights-service/internal/model"

	"gorm.io/gorm"
)

// Service answers read-only dashboard queries over the synced data for one
// tenant.
type Service struct {
	db *gorm.DB
}

// NewService creates an analytics service bound to the given database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Overview summarizes a tenant's store at a glance.
type Overview struct {
	TotalCustomers int64   `json:"total_customers"`
	TotalOrders    int64   `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
}

// GetOverview returns customer/order counts and the revenue sum.
func (s *Service) GetOverview(ctx context.Context, tenantID string) (*Overview, error) {
	overview := &Overview{}

	if err := s.db.WithContext(ctx).Model(&model.Customer{}).
		Where("tenant_id = ?", tenantID).
		Count(&overview.TotalCustomers).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("tenant_id = ?", tenantID).
		Count(&overview.TotalOrders).Error; err != nil {
		return nil, err
	}

	var revenue *float64
	if err := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("tenant_id = ?", tenantID).
		Select("SUM(total_price)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		overview.TotalRevenue = *revenue
	}

	return overview, nil
}

// DatePoint is one day's order count and revenue for the trend chart.
type DatePoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// GetOrdersByDate groups orders created in the trailing range (e.g. "30d")
// by calendar day.
func (s *Service) GetOrdersByDate(ctx context.Context, tenantID string, days int) ([]DatePoint, error) {
	startDate := time.Now().AddDate(0, 0, -days)

	var orders []model.Order
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND created_at >= ?", tenantID, startDate).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	points := []DatePoint{}
	index := map[string]int{}
	for _, order := range orders {
		date := order.CreatedAt.Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			points = append(points, DatePoint{Date: date})
			i = len(points) - 1
			index[date] = i
		}
		points[i].Orders++
		points[i].Revenue += order.TotalPrice
	}

	return points, nil
}

// TopCustomer is one row of the top-customers table.
type TopCustomer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	TotalSpent  float64 `json:"total_spent"`
	OrdersCount int     `json:"orders_count"`
}

// GetTopCustomers returns the tenant's biggest spenders. Customers with
// blank names fall back to their email, then to "Unknown".
func (s *Service) GetTopCustomers(ctx context.Context, tenantID string, limit int) ([]TopCustomer, error) {
	var customers []model.Customer
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("total_spent desc").
		Limit(limit).
		Find(&customers).Error; err != nil {
		return nil, err
	}

	top := []TopCustomer{}
	for _, c := range customers {
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		if name == "" {
			name = c.Email
		}
		if name == "" {
			name = "Unknown"
		}
		top = append(top, TopCustomer{
			ID:          c.ID,
			Name:        name,
			Email:       c.Email,
			TotalSpent:  c.TotalSpent,
			OrdersCount: c.OrdersCount,
		})
	}

	return top, nil
}

// ProductStats summarizes the product catalog.
type ProductStats struct {
	TotalProducts  int64 `json:"total_products"`
	ActiveProducts int64 `json:"active_products"`
}

// GetProductStats returns total and active product counts.
func (s *Service) GetProductStats(ctx context.Context, tenantID string) (*ProductStats, error) {
	stats := &ProductStats{}

	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ?", tenantID).
		Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("tenant_id = ? AND status = ?", tenantID, "active").
		Count(&stats.ActiveProducts).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// TopProduct is one row of the top-performing-products table.
type TopProduct struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Price             *float64 `json:"price"`
	InventoryQuantity int      `json:"inventory_quantity"`
}

// GetTopPerformingProducts returns the products moving fastest, approximated
// by lowest remaining inventory.
func (s *Service) GetTopPerformingProducts(ctx context.Context, tenantID string, limit int) ([]TopProduct, error) {
	var products []model.Product
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("inventory_quantity asc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}

	top := []TopProduct{}
	for _, p := range products {
		top = append(top, TopProduct{
			ID:                p.ID,
			Title:             p.Title,
			Price:             p.Price,
			InventoryQuantity: p.InventoryQuantity,
		})
	}

	return top, nil
}

// Stock level thresholds for inventory alerts.
const (
	lowStockThreshold  = 10
	highStockThreshold = 100
)

// InventoryAlert is one product flagged by a stock threshold.
type InventoryAlert struct {
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	Category string `json:"category"`
}

// InventoryAlerts groups products below and above the stock thresholds.
type InventoryAlerts struct {
	LowStock  []InventoryAlert `json:"low_stock"`
	HighStock []InventoryAlert `json:"high_stock"`
}

// GetInventoryAlerts flags products running out (at most 10 units left, but
// not already at zero) and products piling up (100 units or more).
func (s *Service) GetInventoryAlerts(ctx context.Context, tenantID string) (*InventoryAlerts, error) {
	var low []model.Product
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND inventory_quantity > 0 AND inventory_quantity <= ?", tenantID, lowStockThreshold).
		Order("inventory_quantity asc").
		Find(&low).Error; err != nil {
		return nil, err
	}

	var high []model.Product
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND inventory_quantity >= ?", tenantID, highStockThreshold).
		Order("inventory_quantity desc").
		Find(&high).Error; err != nil {
		return nil, err
	}

	alerts := &InventoryAlerts{LowStock: []InventoryAlert{}, HighStock: []InventoryAlert{}}
	for _, p := range low {
		alerts.LowStock = append(alerts.LowStock, InventoryAlert{
			Name:     p.Title,
			Stock:    p.InventoryQuantity,
			Category: "Low Stock",
		})
	}
	for _, p := range high {
		alerts.HighStock = append(alerts.HighStock, InventoryAlert{
			Name:     p.Title,
			Stock:    p.InventoryQuantity,
			Category: "Excess Stock",
		})
	}

	return alerts, nil
}

// BreakdownSlice is one slice of the inventory pie chart.
type BreakdownSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// GetProductBreakdown returns active products with their inventory levels.
func (s *Service) GetProductBreakdown(ctx context.Context, tenantID string) ([]BreakdownSlice, error) {
	var products []model.Product
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ?", tenantID, "active").
		Find(&products).Error; err != nil {
		return nil, err
	}

	breakdown := []BreakdownSlice{}
	for _, p := range products {
		breakdown = append(breakdown, BreakdownSlice{
			Name:  p.Title,
			Value: p.InventoryQuantity,
		})
	}

	return breakdown, nil
}
