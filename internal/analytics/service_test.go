package analytics

import (
	"context"
	"testing"
	"time"

	"insights-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAnalyticsTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&model.Tenant{}, &model.Product{}, &model.Customer{}, &model.Order{})
	require.NoError(t, err)

	return db
}

func floatPtr(v float64) *float64 { return &v }

func seedAnalyticsData(t *testing.T, db *gorm.DB) {
	now := time.Now()

	customers := []model.Customer{
		{ID: "1", TenantID: "tenant-a", Email: "alice@example.com", FirstName: "Alice", LastName: "Smith", TotalSpent: 500, OrdersCount: 5},
		{ID: "2", TenantID: "tenant-a", Email: "bob@example.com", FirstName: "Bob", TotalSpent: 300, OrdersCount: 3},
		{ID: "3", TenantID: "tenant-a", Email: "noname@example.com", TotalSpent: 100, OrdersCount: 1},
		{ID: "4", TenantID: "tenant-b", Email: "other@example.com", TotalSpent: 900, OrdersCount: 9},
	}
	for _, c := range customers {
		require.NoError(t, db.Create(&c).Error)
	}

	orders := []model.Order{
		{ID: "10", TenantID: "tenant-a", TotalPrice: 100, CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "11", TenantID: "tenant-a", TotalPrice: 150, CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "12", TenantID: "tenant-a", TotalPrice: 200, CreatedAt: now.AddDate(0, 0, -40)},
		{ID: "13", TenantID: "tenant-b", TotalPrice: 999, CreatedAt: now},
	}
	for _, o := range orders {
		require.NoError(t, db.Create(&o).Error)
	}

	products := []model.Product{
		{ID: "20", TenantID: "tenant-a", Title: "Widget", Status: "active", InventoryQuantity: 12, Price: floatPtr(9.99)},
		{ID: "21", TenantID: "tenant-a", Title: "Gadget", Status: "draft", InventoryQuantity: 0},
		{ID: "22", TenantID: "tenant-b", Title: "Gizmo", Status: "active", InventoryQuantity: 5},
	}
	for _, p := range products {
		require.NoError(t, db.Create(&p).Error)
	}
}

func TestService_GetOverview(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	seedAnalyticsData(t, db)
	svc := NewService(db)

	overview, err := svc.GetOverview(context.Background(), "tenant-a")
	require.NoError(t, err)

	assert.Equal(t, int64(3), overview.TotalCustomers)
	assert.Equal(t, int64(3), overview.TotalOrders)
	assert.Equal(t, 450.0, overview.TotalRevenue)
}

func TestService_GetOverview_EmptyTenant(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	svc := NewService(db)

	overview, err := svc.GetOverview(context.Background(), "tenant-empty")
	require.NoError(t, err)

	assert.Equal(t, int64(0), overview.TotalCustomers)
	assert.Equal(t, int64(0), overview.TotalOrders)
	assert.Equal(t, 0.0, overview.TotalRevenue)
}

func TestService_GetOrdersByDate(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	seedAnalyticsData(t, db)
	svc := NewService(db)

	points, err := svc.GetOrdersByDate(context.Background(), "tenant-a", 30)
	require.NoError(t, err)

	// The 40-day-old order falls outside the range; the two recent orders
	// share a day and collapse into one point
	require.Len(t, points, 1)
	assert.Equal(t, 2, points[0].Orders)
	assert.Equal(t, 250.0, points[0].Revenue)
}

func TestService_GetTopCustomers(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	seedAnalyticsData(t, db)
	svc := NewService(db)

	top, err := svc.GetTopCustomers(context.Background(), "tenant-a", 5)
	require.NoError(t, err)

	require.Len(t, top, 3)
	assert.Equal(t, "Alice Smith", top[0].Name)
	assert.Equal(t, 500.0, top[0].TotalSpent)
	// Single name trims cleanly
	assert.Equal(t, "Bob", top[1].Name)
	// Blank names fall back to the email
	assert.Equal(t, "noname@example.com", top[2].Name)
}

func TestService_GetProductStats(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	seedAnalyticsData(t, db)
	svc := NewService(db)

	stats, err := svc.GetProductStats(context.Background(), "tenant-a")
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveProducts)
}

func TestService_GetTopPerformingProducts(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	seedAnalyticsData(t, db)
	svc := NewService(db)

	top, err := svc.GetTopPerformingProducts(context.Background(), "tenant-a", 5)
	require.NoError(t, err)

	// Lowest remaining inventory first; the other tenant's products stay out
	require.Len(t, top, 2)
	assert.Equal(t, "Gadget", top[0].Title)
	assert.Equal(t, 0, top[0].InventoryQuantity)
	assert.Equal(t, "Widget", top[1].Title)
	require.NotNil(t, top[1].Price)
	assert.Equal(t, 9.99, *top[1].Price)
}

func TestService_GetTopPerformingProducts_Limit(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	seedAnalyticsData(t, db)
	svc := NewService(db)

	top, err := svc.GetTopPerformingProducts(context.Background(), "tenant-a", 1)
	require.NoError(t, err)

	require.Len(t, top, 1)
	assert.Equal(t, "Gadget", top[0].Title)
}

func TestService_GetInventoryAlerts(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	svc := NewService(db)

	products := []model.Product{
		{ID: "30", TenantID: "tenant-a", Title: "Nearly Gone", InventoryQuantity: 2},
		{ID: "31", TenantID: "tenant-a", Title: "Running Low", InventoryQuantity: 10},
		{ID: "32", TenantID: "tenant-a", Title: "Sold Out", InventoryQuantity: 0},
		{ID: "33", TenantID: "tenant-a", Title: "Healthy", InventoryQuantity: 50},
		{ID: "34", TenantID: "tenant-a", Title: "Overstocked", InventoryQuantity: 250},
		{ID: "35", TenantID: "tenant-a", Title: "Full Shelf", InventoryQuantity: 100},
		{ID: "36", TenantID: "tenant-b", Title: "Elsewhere", InventoryQuantity: 1},
	}
	for _, p := range products {
		require.NoError(t, db.Create(&p).Error)
	}

	alerts, err := svc.GetInventoryAlerts(context.Background(), "tenant-a")
	require.NoError(t, err)

	// Zero stock is out of scope for low-stock alerts; exactly the 100
	// boundary counts as excess
	require.Len(t, alerts.LowStock, 2)
	assert.Equal(t, "Nearly Gone", alerts.LowStock[0].Name)
	assert.Equal(t, 2, alerts.LowStock[0].Stock)
	assert.Equal(t, "Low Stock", alerts.LowStock[0].Category)
	assert.Equal(t, "Running Low", alerts.LowStock[1].Name)

	require.Len(t, alerts.HighStock, 2)
	assert.Equal(t, "Overstocked", alerts.HighStock[0].Name)
	assert.Equal(t, 250, alerts.HighStock[0].Stock)
	assert.Equal(t, "Excess Stock", alerts.HighStock[0].Category)
	assert.Equal(t, "Full Shelf", alerts.HighStock[1].Name)
}

func TestService_GetInventoryAlerts_EmptyTenant(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	svc := NewService(db)

	alerts, err := svc.GetInventoryAlerts(context.Background(), "tenant-empty")
	require.NoError(t, err)

	assert.Empty(t, alerts.LowStock)
	assert.Empty(t, alerts.HighStock)
}

func TestService_GetProductBreakdown(t *testing.T) {
	db := setupAnalyticsTestDB(t)
	seedAnalyticsData(t, db)
	svc := NewService(db)

	breakdown, err := svc.GetProductBreakdown(context.Background(), "tenant-a")
	require.NoError(t, err)

	require.Len(t, breakdown, 1)
	assert.Equal(t, "Widget", breakdown[0].Name)
	assert.Equal(t, 12, breakdown[0].Value)
}
