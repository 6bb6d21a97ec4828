package handler

import (
	"errors"
	"fmt"
	"net/http"

	"insights-service/internal/ingest"
	"insights-service/internal/model"
	"insights-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncHandler exposes the on-demand sync trigger and the raw data listings
// used by the dashboard tables.
type SyncHandler struct {
	db     *gorm.DB
	syncer *ingest.Service
}

// NewSyncHandler creates a sync handler with explicit dependencies.
func NewSyncHandler(db *gorm.DB, syncer *ingest.Service) *SyncHandler {
	return &SyncHandler{db: db, syncer: syncer}
}

// SyncRequest defines the structure of a manual sync trigger
type SyncRequest struct {
	TenantID string `json:"tenant_id"`
	Entity   string `json:"entity"`
}

// TriggerSync runs a sync for one tenant and an entity selector
// (products | customers | orders | all). Partial failures still return
// HTTP 200; the caller inspects success and errors in the body.
func (h *SyncHandler) TriggerSync(c echo.Context) error {
	log := logger.FromContext(c)

	var req SyncRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.TenantID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "tenant_id is required",
		})
	}

	// Tenant lookup failure is the one fatal condition before any sync
	var tenant model.Tenant
	if err := h.db.WithContext(c.Request().Context()).First(&tenant, "id = ?", req.TenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Sync requested for unknown tenant", zap.String("tenant_id", req.TenantID))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Tenant not found",
			})
		}
		log.Error("Tenant lookup failed", zap.String("tenant_id", req.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to look up tenant",
		})
	}

	log.Info("Manual sync triggered",
		zap.String("tenant_id", tenant.ID),
		zap.String("shop_url", tenant.ShopURL),
		zap.String("entity", req.Entity))

	result, err := h.syncer.Sync(c.Request().Context(), &tenant, req.Entity)
	if err != nil {
		if errors.Is(err, ingest.ErrUnknownEntity) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "entity must be one of products, customers, orders, all",
			})
		}
		log.Error("Sync failed", zap.String("tenant_id", tenant.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Sync failed",
		})
	}

	message := fmt.Sprintf("Synced %d records", result.Total())
	if result.HasErrors() {
		message = fmt.Sprintf("Partial sync completed: %d records synced with %d errors",
			result.Total(), len(result.Errors))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": !result.HasErrors(),
		"message": message,
		"counts": echo.Map{
			"products":  result.Products,
			"customers": result.Customers,
			"orders":    result.Orders,
		},
		"errors": result.Errors,
	})
}

// tenantIDParam reads the mandatory tenant_id query parameter.
func tenantIDParam(c echo.Context) (string, error) {
	tenantID := c.QueryParam("tenant_id")
	if tenantID == "" {
		return "", c.JSON(http.StatusBadRequest, echo.Map{
			"error": "tenant_id is required",
		})
	}
	return tenantID, nil
}

// ListProducts returns the tenant's most recently updated products.
func (h *SyncHandler) ListProducts(c echo.Context) error {
	tenantID, err := tenantIDParam(c)
	if err != nil || tenantID == "" {
		return err
	}

	var products []model.Product
	if err := h.db.WithContext(c.Request().Context()).Where("tenant_id = ?", tenantID).
		Order("updated_at desc").Limit(100).
		Find(&products).Error; err != nil {
		logger.FromContext(c).Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve products",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// ListCustomers returns the tenant's most recently updated customers.
func (h *SyncHandler) ListCustomers(c echo.Context) error {
	tenantID, err := tenantIDParam(c)
	if err != nil || tenantID == "" {
		return err
	}

	var customers []model.Customer
	if err := h.db.WithContext(c.Request().Context()).Where("tenant_id = ?", tenantID).
		Order("updated_at desc").Limit(100).
		Find(&customers).Error; err != nil {
		logger.FromContext(c).Error("Failed to list customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve customers",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// ListOrders returns the tenant's most recent orders.
func (h *SyncHandler) ListOrders(c echo.Context) error {
	tenantID, err := tenantIDParam(c)
	if err != nil || tenantID == "" {
		return err
	}

	var orders []model.Order
	if err := h.db.WithContext(c.Request().Context()).Where("tenant_id = ?", tenantID).
		Order("created_at desc").Limit(100).
		Find(&orders).Error; err != nil {
		logger.FromContext(c).Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve orders",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}
