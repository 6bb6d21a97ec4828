package handler

import (
	"errors"
	"net/http"

	"insights-service/internal/ingest"
	"insights-service/internal/model"
	"insights-service/internal/shopify"
	"insights-service/pkg/logger"
	"insights-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebhookHandler processes Shopify webhook deliveries. Events carry the
// same field shapes as the REST collection responses and go through the
// identical reconciler mapping as bulk sync. Signature verification is a
// known gap.
type WebhookHandler struct {
	db         *gorm.DB
	reconciler *ingest.Reconciler
}

// NewWebhookHandler creates a webhook handler with explicit dependencies.
func NewWebhookHandler(db *gorm.DB) *WebhookHandler {
	return &WebhookHandler{db: db, reconciler: ingest.NewReconciler(db)}
}

// resolveTenant maps the X-Shopify-Shop-Domain header to a tenant.
func (h *WebhookHandler) resolveTenant(c echo.Context) (*model.Tenant, error) {
	shopDomain := c.Request().Header.Get("X-Shopify-Shop-Domain")
	if shopDomain == "" {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Missing shop domain",
		})
	}

	var tenant model.Tenant
	if err := h.db.WithContext(c.Request().Context()).Where("shop_url = ?", shopDomain).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.FromContext(c).Warn("Webhook for unknown shop",
				zap.String("shop_domain", shopDomain))
			return nil, c.JSON(http.StatusNotFound, echo.Map{
				"error": "Tenant not found",
			})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to look up tenant",
		})
	}
	return &tenant, nil
}

// OrderCreated handles the orders/create webhook topic.
func (h *WebhookHandler) OrderCreated(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Received order created webhook")

	tenant, err := h.resolveTenant(c)
	if tenant == nil {
		return err
	}

	var order shopify.Order
	if err := c.Bind(&order); err != nil {
		log.Error("Invalid order payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid order payload",
		})
	}

	if err := h.reconciler.UpsertOrder(c.Request().Context(), tenant.ID, order); err != nil {
		log.Error("Failed to reconcile order from webhook",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to process order",
		})
	}

	prometheus.RecordWebhookEvent("orders/create")
	log.Info("Order webhook processed",
		zap.Int64("order_id", order.ID),
		zap.String("tenant_id", tenant.ID))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ProductUpdated handles the products/update webhook topic.
func (h *WebhookHandler) ProductUpdated(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Received product update webhook")

	tenant, err := h.resolveTenant(c)
	if tenant == nil {
		return err
	}

	var product shopify.Product
	if err := c.Bind(&product); err != nil {
		log.Error("Invalid product payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product payload",
		})
	}

	if err := h.reconciler.UpsertProduct(c.Request().Context(), tenant.ID, product); err != nil {
		log.Error("Failed to reconcile product from webhook",
			zap.Int64("product_id", product.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to process product",
		})
	}

	prometheus.RecordWebhookEvent("products/update")
	log.Info("Product webhook processed",
		zap.Int64("product_id", product.ID),
		zap.String("tenant_id", tenant.ID))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
