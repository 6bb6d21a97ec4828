package handler

import (
	"net/http"
	"strconv"
	"strings"

	"insights-service/internal/analytics"
	"insights-service/internal/middleware"
	"insights-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AnalyticsHandler serves the dashboard chart queries. The tenant comes
// from the JWT claims set by the auth middleware.
type AnalyticsHandler struct {
	svc *analytics.Service
}

// NewAnalyticsHandler creates an analytics handler.
func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) tenantID(c echo.Context) (string, error) {
	tenantID, ok := middleware.GetTenantIDFromContext(c)
	if !ok || tenantID == "" {
		return "", c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "missing tenant context",
		})
	}
	return tenantID, nil
}

// Overview returns customer/order counts and total revenue.
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	tenantID, err := h.tenantID(c)
	if tenantID == "" {
		return err
	}

	overview, err := h.svc.GetOverview(c.Request().Context(), tenantID)
	if err != nil {
		logger.FromContext(c).Error("Failed to compute overview", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute overview",
		})
	}
	return c.JSON(http.StatusOK, overview)
}

// OrdersByDate returns the order/revenue trend for a trailing range like
// "30d".
func (h *AnalyticsHandler) OrdersByDate(c echo.Context) error {
	tenantID, err := h.tenantID(c)
	if tenantID == "" {
		return err
	}

	days := 30
	if r := c.QueryParam("range"); r != "" {
		if parsed, err := strconv.Atoi(strings.TrimSuffix(r, "d")); err == nil && parsed > 0 {
			days = parsed
		}
	}

	points, err := h.svc.GetOrdersByDate(c.Request().Context(), tenantID, days)
	if err != nil {
		logger.FromContext(c).Error("Failed to compute orders by date", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute orders by date",
		})
	}
	return c.JSON(http.StatusOK, points)
}

// TopCustomers returns the tenant's biggest spenders.
func (h *AnalyticsHandler) TopCustomers(c echo.Context) error {
	tenantID, err := h.tenantID(c)
	if tenantID == "" {
		return err
	}

	limit := 5
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	customers, err := h.svc.GetTopCustomers(c.Request().Context(), tenantID, limit)
	if err != nil {
		logger.FromContext(c).Error("Failed to compute top customers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute top customers",
		})
	}
	return c.JSON(http.StatusOK, customers)
}

// ProductStats returns total and active product counts.
func (h *AnalyticsHandler) ProductStats(c echo.Context) error {
	tenantID, err := h.tenantID(c)
	if tenantID == "" {
		return err
	}

	stats, err := h.svc.GetProductStats(c.Request().Context(), tenantID)
	if err != nil {
		logger.FromContext(c).Error("Failed to compute product stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute product stats",
		})
	}
	return c.JSON(http.StatusOK, stats)
}

// TopProducts returns the fastest-moving products.
func (h *AnalyticsHandler) TopProducts(c echo.Context) error {
	tenantID, err := h.tenantID(c)
	if tenantID == "" {
		return err
	}

	limit := 5
	if l := c.QueryParam("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	products, err := h.svc.GetTopPerformingProducts(c.Request().Context(), tenantID, limit)
	if err != nil {
		logger.FromContext(c).Error("Failed to compute top products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute top products",
		})
	}
	return c.JSON(http.StatusOK, products)
}

// InventoryAlerts returns products below or above the stock thresholds.
func (h *AnalyticsHandler) InventoryAlerts(c echo.Context) error {
	tenantID, err := h.tenantID(c)
	if tenantID == "" {
		return err
	}

	alerts, err := h.svc.GetInventoryAlerts(c.Request().Context(), tenantID)
	if err != nil {
		logger.FromContext(c).Error("Failed to compute inventory alerts", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute inventory alerts",
		})
	}
	return c.JSON(http.StatusOK, alerts)
}

// ProductBreakdown returns inventory slices for the pie chart.
func (h *AnalyticsHandler) ProductBreakdown(c echo.Context) error {
	tenantID, err := h.tenantID(c)
	if tenantID == "" {
		return err
	}

	breakdown, err := h.svc.GetProductBreakdown(c.Request().Context(), tenantID)
	if err != nil {
		logger.FromContext(c).Error("Failed to compute product breakdown", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute product breakdown",
		})
	}
	return c.JSON(http.StatusOK, breakdown)
}
