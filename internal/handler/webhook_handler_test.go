package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"insights-service/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookRequest(target, shopDomain, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if shopDomain != "" {
		req.Header.Set("X-Shopify-Shop-Domain", shopDomain)
	}
	return req, httptest.NewRecorder()
}

func TestWebhookHandler_OrderCreated(t *testing.T) {
	db := setupHandlerTestDB(t)
	require.NoError(t, db.Create(&model.Tenant{
		ID: "tenant-1", ShopURL: "demo.myshopify.com", AccessToken: "t", IsActive: true,
	}).Error)
	h := NewWebhookHandler(db)
	e := echo.New()

	orderPayload := `{
		"id": 5001,
		"email": "bob@mail.example.com",
		"order_number": 1001,
		"financial_status": "paid",
		"total_price": "100.00",
		"subtotal_price": "90.00",
		"currency": "USD",
		"line_items": [{"id": 1, "quantity": 2}],
		"created_at": "2024-05-01T14:00:00Z",
		"updated_at": "2024-05-01T15:00:00Z"
	}`

	t.Run("missing shop domain header is a bad request", func(t *testing.T) {
		req, rec := webhookRequest("/api/webhooks/shopify/orders/create", "", orderPayload)
		require.NoError(t, h.OrderCreated(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown shop domain is not found", func(t *testing.T) {
		req, rec := webhookRequest("/api/webhooks/shopify/orders/create", "stranger.myshopify.com", orderPayload)
		require.NoError(t, h.OrderCreated(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("order without a customer reconciles with a nil reference", func(t *testing.T) {
		req, rec := webhookRequest("/api/webhooks/shopify/orders/create", "demo.myshopify.com", orderPayload)
		require.NoError(t, h.OrderCreated(e.NewContext(req, rec)))
		require.Equal(t, http.StatusOK, rec.Code)

		var stored model.Order
		require.NoError(t, db.First(&stored, "id = ? AND tenant_id = ?", "5001", "tenant-1").Error)
		assert.Nil(t, stored.CustomerID)
		assert.Equal(t, 100.00, stored.TotalPrice)
		assert.Equal(t, 1, stored.LineItemsCount)
	})

	t.Run("redelivery updates the same row", func(t *testing.T) {
		redelivery := strings.Replace(orderPayload, `"total_price": "100.00"`, `"total_price": "150.00"`, 1)
		req, rec := webhookRequest("/api/webhooks/shopify/orders/create", "demo.myshopify.com", redelivery)
		require.NoError(t, h.OrderCreated(e.NewContext(req, rec)))
		require.Equal(t, http.StatusOK, rec.Code)

		var count int64
		db.Model(&model.Order{}).Where("id = ?", "5001").Count(&count)
		assert.Equal(t, int64(1), count)

		var stored model.Order
		require.NoError(t, db.First(&stored, "id = ? AND tenant_id = ?", "5001", "tenant-1").Error)
		assert.Equal(t, 150.00, stored.TotalPrice)
	})
}

func TestWebhookHandler_ProductUpdated(t *testing.T) {
	db := setupHandlerTestDB(t)
	require.NoError(t, db.Create(&model.Tenant{
		ID: "tenant-1", ShopURL: "demo.myshopify.com", AccessToken: "t", IsActive: true,
	}).Error)
	h := NewWebhookHandler(db)
	e := echo.New()

	productPayload := `{
		"id": 632910392,
		"title": "IPod Nano - 8GB",
		"vendor": "Apple",
		"status": "active",
		"variants": [],
		"created_at": "2024-02-01T08:00:00Z",
		"updated_at": "2024-03-02T09:00:00Z"
	}`

	req, rec := webhookRequest("/api/webhooks/shopify/products/update", "demo.myshopify.com", productPayload)
	require.NoError(t, h.ProductUpdated(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored model.Product
	require.NoError(t, db.First(&stored, "id = ? AND tenant_id = ?", "632910392", "tenant-1").Error)
	assert.Equal(t, "IPod Nano - 8GB", stored.Title)
	// Webhook payloads flow through the same mapping as bulk sync
	assert.Nil(t, stored.Price)
	assert.Equal(t, 0, stored.VariantsCount)
}
