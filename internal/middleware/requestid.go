package middleware

import (
	"insights-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags each request with an id and seeds a contextual
// logger. Webhook deliveries reuse the id Shopify assigned to the delivery
// so retries of the same delivery correlate in the logs.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Shopify-Webhook-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Request().Header.Set("X-Request-ID", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)
		c.Set("request_id", requestID)

		log := logger.GetLogger().With(zap.String("request_id", requestID))
		if shop := c.Request().Header.Get("X-Shopify-Shop-Domain"); shop != "" {
			log = log.With(zap.String("shop_domain", shop))
		}
		c.Set("logger", log)

		return next(c)
	}
}
