package middleware

import (
	"net/http"
	"strings"

	"insights-service/pkg/jwtutil"
	"insights-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and extracts the tenant context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Extract the token
		tokenString := parts[1]

		// Validate the token
		claims, err := jwtutil.ValidateToken(tokenString)
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Every token must carry the tenant it is scoped to
		if claims.TenantID == "" {
			log.Warn("JWT token does not contain tenant_id")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_id is required in the token"})
		}

		// Store tenant info in context for later use
		c.Set("tenant_id", claims.TenantID)
		c.Set("shop_url", claims.ShopURL)
		c.Set("email", claims.Email)

		log.Info("Request authenticated with tenant context",
			zap.String("tenant_id", claims.TenantID),
			zap.String("shop_url", claims.ShopURL))

		// Token is valid, proceed with the request
		return next(c)
	}
}

// GetTenantIDFromContext retrieves the tenant ID from the context.
// Returns "", false if tenant ID is not found
func GetTenantIDFromContext(c echo.Context) (string, bool) {
	tenantID, ok := c.Get("tenant_id").(string)
	return tenantID, ok
}
