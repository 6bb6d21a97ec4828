package handler

import (
	"errors"
	"net/http"

	"insights-service/internal/model"
	"insights-service/pkg/database"
	"insights-service/pkg/jwtutil"
	"insights-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TenantRequest defines the structure for tenant creation/update requests
type TenantRequest struct {
	ShopURL     string `json:"shop_url"`
	AccessToken string `json:"access_token"`
	Email       string `json:"email"`
	IsActive    *bool  `json:"is_active"`
}

// ListTenants handles retrieving all tenants
func ListTenants(c echo.Context) error {
	log := logger.FromContext(c)

	var tenants []model.Tenant
	if err := database.GetDB().Find(&tenants).Error; err != nil {
		log.Error("Failed to list tenants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to retrieve tenants",
		})
	}

	log.Info("Tenants retrieved successfully", zap.Int("count", len(tenants)))
	return c.JSON(http.StatusOK, echo.Map{"tenants": tenants})
}

// GetTenant handles retrieving a single tenant by ID
func GetTenant(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var tenant model.Tenant
	if err := database.GetDB().First(&tenant, "id = ?", id).Error; err != nil {
		log.Warn("Tenant not found", zap.String("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Tenant not found",
		})
	}

	return c.JSON(http.StatusOK, tenant)
}

// CreateTenant handles onboarding a new store
func CreateTenant(c echo.Context) error {
	log := logger.FromContext(c)

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.ShopURL == "" || req.AccessToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "shop_url and access_token are required",
		})
	}

	tenant := model.Tenant{
		ID:          uuid.New().String(),
		ShopURL:     req.ShopURL,
		AccessToken: req.AccessToken,
		Email:       req.Email,
		IsActive:    true,
	}

	if err := database.GetDB().Create(&tenant).Error; err != nil {
		log.Error("Failed to create tenant",
			zap.String("shop_url", req.ShopURL),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to create tenant",
		})
	}

	log.Info("Tenant created successfully",
		zap.String("tenant_id", tenant.ID),
		zap.String("shop_url", tenant.ShopURL))
	return c.JSON(http.StatusCreated, tenant)
}

// UpdateTenant handles rotating credentials or toggling the active flag.
// Deactivating a tenant stops scheduled syncs but keeps its data.
func UpdateTenant(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.String("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	var tenant model.Tenant
	if err := database.GetDB().First(&tenant, "id = ?", id).Error; err != nil {
		log.Warn("Tenant not found for update", zap.String("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "Tenant not found",
		})
	}

	if req.ShopURL != "" {
		tenant.ShopURL = req.ShopURL
	}
	if req.AccessToken != "" {
		tenant.AccessToken = req.AccessToken
	}
	if req.Email != "" {
		tenant.Email = req.Email
	}
	if req.IsActive != nil {
		tenant.IsActive = *req.IsActive
	}

	if err := database.GetDB().Save(&tenant).Error; err != nil {
		log.Error("Failed to update tenant", zap.String("tenant_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update tenant",
		})
	}

	log.Info("Tenant updated successfully",
		zap.String("tenant_id", tenant.ID),
		zap.Bool("is_active", tenant.IsActive))
	return c.JSON(http.StatusOK, tenant)
}

// LoginRequest defines the structure for dashboard login requests
type LoginRequest struct {
	Email string `json:"email"`
}

// Login authenticates a tenant by email and issues a JWT carrying the
// tenant context, used by the dashboard for the analytics routes.
func Login(c echo.Context) error {
	log := logger.FromContext(c)

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Email is required",
		})
	}

	var tenant model.Tenant
	err := database.GetDB().
		Where("email = ? AND is_active = ?", req.Email, true).
		First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("Login failed, tenant not found or inactive", zap.String("email", req.Email))
			return c.JSON(http.StatusNotFound, echo.Map{
				"error": "Tenant not found or inactive",
			})
		}
		log.Error("Login query failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Login failed",
		})
	}

	token, err := jwtutil.GenerateToken(tenant.ID, tenant.ShopURL, tenant.Email)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Login failed",
		})
	}

	log.Info("Tenant logged in",
		zap.String("tenant_id", tenant.ID),
		zap.String("shop_url", tenant.ShopURL))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   token,
		"tenant": echo.Map{
			"id":       tenant.ID,
			"shop_url": tenant.ShopURL,
			"email":    tenant.Email,
		},
	})
}
