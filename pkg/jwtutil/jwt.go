package jwtutil

import (
	"errors"
	"fmt"
	"insights-service/pkg/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.JWTConfig

// TenantClaims represents the JWT claims for an authenticated tenant
type TenantClaims struct {
	TenantID string `json:"tenant_id"`
	ShopURL  string `json:"shop_url,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Initialize sets the JWT configuration for the package
func Initialize(jwtConfig *config.JWTConfig) {
	cfg = jwtConfig
}

// GenerateToken creates a JWT token scoped to a tenant
func GenerateToken(tenantID, shopURL, email string) (string, error) {
	if cfg == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := TenantClaims{
		TenantID: tenantID,
		ShopURL:  shopURL,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.ExpirationTime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SigningKey))
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*TenantClaims, error) {
	if cfg == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&TenantClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Validate the signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.SigningKey), nil
		},
	)

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TenantClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
