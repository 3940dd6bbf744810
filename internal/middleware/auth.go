package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/slotbook/booking-saas/internal/config"
	"github.com/slotbook/booking-saas/internal/httperr"
)

const (
	ContextUserID     = "userID"
	ContextProviderID = "providerID"
	ContextUserRole   = "userRole"
)

// AuthMiddleware accepts an HS256 bearer token whose claims carry "sub"
// (user id) and "provider_id". Tokens are issued by the accounts service.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid_token_claims")
			return
		}

		userID, ok1 := claims["sub"].(float64)
		providerID, ok2 := claims["provider_id"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 || providerID <= 0 {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextProviderID, uint(providerID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code string) {
	httperr.Unauthorized(c, code, "authentication required")
	c.Abort()
}

// ProviderID returns the tenant set by AuthMiddleware.
func ProviderID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextProviderID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id > 0
}

func UserID(c *gin.Context) *uint {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
