package middleware

import (
	"net/http"
	"strings"

	"reservly/internal/shared/config"
	"reservly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUserRole  = "user_role"
)

// Role claim values accepted by the authorization middleware. They mirror the
// role column on the users table; middleware compares claims as plain strings
// so it stays free of domain imports.
const (
	RoleReceptionist = "RECEPTIONIST"
	RoleSuperAdmin   = "SUPER_ADMIN"
)

// JWTAuth creates a JWT authentication middleware
func JWTAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header is required", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Error(c, http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
				response.Error(c, http.StatusUnauthorized, "invalid token type", nil)
				c.Abort()
				return
			}
			c.Set(ContextUserID, claims["user_id"])
			c.Set(ContextUserEmail, claims["email"])
			c.Set(ContextUserRole, claims["role"])
		}

		c.Next()
	}
}

// RequireRole middleware checks if the authenticated user has one of the required roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRole)
		if !exists {
			response.Error(c, http.StatusUnauthorized, "user role not found in context", nil)
			c.Abort()
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "invalid role claim", nil)
			c.Abort()
			return
		}

		for _, role := range roles {
			if roleStr == role {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions", nil)
		c.Abort()
	}
}

// RequireStaff allows receptionists and super admins through.
func RequireStaff() gin.HandlerFunc {
	return RequireRole(RoleReceptionist, RoleSuperAdmin)
}

// RequireSuperAdmin allows only super admins through.
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(RoleSuperAdmin)
}
