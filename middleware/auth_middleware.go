package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fieldtrack/database"
	"fieldtrack/utils"
)

// Context keys set by the auth middleware
const (
	ContextAdmin      = "admin"
	ContextSuperAdmin = "superAdmin"
)

func abortUnauthorized(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
	c.Abort()
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AdminAuth validates admin-typed tokens and loads the active admin account
// into the request context. Super-admin tokens are rejected here; the two
// tiers gate disjoint route sets.
func AdminAuth(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := utils.ValidateJWT(jwtSecret, token)
		if err != nil {
			abortUnauthorized(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if claims.TokenType != utils.TokenTypeAdmin {
			abortUnauthorized(c, http.StatusForbidden, "Access denied. Admin only.")
			return
		}

		var admin database.Admin
		if err := db.First(&admin, claims.AccountID).Error; err != nil || !admin.IsActive {
			abortUnauthorized(c, http.StatusForbidden, "Account not found or inactive")
			return
		}

		c.Set(ContextAdmin, &admin)
		c.Next()
	}
}

// SuperAdminAuth validates super-admin-typed tokens and loads the active
// super admin account into the request context
func SuperAdminAuth(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := utils.ValidateJWT(jwtSecret, token)
		if err != nil {
			abortUnauthorized(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if claims.TokenType != utils.TokenTypeSuperAdmin {
			abortUnauthorized(c, http.StatusForbidden, "Access denied. Super admin only.")
			return
		}

		var superAdmin database.SuperAdmin
		if err := db.First(&superAdmin, claims.AccountID).Error; err != nil || !superAdmin.IsActive {
			abortUnauthorized(c, http.StatusUnauthorized, "Invalid or inactive account")
			return
		}

		c.Set(ContextSuperAdmin, &superAdmin)
		c.Next()
	}
}

// AnyAdminAuth accepts either token type. Employee routes are reachable by
// both tiers; the acting identity for auditing still travels in-band.
func AnyAdminAuth(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := utils.ValidateJWT(jwtSecret, token)
		if err != nil {
			abortUnauthorized(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		switch claims.TokenType {
		case utils.TokenTypeAdmin:
			var admin database.Admin
			if err := db.First(&admin, claims.AccountID).Error; err != nil || !admin.IsActive {
				abortUnauthorized(c, http.StatusForbidden, "Account not found or inactive")
				return
			}
			c.Set(ContextAdmin, &admin)
		case utils.TokenTypeSuperAdmin:
			var superAdmin database.SuperAdmin
			if err := db.First(&superAdmin, claims.AccountID).Error; err != nil || !superAdmin.IsActive {
				abortUnauthorized(c, http.StatusUnauthorized, "Invalid or inactive account")
				return
			}
			c.Set(ContextSuperAdmin, &superAdmin)
		default:
			abortUnauthorized(c, http.StatusForbidden, "Access denied")
			return
		}

		c.Next()
	}
}

// AdminFromContext returns the authenticated admin, if any
func AdminFromContext(c *gin.Context) (*database.Admin, bool) {
	value, exists := c.Get(ContextAdmin)
	if !exists {
		return nil, false
	}
	admin, ok := value.(*database.Admin)
	return admin, ok
}

// SuperAdminFromContext returns the authenticated super admin, if any
func SuperAdminFromContext(c *gin.Context) (*database.SuperAdmin, bool) {
	value, exists := c.Get(ContextSuperAdmin)
	if !exists {
		return nil, false
	}
	superAdmin, ok := value.(*database.SuperAdmin)
	return superAdmin, ok
}
