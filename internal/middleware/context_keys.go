package middleware

import (
	"github.com/SscSPs/cdt_management_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys set by this package.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	userRoleKey  = contextKey("userRole")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	// Check the request context as well; the auth middleware stores it there
	// so non-gin code can read it.
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok {
			return userID, true
		}
	}
	return "", false
}

// GetUserRoleFromContext retrieves the authenticated user's role from the Gin
// context, defaulting to the non-admin role when absent.
func GetUserRoleFromContext(c *gin.Context) domain.UserRole {
	if v, exists := c.Get(string(userRoleKey)); exists {
		if role, ok := v.(domain.UserRole); ok {
			return role
		}
	}
	if v := c.Request.Context().Value(userRoleKey); v != nil {
		if role, ok := v.(domain.UserRole); ok {
			return role
		}
	}
	return domain.RoleUser
}
