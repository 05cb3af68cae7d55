package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mkurali/userhub/internal/domain/user"
)

func abortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"status":  "error",
		"message": message,
	})
}

// RequireAdmin gates a route to admin users. RequireAuth must run first.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := CurrentUser(c)

		if !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}
		if current.Role != user.RoleAdmin {
			abortForbidden(c, "Access denied. Admin privileges required.")
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin allows admins through unconditionally and everyone else
// only when the :id path param is their own id.
func (m *AuthMiddleware) RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, ok := CurrentUser(c)

		if !ok {
			abortUnauthorized(c, "Missing identity context")
			return
		}

		if current.Role == user.RoleAdmin || c.Param(param) == current.ID {
			c.Next()
			return
		}

		abortForbidden(c, "Access denied. You can only access your own profile.")
	}
}
