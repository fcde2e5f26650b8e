package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/auth"
)

// RequirePermission gates a route on one permission flag. The role is
// resolved fresh on every request so role edits apply immediately. Deny is
// the default for any unresolved user, category or action.
func RequirePermission(authz *auth.Authorizer, category, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not authenticated",
			})
			c.Abort()
			return
		}

		if !authz.Can(userID.(string), category, action) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
