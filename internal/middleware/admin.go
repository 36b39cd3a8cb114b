package middleware

import (
	"net/http" // HTTP status codes

	"wallet_api/internal/ledger" // Store contracts

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware checks the user's role through the user store on each request
func AdminOnlyMiddleware(stores ledger.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Fetch user through the store
		user, err := stores.Users().FindByID(c.Request.Context(), userID.(uint))
		if err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// Check if user role is admin
		if !user.IsAdmin() {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
