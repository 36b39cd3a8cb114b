package api

import (
	"net/http" // HTTP status codes

	"wallet_api/internal/ledger" // Engine and typed errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// writeError maps an engine failure onto an HTTP response. Typed failures
// carry their reason to the client; anything else is a server error and only
// the log gets the detail.
func writeError(c *gin.Context, err error) {
	switch ledger.KindOf(err) {
	case ledger.KindInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}) // Client can fix the request
	case ledger.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()}) // Referenced record does not exist
	case ledger.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()}) // Authenticated but not authorized
	default:
		logrus.WithField("error", err.Error()).Error("Unexpected engine failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentActor resolves the acting user's id and role for the request. The
// JWT middleware already placed the user id in the context; the role comes
// from the user store. Returns false after writing the response on failure.
func currentActor(c *gin.Context, stores ledger.Stores) (ledger.Actor, bool) {
	userID, exists := c.Get("userID") // Get userID from context
	if !exists {
		// If not, return unauthorized
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return ledger.Actor{}, false
	}
	user, err := stores.Users().FindByID(c.Request.Context(), userID.(uint))
	if err != nil {
		// Token refers to a user that no longer exists
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return ledger.Actor{}, false
	}
	return ledger.Actor{ID: user.ID, Role: user.Role}, true
}
