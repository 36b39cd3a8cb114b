package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"wallet_api/internal/domain" // Importing domain models
	"wallet_api/internal/ledger" // Transaction engine
	"wallet_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
	"github.com/sirupsen/logrus"    // Logging library
)

// CreateTransactionRequest represents a transaction creation request
type CreateTransactionRequest struct {
	AccountID   uint            `json:"account_id"`  // Target account
	Type        string          `json:"type"`        // PAYMENT or INCOME
	Amount      decimal.Decimal `json:"amount"`      // Strictly positive amount
	Description string          `json:"description"` // Non-empty free text
}

// EditTransactionRequest carries the new description for an edit
type EditTransactionRequest struct {
	Description string `json:"description"` // New description
}

// SendMoneyRequest represents a transfer request
type SendMoneyRequest struct {
	DestinationAccountID uint            `json:"destination_account_id"` // Receiving account
	Amount               decimal.Decimal `json:"amount"`                 // Transfer amount
	Description          string          `json:"description"`            // Shared description
}

// historyCacheKey is the cache key for a user's transaction history
func historyCacheKey(userID uint) string {
	return "txhistory:user:" + strconv.Itoa(int(userID))
}

// invalidateUserCaches drops a user's cached history and account list after a
// balance-affecting mutation
func invalidateUserCaches(rdb *redis.Client, userIDs ...uint) {
	keys := make([]string, 0, 2*len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, historyCacheKey(id), accountsCacheKey(id))
	}
	_ = utils.DeleteCacheKeys(context.Background(), rdb, keys...) // Invalidate all in one round trip
}

// CreateTransactionHandler registers a single transaction on one of the
// actor's accounts and applies its effect to the balance
func CreateTransactionHandler(engine *ledger.Engine, stores ledger.Stores, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		var req CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Map the raw type onto the closed set; invalid input fails here
		txnType, err := domain.ParseTransactionType(req.Type)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "not a valid transaction type"})
			return
		}
		view, err := engine.Save(c.Request.Context(), ledger.CreateRequest{
			AccountID:   req.AccountID,   // Target account
			Type:        txnType,         // PAYMENT or INCOME
			Amount:      req.Amount,      // Positive amount
			Description: req.Description, // Free text
		}, actor)
		if err != nil {
			writeError(c, err) // Map engine failure to status
			return
		}
		// Log the applied transaction
		logrus.WithFields(logrus.Fields{
			"user_id":        actor.ID,            // Acting user
			"account_id":     view.AccountID,      // Target account
			"transaction_id": view.ID,             // New transaction
			"type":           string(view.Type),   // PAYMENT or INCOME
			"amount":         view.Amount.String(), // Applied amount
		}).Info("Transaction created")
		invalidateUserCaches(rdb, actor.ID) // Drop stale caches
		c.JSON(http.StatusCreated, view)    // Return the created transaction
	}
}

// GetTransactionHandler returns one transaction the actor owns
func GetTransactionHandler(engine *ledger.Engine, stores ledger.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id")) // Parse transaction id
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
			return
		}
		view, err := engine.FindByID(c.Request.Context(), uint(id), actor)
		if err != nil {
			writeError(c, err) // Map engine failure to status
			return
		}
		c.JSON(http.StatusOK, view) // Return the transaction
	}
}

// ListUserTransactionsHandler returns every transaction of the target user's
// non-deleted accounts; the engine enforces self-or-admin access
func ListUserTransactionsHandler(engine *ledger.Engine, stores ledger.Stores, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		userID, err := strconv.Atoi(c.Param("id")) // Parse target user id
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		ctx := context.Background()                 // Context for Redis operations
		cacheKey := historyCacheKey(uint(userID))   // Cache key for the target's history
		// Only the target themselves gets the cached shortcut; admin reads go
		// through the engine so the role check always runs
		if actor.ID == uint(userID) {
			var cached []ledger.TransactionView
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"transactions": cached, "cached": true})
				return
			}
		}
		views, err := engine.GetAllByUser(c.Request.Context(), uint(userID), actor)
		if err != nil {
			writeError(c, err) // Map engine failure to status
			return
		}
		if actor.ID == uint(userID) {
			_ = utils.SetCache(ctx, rdb, cacheKey, views, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, gin.H{"transactions": views, "cached": false})
	}
}

// EditTransactionHandler changes a transaction's description
func EditTransactionHandler(engine *ledger.Engine, stores ledger.Stores, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		id, err := strconv.Atoi(c.Param("id")) // Parse transaction id
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction id"})
			return
		}
		var req EditTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		view, err := engine.Edit(c.Request.Context(), uint(id), req.Description, actor)
		if err != nil {
			writeError(c, err) // Map engine failure to status
			return
		}
		invalidateUserCaches(rdb, actor.ID) // Drop stale history cache
		c.JSON(http.StatusOK, view)         // Return the updated transaction
	}
}

// SendMoneyHandler moves money from the actor's account in the path currency
// to the destination account. Returns the PAYMENT leg.
func SendMoneyHandler(engine *ledger.Engine, stores ledger.Stores, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		// Map the path segment onto the closed currency set
		currency, err := domain.ParseCurrency(c.Param("currency"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var req SendMoneyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		view, err := engine.Send(c.Request.Context(), ledger.SendRequest{
			DestinationAccountID: req.DestinationAccountID, // Receiving account
			Amount:               req.Amount,               // Transfer amount
			Description:          req.Description,          // Shared description
			Currency:             currency,                 // Transfer currency
		}, actor)
		if err != nil {
			// Log the failed transfer with context
			logrus.WithFields(logrus.Fields{
				"user_id":                actor.ID,                 // Acting user
				"destination_account_id": req.DestinationAccountID, // Receiving account
				"amount":                 req.Amount.String(),      // Transfer amount
				"error":                  err.Error(),              // Error message
			}).Warn("Transfer failed")
			writeError(c, err) // Map engine failure to status
			return
		}
		// Log successful transfer
		logrus.WithFields(logrus.Fields{
			"user_id":                actor.ID,                 // Acting user
			"destination_account_id": req.DestinationAccountID, // Receiving account
			"amount":                 view.Amount.String(),     // Transfer amount
			"currency":               string(currency),         // Transfer currency
		}).Info("Transfer completed")
		// Drop stale caches for both sides of the transfer
		affected := []uint{actor.ID}
		if dest, err := stores.Accounts().FindByID(c.Request.Context(), req.DestinationAccountID); err == nil {
			affected = append(affected, dest.UserID)
		}
		invalidateUserCaches(rdb, affected...)
		c.JSON(http.StatusOK, view) // Return the PAYMENT leg
	}
}
