package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel comparisons
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"wallet_api/internal/domain" // Importing domain models
	"wallet_api/internal/ledger" // Store contracts
	"wallet_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
	"github.com/sirupsen/logrus"    // Logging library
)

// CreateAccountRequest represents an account creation request
type CreateAccountRequest struct {
	Currency string `json:"currency" binding:"required"` // Currency code, e.g. ARS or USD
}

// accountsCacheKey is the cache key for a user's account list
func accountsCacheKey(userID uint) string {
	return "accounts:user:" + strconv.Itoa(int(userID))
}

// CreateAccountHandler creates an account for the authenticated user, one per currency
func CreateAccountHandler(stores ledger.Stores, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		var req CreateAccountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Map the raw code onto the closed currency set
		currency, err := domain.ParseCurrency(req.Currency)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// One account per currency per user
		if _, err := stores.Accounts().FindByCurrencyAndUser(c.Request.Context(), currency, actor.ID); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Account already exists for this currency"})
			return
		} else if !errors.Is(err, ledger.ErrRecordMissing) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
		account := domain.Account{
			UserID:           actor.ID,                                 // Owning user
			Currency:         currency,                                 // Requested currency
			Balance:          decimal.Zero,                             // Accounts start empty
			TransactionLimit: domain.DefaultTransactionLimit(currency), // Per-currency default ceiling
		}
		// Save the new account
		if err := stores.Accounts().Create(c.Request.Context(), &account); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id":  actor.ID,         // User ID
				"currency": string(currency), // Requested currency
				"error":    err.Error(),      // Error message
			}).Error("Failed to create account") // Log failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
		// Log successful account creation
		logrus.WithFields(logrus.Fields{
			"user_id":    actor.ID,         // User ID
			"account_id": account.ID,       // Account ID
			"currency":   string(currency), // Requested currency
		}).Info("Account created")
		// Invalidate the account list cache
		ctx := context.Background()
		_ = utils.DeleteCache(ctx, rdb, accountsCacheKey(actor.ID))
		// Return success response
		c.JSON(http.StatusCreated, gin.H{"message": "Account created", "account": account})
	}
}

// GetAccountsHandler returns the authenticated user's non-deleted accounts
func GetAccountsHandler(stores ledger.Stores, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		ctx := context.Background()             // Context for Redis operations
		cacheKey := accountsCacheKey(actor.ID)  // Cache key for the account list
		var accounts []domain.Account           // Accounts to return
		found, err := utils.GetCache(ctx, rdb, cacheKey, &accounts) // Try to get from cache
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"accounts": accounts, "cached": true})
			return
		}
		// If not in cache, fetch from the store
		accounts, err = stores.Accounts().FindAllByUser(c.Request.Context(), actor.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, accounts, 60*time.Second)  // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{"accounts": accounts, "cached": false}) // Return account list
	}
}
