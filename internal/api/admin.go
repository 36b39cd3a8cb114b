package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"wallet_api/internal/domain" // Importing domain models
	"wallet_api/internal/ledger" // Transaction engine
	"wallet_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID        uint             `json:"id"`         // User ID
	FirstName string           `json:"first_name"` // First name
	LastName  string           `json:"last_name"`  // Last name
	Email     string           `json:"email"`      // Identity key
	Role      string           `json:"role"`       // User role
	Accounts  []domain.Account `json:"accounts"`   // Non-deleted accounts
}

// ListUsersHandler returns all users with their accounts, paginated
func ListUsersHandler(stores ledger.Stores, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		// Try to get cached response
		var cached struct {
			Users      []UserAdminResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int                 `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,      // List of users
				"page":        cached.Page,       // Current page
				"page_size":   cached.PageSize,   // Page size
				"total":       cached.Total,      // Total number of users
				"total_pages": cached.TotalPages, // Total pages
				"cached":      true,              // Indicate response is from cache
			})
			return
		}
		page := 1      // Default page number
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// Check and set page size within limits
		if ps := c.Query("page_size"); ps != "" {
			// If valid, set page size
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size
			}
		}
		users, err := stores.Users().FindAll(c.Request.Context()) // Fetch every user
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"}) // Return on error
			return
		}
		total := len(users)                                  // Total user count
		totalPages := (total + pageSize - 1) / pageSize      // Calculate total pages
		offset := (page - 1) * pageSize                      // Calculate offset for pagination
		if offset > total {
			offset = total // Past the last page
		}
		end := offset + pageSize
		if end > total {
			end = total // Partial last page
		}
		// Map users to response format, attaching their accounts
		resp := make([]UserAdminResponse, 0, end-offset)
		for _, u := range users[offset:end] {
			accounts, err := stores.Accounts().FindAllByUser(c.Request.Context(), u.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
				return
			}
			resp = append(resp, UserAdminResponse{
				ID:        u.ID,        // User ID
				FirstName: u.FirstName, // First name
				LastName:  u.LastName,  // Last name
				Email:     u.Email,     // Identity key
				Role:      u.Role,      // User role
				Accounts:  accounts,    // Non-deleted accounts
			})
		}
		// Prepare final response data
		respData := gin.H{
			"users":       resp,       // List of users
			"page":        page,       // Current page
			"page_size":   pageSize,   // Page size
			"total":       total,      // Total number of users
			"total_pages": totalPages, // Total pages
			"cached":      false,      // Indicate response is not from cache
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData) // Return the response
	}
}

// ListUserTransactionsAdminHandler returns a target user's transactions; the
// engine's role check authorizes the admin actor
func ListUserTransactionsAdminHandler(engine *ledger.Engine, stores ledger.Stores) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := currentActor(c, stores) // Resolve acting user
		if !ok {
			return
		}
		userID, err := strconv.Atoi(c.Query("user_id")) // Parse target user id
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}
		views, err := engine.GetAllByUser(c.Request.Context(), uint(userID), actor)
		if err != nil {
			writeError(c, err) // Map engine failure to status
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": views}) // Return the transactions
	}
}
