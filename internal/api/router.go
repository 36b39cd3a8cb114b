package api

import (
	"wallet_api/internal/ledger"     // Transaction engine
	"wallet_api/internal/middleware" // Auth middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// NewRouter wires every route onto a gin engine. Shared between the server
// entrypoint and the HTTP tests.
func NewRouter(engine *ledger.Engine, stores ledger.Stores, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.Default() // Gin router instance

	// Auth routes
	r.POST("/user", RegisterHandler(stores))           // Registration endpoint
	r.GET("/user", LoginHandler(stores, jwtSecret))    // Login endpoint

	// Account routes (protected by JWT)
	accountGroup := r.Group("/accounts")
	accountGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	accountGroup.POST("", CreateAccountHandler(stores, rdb)) // Create account endpoint
	accountGroup.GET("", GetAccountsHandler(stores, rdb))    // List own accounts endpoint

	// Transaction routes (protected by JWT)
	txGroup := r.Group("/transactions")
	txGroup.Use(middleware.JWTAuthMiddleware(jwtSecret))
	txGroup.POST("", CreateTransactionHandler(engine, stores, rdb))             // Create transaction endpoint
	txGroup.GET("/:id", GetTransactionHandler(engine, stores))                  // Get transaction endpoint
	txGroup.PATCH("/:id", EditTransactionHandler(engine, stores, rdb))          // Edit description endpoint
	txGroup.GET("/user/:id", ListUserTransactionsHandler(engine, stores, rdb))  // Per-user history endpoint
	txGroup.POST("/send/:currency", SendMoneyHandler(engine, stores, rdb))      // Transfer endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(jwtSecret), middleware.AdminOnlyMiddleware(stores))
	adminGroup.GET("/users", ListUsersHandler(stores, rdb))                                // List users endpoint
	adminGroup.GET("/transactions", ListUserTransactionsAdminHandler(engine, stores))      // Per-user transactions endpoint

	return r
}
