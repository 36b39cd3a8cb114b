package main

import (
	"wallet_api/internal/config" // Custom package for configuration
	"wallet_api/internal/db"     // Database migration helpers
)

// Runs the schema migration against the configured database
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run AutoMigrate with the assembled DSN
}
