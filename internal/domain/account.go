package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
)

// Currency is the closed set of currencies an account can be denominated in
type Currency string

// Supported currencies
const (
	ARS Currency = "ARS" // Argentine peso
	USD Currency = "USD" // US dollar
)

// ParseCurrency maps a raw string onto the Currency set
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case ARS, USD:
		return Currency(s), nil
	}
	return "", fmt.Errorf("not a valid currency: %q", s)
}

// DefaultTransactionLimit returns the per-currency ceiling applied to new accounts
func DefaultTransactionLimit(c Currency) decimal.Decimal {
	if c == USD {
		return decimal.NewFromInt(1000) // USD accounts cap outbound transfers at 1000
	}
	return decimal.NewFromInt(300000) // ARS accounts cap outbound transfers at 300000
}

// Account Model
//
// Balance is only ever written by the ledger engine's apply-effect step; every
// other component treats it as read-only.
type Account struct {
	ID               uint            `gorm:"primaryKey"`                   // Primary key
	UserID           uint            `gorm:"index;not null"`               // Foreign key to the owning User
	Currency         Currency        `gorm:"size:3;not null"`              // Currency the account is denominated in
	Balance          decimal.Decimal `gorm:"type:decimal(20,2);not null"`  // Current balance
	TransactionLimit decimal.Decimal `gorm:"type:decimal(20,2);not null"`  // Ceiling for a single outbound transfer
	SoftDelete       bool            `gorm:"default:false"`                // Soft-delete flag, hidden from retrieval when set
	CreatedAt        time.Time       `gorm:"autoCreateTime"`               // Timestamp of creation
	UpdatedAt        time.Time       `gorm:"autoUpdateTime"`               // Timestamp of last update
}
