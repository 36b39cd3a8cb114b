package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
)

// TransactionType is the closed set of transaction kinds
type TransactionType string

// Transaction types
const (
	Payment TransactionType = "PAYMENT" // Decreases the owning account's balance
	Income  TransactionType = "INCOME"  // Increases the owning account's balance
)

// ParseTransactionType maps a raw string onto the TransactionType set
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case Payment, Income:
		return TransactionType(s), nil
	}
	return "", fmt.Errorf("not a valid transaction type: %q", s)
}

// Valid reports whether the type is one of the recognized transaction types
func (t TransactionType) Valid() bool {
	return t == Payment || t == Income
}

// Effect returns the signed balance delta this type applies for a given amount
func (t TransactionType) Effect(amount decimal.Decimal) decimal.Decimal {
	if t == Payment {
		return amount.Neg() // Payments debit the account
	}
	return amount
}

// Transaction Model
//
// Immutable after creation except for Description; correcting a mistake takes a
// new transaction, never a rewrite.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`                  // Primary key
	AccountID   uint            `gorm:"index;not null"`              // Foreign key to the owning Account
	Type        TransactionType `gorm:"size:10;not null"`            // PAYMENT or INCOME
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"` // Strictly positive amount
	Description string          `gorm:"not null"`                    // Non-empty free text, the only editable field
	CreatedAt   time.Time       `gorm:"autoCreateTime"`              // Timestamp of creation
}
