package ledger

import (
	"time"

	"github.com/shopspring/decimal" // Exact decimal arithmetic for money

	"wallet_api/internal/domain" // Importing domain models
)

// Actor is the identity under whose authority an engine operation runs,
// resolved by the caller and passed in explicitly.
type Actor struct {
	ID   uint   // Acting user's id
	Role string // Acting user's role
}

// IsAdmin reports whether the actor holds the administrator role
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// TransactionView is the engine's outward representation of a transaction
type TransactionView struct {
	ID          uint                   `json:"id"`          // Transaction id
	Type        domain.TransactionType `json:"type"`        // PAYMENT or INCOME
	Amount      decimal.Decimal        `json:"amount"`      // Positive amount
	Description string                 `json:"description"` // Free text
	AccountID   uint                   `json:"account_id"`  // Owning account
	CreatedAt   time.Time              `json:"created_at"`  // Timestamp of creation
}

// newView maps a persisted transaction onto its view
func newView(txn *domain.Transaction) *TransactionView {
	return &TransactionView{
		ID:          txn.ID,          // Transaction id
		Type:        txn.Type,        // PAYMENT or INCOME
		Amount:      txn.Amount,      // Positive amount
		Description: txn.Description, // Free text
		AccountID:   txn.AccountID,   // Owning account
		CreatedAt:   txn.CreatedAt,   // Timestamp of creation
	}
}
