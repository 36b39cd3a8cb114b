package ledger

import (
	"context"

	"wallet_api/internal/domain" // Importing domain models
)

// UserStore is the engine's contract for user records
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error                 // Persist a new user
	FindByID(ctx context.Context, id uint) (*domain.User, error)         // Load by primary key
	FindByEmail(ctx context.Context, email string) (*domain.User, error) // Load by identity key
	FindAll(ctx context.Context) ([]domain.User, error)                  // Load every user
}

// AccountStore is the engine's contract for account records
type AccountStore interface {
	Create(ctx context.Context, account *domain.Account) error              // Persist a new account
	FindByID(ctx context.Context, id uint) (*domain.Account, error)         // Load by primary key
	FindByIDForUpdate(ctx context.Context, id uint) (*domain.Account, error) // Load by primary key holding a per-account write lock until the unit of work ends
	FindByCurrencyAndUser(ctx context.Context, currency domain.Currency, userID uint) (*domain.Account, error) // Load a user's account in a currency
	FindAllByUser(ctx context.Context, userID uint) ([]domain.Account, error) // Load a user's non-soft-deleted accounts
	Save(ctx context.Context, account *domain.Account) error                // Persist an updated account
}

// TransactionStore is the engine's contract for transaction records
type TransactionStore interface {
	Create(ctx context.Context, txn *domain.Transaction) error                       // Persist a new transaction
	FindByID(ctx context.Context, id uint) (*domain.Transaction, error)              // Load by primary key
	FindAllByAccount(ctx context.Context, accountID uint) ([]domain.Transaction, error) // Load every transaction of an account
	Save(ctx context.Context, txn *domain.Transaction) error                         // Persist an updated transaction
}

// Stores bundles the three store contracts behind one unit-of-work boundary.
// Every load in these contracts signals an absent record with ErrRecordMissing.
type Stores interface {
	Users() UserStore
	Accounts() AccountStore
	Transactions() TransactionStore
	// Atomically runs fn against a store set whose writes commit together or
	// not at all. fn's error aborts the unit and is returned unchanged.
	Atomically(ctx context.Context, fn func(s Stores) error) error
}
