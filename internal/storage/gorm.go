// Package storage provides the two implementations of the ledger's store
// contracts: a gorm/MySQL set for real deployments and an in-memory set for
// tests and local runs.
package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row-level locking clause

	"wallet_api/internal/domain" // Importing domain models
	"wallet_api/internal/ledger" // Store contracts and sentinel errors
)

// Gorm is the MySQL-backed store set. Atomically hands out a store set bound
// to one gorm transaction, so every write inside the closure commits together.
type Gorm struct {
	db *gorm.DB // Connection or open transaction
}

// NewGorm wraps a gorm connection in the store contracts
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Users returns the user store
func (g *Gorm) Users() ledger.UserStore { return gormUsers{g.db} }

// Accounts returns the account store
func (g *Gorm) Accounts() ledger.AccountStore { return gormAccounts{g.db} }

// Transactions returns the transaction store
func (g *Gorm) Transactions() ledger.TransactionStore { return gormTransactions{g.db} }

// Atomically runs fn inside one database transaction
func (g *Gorm) Atomically(ctx context.Context, fn func(s ledger.Stores) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGorm(tx)) // Store set bound to the open transaction
	})
}

// missing maps gorm's not-found error onto the engine's sentinel
func missing(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.ErrRecordMissing
	}
	return err
}

type gormUsers struct{ db *gorm.DB }

func (s gormUsers) Create(ctx context.Context, user *domain.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s gormUsers) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, missing(err)
	}
	return &user, nil
}

func (s gormUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, missing(err)
	}
	return &user, nil
}

func (s gormUsers) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type gormAccounts struct{ db *gorm.DB }

func (s gormAccounts) Create(ctx context.Context, account *domain.Account) error {
	return s.db.WithContext(ctx).Create(account).Error
}

func (s gormAccounts) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	var account domain.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, missing(err)
	}
	return &account, nil
}

// FindByIDForUpdate takes a row lock so the funds check and the balance write
// of one leg serialize against concurrent legs on the same account
func (s gormAccounts) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Account, error) {
	var account domain.Account
	if err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, id).Error; err != nil {
		return nil, missing(err)
	}
	return &account, nil
}

func (s gormAccounts) FindByCurrencyAndUser(ctx context.Context, currency domain.Currency, userID uint) (*domain.Account, error) {
	var account domain.Account
	if err := s.db.WithContext(ctx).Where("currency = ? AND user_id = ?", currency, userID).First(&account).Error; err != nil {
		return nil, missing(err)
	}
	return &account, nil
}

// FindAllByUser excludes soft-deleted accounts
func (s gormAccounts) FindAllByUser(ctx context.Context, userID uint) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := s.db.WithContext(ctx).Where("user_id = ? AND soft_delete = ?", userID, false).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s gormAccounts) Save(ctx context.Context, account *domain.Account) error {
	return s.db.WithContext(ctx).Save(account).Error
}

type gormTransactions struct{ db *gorm.DB }

func (s gormTransactions) Create(ctx context.Context, txn *domain.Transaction) error {
	return s.db.WithContext(ctx).Create(txn).Error
}

func (s gormTransactions) FindByID(ctx context.Context, id uint) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := s.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		return nil, missing(err)
	}
	return &txn, nil
}

func (s gormTransactions) FindAllByAccount(ctx context.Context, accountID uint) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	if err := s.db.WithContext(ctx).Where("account_id = ?", accountID).Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (s gormTransactions) Save(ctx context.Context, txn *domain.Transaction) error {
	return s.db.WithContext(ctx).Save(txn).Error
}
