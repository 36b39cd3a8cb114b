// Package ledger is the transaction/balance consistency engine: it validates
// and creates transactions, applies their effect to the owning account's
// balance inside one store-level unit of work, and composes two single
// transactions into a money transfer.
package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
	"github.com/sirupsen/logrus"    // Logging library

	"wallet_api/internal/domain" // Importing domain models
)

// Engine validates and executes every balance-affecting operation. All access
// to balances goes through it; nothing else writes an account balance.
type Engine struct {
	stores Stores // Unit-of-work capable store set
}

// NewEngine builds an engine on top of a store set
func NewEngine(stores Stores) *Engine {
	return &Engine{stores: stores}
}

// CreateRequest carries the inputs of a single transaction creation
type CreateRequest struct {
	AccountID   uint                   // Target account
	Type        domain.TransactionType // PAYMENT or INCOME
	Amount      decimal.Decimal        // Strictly positive amount
	Description string                 // Non-empty free text
}

// SendRequest carries the inputs of a two-leg money transfer
type SendRequest struct {
	DestinationAccountID uint            // Account receiving the INCOME leg
	Amount               decimal.Decimal // Strictly positive amount, shared by both legs
	Description          string          // Free text, shared by both legs
	Currency             domain.Currency // Currency the transfer runs in; selects the source account
}

// Save validates and creates a single transaction on an account the actor
// owns. The transaction insert and the balance update commit together; a
// PAYMENT that would overdraw the account is rejected before either write.
func (e *Engine) Save(ctx context.Context, req CreateRequest, actor Actor) (*TransactionView, error) {
	// Input validation happens before any store access
	if req.Amount.Sign() <= 0 {
		return nil, ErrInvalidInput("amount must be greater than 0")
	}
	if !req.Type.Valid() {
		return nil, ErrInvalidInput("not a valid transaction type")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrInvalidInput("description is mandatory")
	}
	if req.AccountID == 0 {
		return nil, ErrInvalidInput("account id is mandatory")
	}
	// The ownership check runs inside the same unit of work as the writes so
	// the account cannot change hands between check and apply
	return e.createLeg(ctx, req, &actor.ID)
}

// createLeg runs one atomic transaction creation: lock the account, enforce
// ownership when a guard is given, enforce sufficient funds for payments,
// insert the transaction, apply the signed effect to the balance.
func (e *Engine) createLeg(ctx context.Context, req CreateRequest, mustBeOwnedBy *uint) (*TransactionView, error) {
	var view *TransactionView
	err := e.stores.Atomically(ctx, func(s Stores) error {
		account, err := s.Accounts().FindByIDForUpdate(ctx, req.AccountID)
		if errors.Is(err, ErrRecordMissing) {
			return ErrNotFound("account not found")
		}
		if err != nil {
			return err
		}
		if mustBeOwnedBy != nil && account.UserID != *mustBeOwnedBy {
			return ErrForbidden("not allowed to register transactions in other accounts than yours")
		}
		// The funds check and the balance write stay under the same account lock
		if req.Type == domain.Payment && account.Balance.LessThan(req.Amount) {
			return ErrInvalidInput("insufficient funds")
		}
		txn := &domain.Transaction{
			AccountID:   req.AccountID,   // Owning account
			Type:        req.Type,        // PAYMENT or INCOME
			Amount:      req.Amount,      // Positive amount
			Description: req.Description, // Free text
		}
		if err := s.Transactions().Create(ctx, txn); err != nil {
			return err
		}
		account.Balance = account.Balance.Add(req.Type.Effect(req.Amount))
		if err := s.Accounts().Save(ctx, account); err != nil {
			return err
		}
		view = newView(txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// FindByID returns a transaction the actor owns. There is no admin override
// on single-transaction retrieval.
func (e *Engine) FindByID(ctx context.Context, id uint, actor Actor) (*TransactionView, error) {
	txn, err := e.stores.Transactions().FindByID(ctx, id)
	if errors.Is(err, ErrRecordMissing) {
		return nil, ErrNotFound("transaction not found")
	}
	if err != nil {
		return nil, err
	}
	account, err := e.stores.Accounts().FindByID(ctx, txn.AccountID)
	if errors.Is(err, ErrRecordMissing) {
		return nil, ErrNotFound("account not found")
	}
	if err != nil {
		return nil, err
	}
	if account.UserID != actor.ID {
		return nil, ErrForbidden("you are not allowed to view this transaction")
	}
	return newView(txn), nil
}

// GetAllByUser returns every transaction of every non-deleted account owned
// by the target user, in no guaranteed order. Admins may target anyone;
// everyone else only themselves.
func (e *Engine) GetAllByUser(ctx context.Context, userID uint, actor Actor) ([]TransactionView, error) {
	if userID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden("unable to see other user's transactions")
	}
	user, err := e.stores.Users().FindByID(ctx, userID)
	if errors.Is(err, ErrRecordMissing) {
		return nil, ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	accounts, err := e.stores.Accounts().FindAllByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	views := []TransactionView{}
	for _, account := range accounts {
		txns, err := e.stores.Transactions().FindAllByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		for i := range txns {
			views = append(views, *newView(&txns[i]))
		}
	}
	return views, nil
}

// Edit changes a transaction's description. Amount, type, account and
// timestamp are immutable; the write commits inside the store's transaction
// boundary.
func (e *Engine) Edit(ctx context.Context, id uint, description string, actor Actor) (*TransactionView, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidInput("description is mandatory")
	}
	var view *TransactionView
	err := e.stores.Atomically(ctx, func(s Stores) error {
		txn, err := s.Transactions().FindByID(ctx, id)
		if errors.Is(err, ErrRecordMissing) {
			return ErrNotFound("transaction not found")
		}
		if err != nil {
			return err
		}
		account, err := s.Accounts().FindByID(ctx, txn.AccountID)
		if errors.Is(err, ErrRecordMissing) {
			return ErrNotFound("account not found")
		}
		if err != nil {
			return err
		}
		if account.UserID != actor.ID {
			return ErrForbidden("you are not allowed to modify this transaction")
		}
		txn.Description = description
		if err := s.Transactions().Save(ctx, txn); err != nil {
			return err
		}
		view = newView(txn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Send moves money between two accounts of the same currency: a PAYMENT leg
// on the actor's account in the given currency, then an INCOME leg on the
// destination. Each leg is its own atomic unit; the pair shares no commit,
// so an INCOME-leg failure after the PAYMENT leg committed leaves a debit
// with no matching credit. Returns the PAYMENT leg's view.
func (e *Engine) Send(ctx context.Context, req SendRequest, actor Actor) (*TransactionView, error) {
	user, err := e.stores.Users().FindByID(ctx, actor.ID)
	if errors.Is(err, ErrRecordMissing) {
		return nil, ErrNotFound("not found")
	}
	if err != nil {
		return nil, err
	}
	source, err := e.stores.Accounts().FindByCurrencyAndUser(ctx, req.Currency, user.ID)
	if errors.Is(err, ErrRecordMissing) {
		return nil, ErrNotFound("not found")
	}
	if err != nil {
		return nil, err
	}
	destination, err := e.stores.Accounts().FindByID(ctx, req.DestinationAccountID)
	if errors.Is(err, ErrRecordMissing) {
		return nil, ErrNotFound("not found")
	}
	if err != nil {
		return nil, err
	}
	if source.ID == destination.ID {
		return nil, ErrInvalidInput("cannot be the same account")
	}
	if destination.Currency != req.Currency {
		return nil, ErrInvalidInput("currency mismatch")
	}
	if req.Amount.Sign() <= 0 {
		return nil, ErrInvalidInput("amount must be greater than 0")
	}
	if req.Amount.GreaterThan(source.TransactionLimit) {
		return nil, ErrInvalidInput("amount exceeds limit")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrInvalidInput("description is mandatory")
	}
	// PAYMENT leg on the source; ownership is already proven by the
	// currency-scoped lookup, the guard keeps it under the account lock
	payment, err := e.createLeg(ctx, CreateRequest{
		AccountID:   source.ID,       // Actor's account in the requested currency
		Type:        domain.Payment,  // Debit leg
		Amount:      req.Amount,      // Shared amount
		Description: req.Description, // Shared description
	}, &actor.ID)
	if err != nil {
		return nil, err
	}
	// INCOME leg on the destination; no ownership guard, the destination
	// usually belongs to someone else
	if _, err := e.createLeg(ctx, CreateRequest{
		AccountID:   destination.ID,  // Receiving account
		Type:        domain.Income,   // Credit leg
		Amount:      req.Amount,      // Shared amount
		Description: req.Description, // Shared description
	}, nil); err != nil {
		// The PAYMENT leg already committed; there is no compensation step
		logrus.WithFields(logrus.Fields{
			"source_account_id":      source.ID,          // Debited account
			"destination_account_id": destination.ID,     // Account that never got credited
			"amount":                 req.Amount.String(), // Transfer amount
			"error":                  err.Error(),        // INCOME leg failure
		}).Error("Income leg failed after payment leg committed")
		return nil, err
	}
	return payment, nil
}
