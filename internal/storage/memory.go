package storage

import (
	"context"
	"sync"
	"time"

	"wallet_api/internal/domain" // Importing domain models
	"wallet_api/internal/ledger" // Store contracts and sentinel errors
)

// Memory is the in-memory store set. A single mutex serializes every unit of
// work, and Atomically stages its writes on a copy of the data so a failed
// unit leaves nothing behind. Records are copied in and out; callers never
// hold pointers into the store.
type Memory struct {
	mu   sync.Mutex  // Serializes all units of work
	data *memoryData // Current committed state
}

// NewMemory builds an empty in-memory store set
func NewMemory() *Memory {
	return &Memory{data: &memoryData{
		users:        map[uint]domain.User{},
		accounts:     map[uint]domain.Account{},
		transactions: map[uint]domain.Transaction{},
	}}
}

// memoryData holds the committed records and id counters
type memoryData struct {
	users        map[uint]domain.User
	accounts     map[uint]domain.Account
	transactions map[uint]domain.Transaction
	nextUser     uint
	nextAccount  uint
	nextTxn      uint
}

// clone copies the whole data set; record types hold no shared pointers
func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		users:        make(map[uint]domain.User, len(d.users)),
		accounts:     make(map[uint]domain.Account, len(d.accounts)),
		transactions: make(map[uint]domain.Transaction, len(d.transactions)),
		nextUser:     d.nextUser,
		nextAccount:  d.nextAccount,
		nextTxn:      d.nextTxn,
	}
	for id, u := range d.users {
		c.users[id] = u
	}
	for id, a := range d.accounts {
		c.accounts[id] = a
	}
	for id, t := range d.transactions {
		c.transactions[id] = t
	}
	return c
}

// Users returns the user store
func (m *Memory) Users() ledger.UserStore { return memUsers{m: m} }

// Accounts returns the account store
func (m *Memory) Accounts() ledger.AccountStore { return memAccounts{m: m} }

// Transactions returns the transaction store
func (m *Memory) Transactions() ledger.TransactionStore { return memTransactions{m: m} }

// Atomically stages fn's writes on a copy and swaps it in only when fn
// succeeds
func (m *Memory) Atomically(ctx context.Context, fn func(s ledger.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	staged := m.data.clone()
	if err := fn(&memoryTx{data: staged}); err != nil {
		return err // Staged copy is discarded
	}
	m.data = staged
	return nil
}

// run executes one store call as its own minimal unit of work
func (m *Memory) run(fn func(tx *memoryTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memoryTx{data: m.data})
}

// memoryTx is a store set bound to one unit of work; the enclosing Memory
// already holds the lock, so methods touch data directly
type memoryTx struct {
	data *memoryData
}

func (t *memoryTx) Users() ledger.UserStore               { return txUsers{t.data} }
func (t *memoryTx) Accounts() ledger.AccountStore         { return txAccounts{t.data} }
func (t *memoryTx) Transactions() ledger.TransactionStore { return txTransactions{t.data} }

// Atomically inside an open unit of work just joins it
func (t *memoryTx) Atomically(ctx context.Context, fn func(s ledger.Stores) error) error {
	return fn(t)
}

type txUsers struct{ d *memoryData }

func (s txUsers) Create(ctx context.Context, user *domain.User) error {
	s.d.nextUser++
	user.ID = s.d.nextUser
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.d.users[user.ID] = *user
	return nil
}

func (s txUsers) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	u, ok := s.d.users[id]
	if !ok {
		return nil, ledger.ErrRecordMissing
	}
	return &u, nil
}

func (s txUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.d.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ledger.ErrRecordMissing
}

func (s txUsers) FindAll(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(s.d.users))
	for id := uint(1); id <= s.d.nextUser; id++ {
		if u, ok := s.d.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

type txAccounts struct{ d *memoryData }

func (s txAccounts) Create(ctx context.Context, account *domain.Account) error {
	s.d.nextAccount++
	account.ID = s.d.nextAccount
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	s.d.accounts[account.ID] = *account
	return nil
}

func (s txAccounts) FindByID(ctx context.Context, id uint) (*domain.Account, error) {
	a, ok := s.d.accounts[id]
	if !ok {
		return nil, ledger.ErrRecordMissing
	}
	return &a, nil
}

// FindByIDForUpdate needs no extra locking here: the enclosing unit of work
// already holds the store-wide mutex
func (s txAccounts) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Account, error) {
	return s.FindByID(ctx, id)
}

func (s txAccounts) FindByCurrencyAndUser(ctx context.Context, currency domain.Currency, userID uint) (*domain.Account, error) {
	for _, a := range s.d.accounts {
		if a.Currency == currency && a.UserID == userID {
			a := a
			return &a, nil
		}
	}
	return nil, ledger.ErrRecordMissing
}

func (s txAccounts) FindAllByUser(ctx context.Context, userID uint) ([]domain.Account, error) {
	accounts := []domain.Account{}
	for id := uint(1); id <= s.d.nextAccount; id++ {
		a, ok := s.d.accounts[id]
		if ok && a.UserID == userID && !a.SoftDelete {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (s txAccounts) Save(ctx context.Context, account *domain.Account) error {
	if _, ok := s.d.accounts[account.ID]; !ok {
		return ledger.ErrRecordMissing
	}
	account.UpdatedAt = time.Now()
	s.d.accounts[account.ID] = *account
	return nil
}

type txTransactions struct{ d *memoryData }

func (s txTransactions) Create(ctx context.Context, txn *domain.Transaction) error {
	s.d.nextTxn++
	txn.ID = s.d.nextTxn
	txn.CreatedAt = time.Now()
	s.d.transactions[txn.ID] = *txn
	return nil
}

func (s txTransactions) FindByID(ctx context.Context, id uint) (*domain.Transaction, error) {
	t, ok := s.d.transactions[id]
	if !ok {
		return nil, ledger.ErrRecordMissing
	}
	return &t, nil
}

func (s txTransactions) FindAllByAccount(ctx context.Context, accountID uint) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	for id := uint(1); id <= s.d.nextTxn; id++ {
		t, ok := s.d.transactions[id]
		if ok && t.AccountID == accountID {
			txns = append(txns, t)
		}
	}
	return txns, nil
}

func (s txTransactions) Save(ctx context.Context, txn *domain.Transaction) error {
	if _, ok := s.d.transactions[txn.ID]; !ok {
		return ledger.ErrRecordMissing
	}
	s.d.transactions[txn.ID] = *txn
	return nil
}

// Locking wrappers so single store calls outside Atomically are serialized
// against open units of work

type memUsers struct{ m *Memory }

func (s memUsers) Create(ctx context.Context, user *domain.User) error {
	return s.m.run(func(tx *memoryTx) error { return tx.Users().Create(ctx, user) })
}

func (s memUsers) FindByID(ctx context.Context, id uint) (u *domain.User, err error) {
	err = s.m.run(func(tx *memoryTx) error { u, err = tx.Users().FindByID(ctx, id); return err })
	return
}

func (s memUsers) FindByEmail(ctx context.Context, email string) (u *domain.User, err error) {
	err = s.m.run(func(tx *memoryTx) error { u, err = tx.Users().FindByEmail(ctx, email); return err })
	return
}

func (s memUsers) FindAll(ctx context.Context) (users []domain.User, err error) {
	err = s.m.run(func(tx *memoryTx) error { users, err = tx.Users().FindAll(ctx); return err })
	return
}

type memAccounts struct{ m *Memory }

func (s memAccounts) Create(ctx context.Context, account *domain.Account) error {
	return s.m.run(func(tx *memoryTx) error { return tx.Accounts().Create(ctx, account) })
}

func (s memAccounts) FindByID(ctx context.Context, id uint) (a *domain.Account, err error) {
	err = s.m.run(func(tx *memoryTx) error { a, err = tx.Accounts().FindByID(ctx, id); return err })
	return
}

func (s memAccounts) FindByIDForUpdate(ctx context.Context, id uint) (a *domain.Account, err error) {
	err = s.m.run(func(tx *memoryTx) error { a, err = tx.Accounts().FindByIDForUpdate(ctx, id); return err })
	return
}

func (s memAccounts) FindByCurrencyAndUser(ctx context.Context, currency domain.Currency, userID uint) (a *domain.Account, err error) {
	err = s.m.run(func(tx *memoryTx) error {
		a, err = tx.Accounts().FindByCurrencyAndUser(ctx, currency, userID)
		return err
	})
	return
}

func (s memAccounts) FindAllByUser(ctx context.Context, userID uint) (accounts []domain.Account, err error) {
	err = s.m.run(func(tx *memoryTx) error { accounts, err = tx.Accounts().FindAllByUser(ctx, userID); return err })
	return
}

func (s memAccounts) Save(ctx context.Context, account *domain.Account) error {
	return s.m.run(func(tx *memoryTx) error { return tx.Accounts().Save(ctx, account) })
}

type memTransactions struct{ m *Memory }

func (s memTransactions) Create(ctx context.Context, txn *domain.Transaction) error {
	return s.m.run(func(tx *memoryTx) error { return tx.Transactions().Create(ctx, txn) })
}

func (s memTransactions) FindByID(ctx context.Context, id uint) (t *domain.Transaction, err error) {
	err = s.m.run(func(tx *memoryTx) error { t, err = tx.Transactions().FindByID(ctx, id); return err })
	return
}

func (s memTransactions) FindAllByAccount(ctx context.Context, accountID uint) (txns []domain.Transaction, err error) {
	err = s.m.run(func(tx *memoryTx) error {
		txns, err = tx.Transactions().FindAllByAccount(ctx, accountID)
		return err
	})
	return
}

func (s memTransactions) Save(ctx context.Context, txn *domain.Transaction) error {
	return s.m.run(func(tx *memoryTx) error { return tx.Transactions().Save(ctx, txn) })
}
