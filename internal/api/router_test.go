package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"wallet_api/internal/api"
	"wallet_api/internal/domain"
	"wallet_api/internal/ledger"
	"wallet_api/internal/storage"
	"wallet_api/internal/utils"
)

const testSecret = "test-secret"

// testServer wires the real router onto in-memory stores. The Redis client
// points at a closed port; cache lookups fail open and every read falls
// through to the store.
func testServer(t *testing.T) (*gin.Engine, *storage.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := storage.NewMemory()
	engine := ledger.NewEngine(m)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return api.NewRouter(engine, m, rdb, testSecret), m
}

// seedUser creates a user directly in the store and returns a valid token
func seedUser(t *testing.T, m *storage.Memory, email, role string) (*domain.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &domain.User{FirstName: "Test", LastName: "User", Email: email, Password: string(hash), Role: role}
	if err := m.Users().Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	token, err := utils.GenerateJWT(u.ID, u.Email, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return u, token
}

// seedAccount creates an account directly in the store
func seedAccount(t *testing.T, m *storage.Memory, userID uint, currency domain.Currency, balance int64) *domain.Account {
	t.Helper()
	a := &domain.Account{
		UserID:           userID,
		Currency:         currency,
		Balance:          decimal.NewFromInt(balance),
		TransactionLimit: domain.DefaultTransactionLimit(currency),
	}
	if err := m.Accounts().Create(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	return a
}

// do performs a JSON request against the router
func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := testServer(t)

	w := do(t, r, http.MethodPost, "/user", "", gin.H{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com", "password": "password1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}

	// Duplicate registration is rejected
	w = do(t, r, http.MethodPost, "/user", "", gin.H{
		"first_name": "Jane", "last_name": "Doe", "email": "jane@example.com", "password": "password1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register status=%d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/user", "", gin.H{"email": "jane@example.com", "password": "password1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	var auth api.AuthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &auth); err != nil {
		t.Fatal(err)
	}
	if auth.Token == "" {
		t.Fatal("login returned no token")
	}

	w = do(t, r, http.MethodGet, "/user", "", gin.H{"email": "jane@example.com", "password": "wrong-pass"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status=%d", w.Code)
	}
}

func TestAccountRoutes(t *testing.T) {
	r, m := testServer(t)
	_, token := seedUser(t, m, "jane@example.com", domain.RoleUser)

	// No token, no account
	if w := do(t, r, http.MethodPost, "/accounts", "", gin.H{"currency": "ARS"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status=%d", w.Code)
	}

	w := do(t, r, http.MethodPost, "/accounts", token, gin.H{"currency": "ARS"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}

	// One account per currency
	if w := do(t, r, http.MethodPost, "/accounts", token, gin.H{"currency": "ARS"}); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate currency status=%d", w.Code)
	}
	// Unknown currency fails at the boundary
	if w := do(t, r, http.MethodPost, "/accounts", token, gin.H{"currency": "EUR"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad currency status=%d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/accounts", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	var resp struct {
		Accounts []domain.Account `json:"accounts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Accounts) != 1 || resp.Accounts[0].Currency != domain.ARS {
		t.Fatalf("accounts=%+v", resp.Accounts)
	}
	if !resp.Accounts[0].TransactionLimit.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("limit=%s want=300000", resp.Accounts[0].TransactionLimit)
	}
}

func TestTransactionRoutes(t *testing.T) {
	r, m := testServer(t)
	owner, token := seedUser(t, m, "owner@example.com", domain.RoleUser)
	_, otherToken := seedUser(t, m, "other@example.com", domain.RoleUser)
	account := seedAccount(t, m, owner.ID, domain.ARS, 1000)

	w := do(t, r, http.MethodPost, "/transactions", token, gin.H{
		"account_id": account.ID, "type": "PAYMENT", "amount": "300", "description": "rent",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", w.Code, w.Body.String())
	}
	var view ledger.TransactionView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Type != domain.Payment || !view.Amount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("view=%+v", view)
	}

	// Overdraft rejected with the engine's reason
	w = do(t, r, http.MethodPost, "/transactions", token, gin.H{
		"account_id": account.ID, "type": "PAYMENT", "amount": "5000", "description": "too much",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("overdraft status=%d", w.Code)
	}
	var fail struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &fail); err != nil {
		t.Fatal(err)
	}
	if fail.Error != "insufficient funds" {
		t.Fatalf("error=%q", fail.Error)
	}

	// Unknown type fails before reaching the engine
	w = do(t, r, http.MethodPost, "/transactions", token, gin.H{
		"account_id": account.ID, "type": "REFUND", "amount": "10", "description": "x",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad type status=%d", w.Code)
	}

	path := fmt.Sprintf("/transactions/%d", view.ID)

	// Owner reads it back
	if w := do(t, r, http.MethodGet, path, token, nil); w.Code != http.StatusOK {
		t.Fatalf("get status=%d", w.Code)
	}
	// Anyone else is forbidden
	if w := do(t, r, http.MethodGet, path, otherToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign get status=%d", w.Code)
	}
	// Missing id
	if w := do(t, r, http.MethodGet, "/transactions/999", token, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing get status=%d", w.Code)
	}

	// Edit only touches the description
	w = do(t, r, http.MethodPatch, path, token, gin.H{"description": "rent april"})
	if w.Code != http.StatusOK {
		t.Fatalf("edit status=%d body=%s", w.Code, w.Body.String())
	}
	var edited ledger.TransactionView
	if err := json.Unmarshal(w.Body.Bytes(), &edited); err != nil {
		t.Fatal(err)
	}
	if edited.Description != "rent april" || !edited.Amount.Equal(view.Amount) {
		t.Fatalf("edited=%+v", edited)
	}

	// History endpoint: self sees it, strangers do not
	historyPath := fmt.Sprintf("/transactions/user/%d", owner.ID)
	w = do(t, r, http.MethodGet, historyPath, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history status=%d", w.Code)
	}
	if w := do(t, r, http.MethodGet, historyPath, otherToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign history status=%d", w.Code)
	}
}

func TestSendMoneyRoute(t *testing.T) {
	r, m := testServer(t)
	sender, token := seedUser(t, m, "sender@example.com", domain.RoleUser)
	receiver, _ := seedUser(t, m, "receiver@example.com", domain.RoleUser)
	source := seedAccount(t, m, sender.ID, domain.ARS, 1000)
	destination := seedAccount(t, m, receiver.ID, domain.ARS, 10300)

	w := do(t, r, http.MethodPost, "/transactions/send/ARS", token, gin.H{
		"destination_account_id": destination.ID, "amount": "550", "description": "SendArs",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("send status=%d body=%s", w.Code, w.Body.String())
	}
	var view ledger.TransactionView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	// The response is the PAYMENT leg on the sender's account
	if view.Type != domain.Payment || view.AccountID != source.ID || !view.Amount.Equal(decimal.NewFromInt(550)) {
		t.Fatalf("view=%+v", view)
	}

	src, err := m.Accounts().FindByID(context.Background(), source.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !src.Balance.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("source balance=%s want=450", src.Balance)
	}
	dst, err := m.Accounts().FindByID(context.Background(), destination.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !dst.Balance.Equal(decimal.NewFromInt(10850)) {
		t.Fatalf("destination balance=%s want=10850", dst.Balance)
	}

	// Sending in a currency the sender holds no account for
	w = do(t, r, http.MethodPost, "/transactions/send/USD", token, gin.H{
		"destination_account_id": destination.ID, "amount": "10", "description": "SendUsd",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("no source account status=%d", w.Code)
	}
	// Unknown currency segment
	w = do(t, r, http.MethodPost, "/transactions/send/EUR", token, gin.H{
		"destination_account_id": destination.ID, "amount": "10", "description": "SendEur",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad currency status=%d", w.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	r, m := testServer(t)
	user, userToken := seedUser(t, m, "user@example.com", domain.RoleUser)
	_, adminToken := seedUser(t, m, "admin@example.com", domain.RoleAdmin)
	account := seedAccount(t, m, user.ID, domain.ARS, 1000)

	w := do(t, r, http.MethodPost, "/transactions", userToken, gin.H{
		"account_id": account.ID, "type": "INCOME", "amount": "100", "description": "seed",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status=%d", w.Code)
	}

	// Regular users are kept out of the admin group
	if w := do(t, r, http.MethodGet, "/admin/users", userToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("non-admin status=%d", w.Code)
	}

	w = do(t, r, http.MethodGet, "/admin/users", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin users status=%d body=%s", w.Code, w.Body.String())
	}
	var usersResp struct {
		Users []api.UserAdminResponse `json:"users"`
		Total int                     `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &usersResp); err != nil {
		t.Fatal(err)
	}
	if usersResp.Total != 2 || len(usersResp.Users) != 2 {
		t.Fatalf("users=%+v", usersResp)
	}

	// Admin reads another user's history through the engine's role check
	w = do(t, r, http.MethodGet, fmt.Sprintf("/admin/transactions?user_id=%d", user.ID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin transactions status=%d body=%s", w.Code, w.Body.String())
	}
	var txResp struct {
		Transactions []ledger.TransactionView `json:"transactions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &txResp); err != nil {
		t.Fatal(err)
	}
	if len(txResp.Transactions) != 1 {
		t.Fatalf("transactions=%+v", txResp.Transactions)
	}
}
