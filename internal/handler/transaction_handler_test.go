package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/cqrs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/errs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// ---- mock implementations ----

type mockCommander struct {
	createFn        func(context.Context, cqrs.CreateTransactionCommand) (*models.Transaction, error)
	updateFn        func(context.Context, cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	deleteFn        func(context.Context, cqrs.DeleteTransactionCommand) error
	deleteForUserFn func(context.Context, cqrs.DeleteUserTransactionsCommand) error
}

func (m *mockCommander) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(ctx, cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockCommander) UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, cmd)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockCommander) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, cmd)
	}
	return fmt.Errorf("not configured")
}

func (m *mockCommander) DeleteUserTransactions(ctx context.Context, cmd cqrs.DeleteUserTransactionsCommand) error {
	if m.deleteForUserFn != nil {
		return m.deleteForUserFn(ctx, cmd)
	}
	return fmt.Errorf("not configured")
}

type mockQuerier struct {
	byUserFn          func(context.Context, cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error)
	byAccountFn       func(context.Context, cqrs.GetTransactionsByAccountQuery) ([]models.Transaction, error)
	byUserAndVendorFn func(context.Context, cqrs.GetTransactionsByUserAndVendorQuery) ([]models.Transaction, error)
	excludingIncomeFn func(context.Context, cqrs.GetTransactionsExcludingIncomeQuery) ([]models.Transaction, error)
	recentFn          func(context.Context, cqrs.GetRecentTransactionsQuery) ([]models.Transaction, error)
	currentMonthFn    func(context.Context, cqrs.GetCurrentMonthTransactionsQuery) ([]models.Transaction, error)
}

func (m *mockQuerier) GetTransactionsByUser(ctx context.Context, q cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error) {
	if m.byUserFn != nil {
		return m.byUserFn(ctx, q)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockQuerier) GetTransactionsByAccount(ctx context.Context, q cqrs.GetTransactionsByAccountQuery) ([]models.Transaction, error) {
	if m.byAccountFn != nil {
		return m.byAccountFn(ctx, q)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockQuerier) GetTransactionsByUserAndVendor(ctx context.Context, q cqrs.GetTransactionsByUserAndVendorQuery) ([]models.Transaction, error) {
	if m.byUserAndVendorFn != nil {
		return m.byUserAndVendorFn(ctx, q)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockQuerier) GetTransactionsExcludingIncome(ctx context.Context, q cqrs.GetTransactionsExcludingIncomeQuery) ([]models.Transaction, error) {
	if m.excludingIncomeFn != nil {
		return m.excludingIncomeFn(ctx, q)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockQuerier) GetRecentTransactions(ctx context.Context, q cqrs.GetRecentTransactionsQuery) ([]models.Transaction, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, q)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockQuerier) GetCurrentMonthTransactions(ctx context.Context, q cqrs.GetCurrentMonthTransactionsQuery) ([]models.Transaction, error) {
	if m.currentMonthFn != nil {
		return m.currentMonthFn(ctx, q)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func newTestRouter(cmds TransactionCommander, qrys TransactionQuerier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewTransactionHandler(cmds, qrys).RegisterRoutes(r)
	return r
}

func doRequest(router *gin.Engine, method, url, userIDHeader string, body any) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	if userIDHeader != "" {
		req.Header.Set("User-ID", userIDHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testTransaction = &models.Transaction{
	TransactionID: 12, UserID: 7, AccountID: 3,
	VendorName: "Kroger", Amount: decimal.RequireFromString("42.50"),
	Category: models.CategoryGroceries, Date: models.NewDate(2025, time.June, 1),
	Version: 1,
}

func createBody() map[string]any {
	return map[string]any{
		"accountId":  3,
		"vendorName": "Kroger",
		"amount":     "42.50",
		"category":   "Groceries",
		"date":       "2025-06-01",
	}
}

// ---- tests ----

func TestGetTransactionsByUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		userIDHeader   string
		byUserFn       func(context.Context, cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error)
		expectedStatus int
	}{
		{
			name:         "success",
			url:          "/transactions/user/7",
			userIDHeader: "7",
			byUserFn: func(_ context.Context, q cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error) {
				return []models.Transaction{*testTransaction}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:         "no transactions",
			url:          "/transactions/user/8",
			userIDHeader: "8",
			byUserFn: func(_ context.Context, _ cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error) {
				return nil, errs.NotFound("Transactions for user ID 8 not found")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing identity header",
			url:            "/transactions/user/7",
			userIDHeader:   "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "non-integer identity header",
			url:            "/transactions/user/7",
			userIDHeader:   "seven",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{}, &mockQuerier{byUserFn: tt.byUserFn})
			w := doRequest(router, http.MethodGet, tt.url, tt.userIDHeader, nil)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCreateTransactionHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		createFn       func(context.Context, cqrs.CreateTransactionCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "created",
			body: createBody(),
			createFn: func(_ context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "invalid input from service",
			body: func() map[string]any {
				b := createBody()
				b["amount"] = "0"
				return b
			}(),
			createFn: func(_ context.Context, _ cqrs.CreateTransactionCommand) (*models.Transaction, error) {
				return nil, errs.InvalidInput("Amount is required")
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown category rejected at binding",
			body:           func() map[string]any { b := createBody(); b["category"] = "Rent"; return b }(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing account id rejected by validator",
			body:           func() map[string]any { b := createBody(); delete(b, "accountId"); return b }(),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{createFn: tt.createFn}, &mockQuerier{})
			w := doRequest(router, http.MethodPost, "/transactions/user/7/createTransaction", "7", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestCreateTransactionHandlerUsesHeaderIdentity(t *testing.T) {
	var gotUserID int
	commander := &mockCommander{
		createFn: func(_ context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
			gotUserID = cmd.UserID
			return testTransaction, nil
		},
	}
	router := newTestRouter(commander, &mockQuerier{})

	body := createBody()
	body["userId"] = 999 // ignored: not part of the request DTO

	w := doRequest(router, http.MethodPost, "/transactions/user/7/createTransaction", "7", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 7, gotUserID)
}

func TestUpdateTransactionHandler(t *testing.T) {
	tests := []struct {
		name           string
		updateFn       func(context.Context, cqrs.UpdateTransactionCommand) (*models.Transaction, error)
		expectedStatus int
	}{
		{
			name: "updated",
			updateFn: func(_ context.Context, cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not owner",
			updateFn: func(_ context.Context, _ cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
				return nil, errs.Forbidden("You are not authorized to modify this transaction")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "missing transaction",
			updateFn: func(_ context.Context, _ cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
				return nil, errs.NotFound("Transaction with ID 12 not found")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "concurrent modification",
			updateFn: func(_ context.Context, _ cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
				return nil, errs.Conflict("Transaction with ID 12 was modified concurrently")
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockCommander{updateFn: tt.updateFn}, &mockQuerier{})
			w := doRequest(router, http.MethodPut, "/transactions/user/7/updateTransaction/12", "7", map[string]any{"vendorName": "Publix"})
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestUpdateTransactionHandlerPassesSparsePatch(t *testing.T) {
	var gotCmd cqrs.UpdateTransactionCommand
	commander := &mockCommander{
		updateFn: func(_ context.Context, cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
			gotCmd = cmd
			return testTransaction, nil
		},
	}
	router := newTestRouter(commander, &mockQuerier{})

	w := doRequest(router, http.MethodPut, "/transactions/user/7/updateTransaction/12", "7", map[string]any{"vendorName": "Publix"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12, gotCmd.TransactionID)
	assert.Equal(t, 7, gotCmd.UserID)
	if assert.NotNil(t, gotCmd.Patch.VendorName) {
		assert.Equal(t, "Publix", *gotCmd.Patch.VendorName)
	}
	assert.Nil(t, gotCmd.Patch.Amount)
	assert.Nil(t, gotCmd.Patch.Category)
	assert.Nil(t, gotCmd.Patch.Date)
	assert.Nil(t, gotCmd.Patch.Description)
}

func TestDeleteTransactionHandler(t *testing.T) {
	commander := &mockCommander{
		deleteFn: func(_ context.Context, cmd cqrs.DeleteTransactionCommand) error {
			assert.Equal(t, 12, cmd.TransactionID)
			return nil
		},
	}
	router := newTestRouter(commander, &mockQuerier{})

	w := doRequest(router, http.MethodDelete, "/transactions/user/7/deleteTransaction/12", "7", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPrivateRoutesSkipIdentityHeader(t *testing.T) {
	querier := &mockQuerier{
		byUserFn: func(_ context.Context, q cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error) {
			return []models.Transaction{*testTransaction}, nil
		},
		excludingIncomeFn: func(_ context.Context, q cqrs.GetTransactionsExcludingIncomeQuery) ([]models.Transaction, error) {
			return []models.Transaction{*testTransaction}, nil
		},
		byAccountFn: func(_ context.Context, q cqrs.GetTransactionsByAccountQuery) ([]models.Transaction, error) {
			return []models.Transaction{*testTransaction}, nil
		},
	}
	commander := &mockCommander{
		deleteForUserFn: func(_ context.Context, cmd cqrs.DeleteUserTransactionsCommand) error { return nil },
	}
	router := newTestRouter(commander, querier)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/transactionsPrivate/user/7", "", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/transactionsPrivate/budget/7", "", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/transactionsPrivate/account/3", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, doRequest(router, http.MethodDelete, "/transactionsPrivate/deleteTransaction/user/7", "", nil).Code)
}

func TestCategorySerializedInDisplayForm(t *testing.T) {
	querier := &mockQuerier{
		byUserFn: func(_ context.Context, _ cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error) {
			tx := *testTransaction
			tx.Category = models.CategoryLivingExpenses
			return []models.Transaction{tx}, nil
		},
	}
	router := newTestRouter(&mockCommander{}, querier)

	w := doRequest(router, http.MethodGet, "/transactions/user/7", "7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Living Expenses"`)
}
