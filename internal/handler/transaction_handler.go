package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/cqrs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/errs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/middleware"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionCommander defines the write-side operations used by
// TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error
	DeleteUserTransactions(ctx context.Context, cmd cqrs.DeleteUserTransactionsCommand) error
}

// TransactionQuerier defines the read-side operations used by
// TransactionHandler.
type TransactionQuerier interface {
	GetTransactionsByUser(ctx context.Context, q cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error)
	GetTransactionsByAccount(ctx context.Context, q cqrs.GetTransactionsByAccountQuery) ([]models.Transaction, error)
	GetTransactionsByUserAndVendor(ctx context.Context, q cqrs.GetTransactionsByUserAndVendorQuery) ([]models.Transaction, error)
	GetTransactionsExcludingIncome(ctx context.Context, q cqrs.GetTransactionsExcludingIncomeQuery) ([]models.Transaction, error)
	GetRecentTransactions(ctx context.Context, q cqrs.GetRecentTransactionsQuery) ([]models.Transaction, error)
	GetCurrentMonthTransactions(ctx context.Context, q cqrs.GetCurrentMonthTransactionsQuery) ([]models.Transaction, error)
}

type TransactionHandler struct {
	commands TransactionCommander
	queries  TransactionQuerier
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries}
}

// RegisterRoutes mounts the public, identity-checked transaction routes
// and the unauthenticated service-to-service routes.
func (h *TransactionHandler) RegisterRoutes(router *gin.Engine) {
	public := router.Group("/transactions", middleware.AuthMiddleware())
	{
		public.GET("/user/:userId", h.GetTransactionsByUser)
		public.GET("/recentTransactions/:userId", h.GetRecentTransactions)
		public.GET("/currentMonthTransactions/:userId", h.GetCurrentMonthTransactions)
		public.GET("/user/:userId/vendor/:vendorName", h.GetTransactionsByUserAndVendor)
		public.POST("/user/:userId/createTransaction", h.CreateTransaction)
		public.PUT("/user/:userId/updateTransaction/:transactionId", h.UpdateTransaction)
		public.DELETE("/user/:userId/deleteTransaction/:transactionId", h.DeleteTransaction)
	}

	private := router.Group("/transactionsPrivate")
	{
		private.GET("/user/:userId", h.GetTransactionsByUserPrivate)
		private.GET("/budget/:userId", h.GetTransactionsExcludingIncome)
		private.GET("/account/:accountId", h.GetTransactionsByAccount)
		private.DELETE("/deleteTransaction/user/:userId", h.DeleteUserTransactions)
	}
}

type CreateTransactionRequest struct {
	AccountID   int             `json:"accountId" validate:"required,gt=0"`
	VendorName  string          `json:"vendorName" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    models.Category `json:"category" validate:"required"`
	Description string          `json:"description"`
	Date        models.Date     `json:"date"`
}

func (h *TransactionHandler) GetTransactionsByUser(c *gin.Context) {
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}
	transactions, err := h.queries.GetTransactionsByUser(c.Request.Context(), cqrs.GetTransactionsByUserQuery{UserID: userID})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetRecentTransactions(c *gin.Context) {
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}
	transactions, err := h.queries.GetRecentTransactions(c.Request.Context(), cqrs.GetRecentTransactionsQuery{UserID: userID})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get recent transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetCurrentMonthTransactions(c *gin.Context) {
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}
	transactions, err := h.queries.GetCurrentMonthTransactions(c.Request.Context(), cqrs.GetCurrentMonthTransactionsQuery{UserID: userID})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get current month transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetTransactionsByUserAndVendor(c *gin.Context) {
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}
	transactions, err := h.queries.GetTransactionsByUserAndVendor(c.Request.Context(), cqrs.GetTransactionsByUserAndVendorQuery{
		UserID:     userID,
		VendorName: c.Param("vendorName"),
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	// The trusted identity is the authenticated caller, never the body.
	callerID, _ := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transaction, err := h.commands.CreateTransaction(c.Request.Context(), cqrs.CreateTransactionCommand{
		UserID: callerID,
		Transaction: models.Transaction{
			AccountID:   req.AccountID,
			VendorName:  req.VendorName,
			Amount:      req.Amount,
			Category:    req.Category,
			Description: req.Description,
			Date:        req.Date,
		},
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create transaction")
		return
	}
	c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	callerID, _ := middleware.GetUserID(c)
	transactionID, ok := pathInt(c, "transactionId")
	if !ok {
		return
	}

	var patch models.TransactionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := h.commands.UpdateTransaction(c.Request.Context(), cqrs.UpdateTransactionCommand{
		TransactionID: transactionID,
		UserID:        callerID,
		Patch:         patch,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to update transaction")
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	transactionID, ok := pathInt(c, "transactionId")
	if !ok {
		return
	}
	if err := h.commands.DeleteTransaction(c.Request.Context(), cqrs.DeleteTransactionCommand{TransactionID: transactionID}); err != nil {
		respondWithServiceError(c, err, "Failed to delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetTransactionsByUserPrivate serves other services that already hold
// a validated user id; no identity header is required on this surface.
func (h *TransactionHandler) GetTransactionsByUserPrivate(c *gin.Context) {
	h.GetTransactionsByUser(c)
}

func (h *TransactionHandler) GetTransactionsExcludingIncome(c *gin.Context) {
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}
	transactions, err := h.queries.GetTransactionsExcludingIncome(c.Request.Context(), cqrs.GetTransactionsExcludingIncomeQuery{UserID: userID})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) GetTransactionsByAccount(c *gin.Context) {
	accountID, ok := pathInt(c, "accountId")
	if !ok {
		return
	}
	transactions, err := h.queries.GetTransactionsByAccount(c.Request.Context(), cqrs.GetTransactionsByAccountQuery{AccountID: accountID})
	if err != nil {
		respondWithServiceError(c, err, "Failed to get transactions")
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *TransactionHandler) DeleteUserTransactions(c *gin.Context) {
	userID, ok := pathInt(c, "userId")
	if !ok {
		return
	}
	if err := h.commands.DeleteUserTransactions(c.Request.Context(), cqrs.DeleteUserTransactionsCommand{UserID: userID}); err != nil {
		respondWithServiceError(c, err, "Failed to delete transactions")
		return
	}
	c.Status(http.StatusNoContent)
}

func pathInt(c *gin.Context, name string) (int, bool) {
	value, err := strconv.Atoi(c.Param(name))
	if err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return value, true
}

// respondWithServiceError maps the service error taxonomy onto HTTP
// status codes; anything unrecognized is a 500 with a generic message.
func respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errs.IsNotFound(err):
		middleware.RespondWithError(c, http.StatusNotFound, err.Error())
	case errs.IsInvalidInput(err):
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errs.IsUnauthorized(err):
		middleware.RespondWithError(c, http.StatusUnauthorized, err.Error())
	case errs.IsForbidden(err):
		middleware.RespondWithError(c, http.StatusForbidden, err.Error())
	case errs.IsConflict(err):
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}
