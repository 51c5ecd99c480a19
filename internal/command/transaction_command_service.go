package command

import (
	"context"
	"fmt"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/cqrs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/errs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionWriter defines the write-store operations used by
// TransactionCommandService.
type TransactionWriter interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, transactionID int) (*models.Transaction, error)
	Update(ctx context.Context, transaction *models.Transaction) (bool, error)
	Delete(ctx context.Context, transactionID int) (bool, error)
	DeleteByUser(ctx context.Context, userID int) (int64, error)
}

// RecentViewInvalidator drops the cached recent-transactions view for a
// user after their ledger changes.
type RecentViewInvalidator interface {
	InvalidateRecent(ctx context.Context, userID int)
}

// TransactionCommandService handles all transaction mutations: create
// with fail-fast field validation, sparse-patch updates guarded by an
// ownership check and an optimistic version check, and deletes.
type TransactionCommandService struct {
	writer TransactionWriter
	views  RecentViewInvalidator
}

func NewTransactionCommandService(writer TransactionWriter, views RecentViewInvalidator) *TransactionCommandService {
	return &TransactionCommandService{writer: writer, views: views}
}

// CreateTransaction validates and persists a new transaction. The
// trusted caller identity always overwrites the user id carried in the
// body, so a caller cannot create a transaction under another user.
func (s *TransactionCommandService) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	transaction := cmd.Transaction
	transaction.UserID = cmd.UserID
	transaction.TransactionID = 0
	transaction.Version = 0

	if err := validateTransaction(transaction); err != nil {
		return nil, err
	}

	if err := s.writer.Create(ctx, &transaction); err != nil {
		return nil, err
	}
	s.views.InvalidateRecent(ctx, transaction.UserID)
	return &transaction, nil
}

// UpdateTransaction merges a sparse patch into an existing transaction.
// Only the owner may update; the save is a compare-and-swap on the
// loaded version and reports Conflict when a concurrent writer won.
func (s *TransactionCommandService) UpdateTransaction(ctx context.Context, cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	existing, err := s.writer.GetByID(ctx, cmd.TransactionID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errs.NotFound(fmt.Sprintf("Transaction with ID %d not found", cmd.TransactionID))
	}
	if existing.UserID != cmd.UserID {
		return nil, errs.Forbidden("You are not authorized to modify this transaction")
	}

	merged := cmd.Patch.Apply(*existing)
	swapped, err := s.writer.Update(ctx, &merged)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// The row either changed under us or was deleted; look again to
		// tell the two apart.
		current, err := s.writer.GetByID(ctx, cmd.TransactionID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, errs.NotFound(fmt.Sprintf("Transaction with ID %d not found", cmd.TransactionID))
		}
		return nil, errs.Conflict(fmt.Sprintf("Transaction with ID %d was modified concurrently", cmd.TransactionID))
	}

	s.views.InvalidateRecent(ctx, existing.UserID)
	if merged.UserID != existing.UserID {
		s.views.InvalidateRecent(ctx, merged.UserID)
	}
	return &merged, nil
}

// DeleteTransaction removes a single transaction by id.
func (s *TransactionCommandService) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error {
	existing, err := s.writer.GetByID(ctx, cmd.TransactionID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errs.NotFound(fmt.Sprintf("Transaction with ID %d not found", cmd.TransactionID))
	}
	if _, err := s.writer.Delete(ctx, cmd.TransactionID); err != nil {
		return err
	}
	s.views.InvalidateRecent(ctx, existing.UserID)
	return nil
}

// DeleteUserTransactions bulk-deletes every transaction owned by the
// user, e.g. on account closure. Idempotent: zero rows is success.
func (s *TransactionCommandService) DeleteUserTransactions(ctx context.Context, cmd cqrs.DeleteUserTransactionsCommand) error {
	if _, err := s.writer.DeleteByUser(ctx, cmd.UserID); err != nil {
		return err
	}
	s.views.InvalidateRecent(ctx, cmd.UserID)
	return nil
}

// validateTransaction runs the create-time field checks in a fixed
// order; the first failure wins.
func validateTransaction(transaction models.Transaction) error {
	checks := []struct {
		ok      bool
		message string
	}{
		{transaction.AccountID > 0, "Account ID is required"},
		{transaction.UserID > 0, "User ID is required"},
		{transaction.VendorName != "", "Vendor name is required"},
		{transaction.Amount.GreaterThan(decimal.Zero), "Amount is required"},
		{transaction.Category != "" && transaction.Category.Valid(), "Category is required"},
		{!transaction.Date.IsZero(), "Date is required"},
	}
	for _, check := range checks {
		if !check.ok {
			return errs.InvalidInput(check.message)
		}
	}
	return nil
}
