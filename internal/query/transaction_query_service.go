package query

import (
	"context"
	"fmt"
	"time"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/cqrs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/errs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
)

// TransactionReader defines the read-store operations used by
// TransactionQueryService.
type TransactionReader interface {
	ListByUser(ctx context.Context, userID int) ([]models.Transaction, error)
	ListByAccount(ctx context.Context, accountID int) ([]models.Transaction, error)
	ListByUserAndVendor(ctx context.Context, userID int, vendorName string) ([]models.Transaction, error)
	ListByUserExcludingIncome(ctx context.Context, userID int) ([]models.Transaction, error)
	ListRecent(ctx context.Context, userID int) ([]models.Transaction, error)
	ListByMonth(ctx context.Context, userID int, month time.Month, year int) ([]models.Transaction, error)
}

// TransactionQueryService serves all transaction reads. A query that
// matches no rows is reported as a NotFound error naming the lookup
// key; callers never receive a silent empty collection.
type TransactionQueryService struct {
	reader TransactionReader
	now    func() time.Time
}

func NewTransactionQueryService(reader TransactionReader) *TransactionQueryService {
	return &TransactionQueryService{reader: reader, now: time.Now}
}

func (s *TransactionQueryService) GetTransactionsByUser(ctx context.Context, q cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error) {
	transactions, err := s.reader.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, errs.NotFound(fmt.Sprintf("Transactions for user ID %d not found", q.UserID))
	}
	return transactions, nil
}

func (s *TransactionQueryService) GetTransactionsByAccount(ctx context.Context, q cqrs.GetTransactionsByAccountQuery) ([]models.Transaction, error) {
	transactions, err := s.reader.ListByAccount(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, errs.NotFound(fmt.Sprintf("Transactions for account ID %d not found", q.AccountID))
	}
	return transactions, nil
}

func (s *TransactionQueryService) GetTransactionsByUserAndVendor(ctx context.Context, q cqrs.GetTransactionsByUserAndVendorQuery) ([]models.Transaction, error) {
	transactions, err := s.reader.ListByUserAndVendor(ctx, q.UserID, q.VendorName)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, errs.NotFound(fmt.Sprintf("Transactions for user ID %d and vendor %s not found", q.UserID, q.VendorName))
	}
	return transactions, nil
}

// GetTransactionsExcludingIncome serves the budget service's
// expenditure view: everything for the user except Income rows.
func (s *TransactionQueryService) GetTransactionsExcludingIncome(ctx context.Context, q cqrs.GetTransactionsExcludingIncomeQuery) ([]models.Transaction, error) {
	transactions, err := s.reader.ListByUserExcludingIncome(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, errs.NotFound(fmt.Sprintf("Transactions for user ID %d not found", q.UserID))
	}
	return transactions, nil
}

func (s *TransactionQueryService) GetRecentTransactions(ctx context.Context, q cqrs.GetRecentTransactionsQuery) ([]models.Transaction, error) {
	transactions, err := s.reader.ListRecent(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, errs.NotFound(fmt.Sprintf("Unable to find most recent transactions for user ID %d", q.UserID))
	}
	return transactions, nil
}

// GetCurrentMonthTransactions resolves the month and year from the
// service wall clock at the moment of the call, so results shift at
// month boundaries.
func (s *TransactionQueryService) GetCurrentMonthTransactions(ctx context.Context, q cqrs.GetCurrentMonthTransactionsQuery) ([]models.Transaction, error) {
	now := s.now()
	transactions, err := s.reader.ListByMonth(ctx, q.UserID, now.Month(), now.Year())
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, errs.NotFound(fmt.Sprintf("Transactions for user ID %d not found for the current month", q.UserID))
	}
	return transactions, nil
}
