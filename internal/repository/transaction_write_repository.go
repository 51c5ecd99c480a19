package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions against the PostgreSQL store (source of truth).
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Create inserts the transaction and fills in the store-assigned id and
// initial version.
func (r *TransactionWriteRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, account_id, vendor_name, amount, category, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING transaction_id, version
	`
	err := r.db.QueryRowContext(ctx, query,
		transaction.UserID, transaction.AccountID, transaction.VendorName,
		transaction.Amount, string(transaction.Category),
		nullString(transaction.Description), transaction.Date,
	).Scan(&transaction.TransactionID, &transaction.Version)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID returns the authoritative row for a transaction, or
// (nil, nil) when no such transaction exists.
func (r *TransactionWriteRepository) GetByID(ctx context.Context, transactionID int) (*models.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, account_id, vendor_name, amount, category, description, transaction_date, version
		FROM transactions
		WHERE transaction_id = $1
	`
	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, query, transactionID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return transaction, nil
}

// Update persists the merged record with a compare-and-swap on the
// version the caller loaded. Returns false without modifying anything
// when the row has since changed or disappeared; on success the
// transaction's Version is advanced to the stored value.
func (r *TransactionWriteRepository) Update(ctx context.Context, transaction *models.Transaction) (bool, error) {
	query := `
		UPDATE transactions
		SET user_id = $1, account_id = $2, vendor_name = $3, amount = $4,
		    category = $5, description = $6, transaction_date = $7, version = version + 1
		WHERE transaction_id = $8 AND version = $9
		RETURNING version
	`
	err := r.db.QueryRowContext(ctx, query,
		transaction.UserID, transaction.AccountID, transaction.VendorName,
		transaction.Amount, string(transaction.Category),
		nullString(transaction.Description), transaction.Date,
		transaction.TransactionID, transaction.Version,
	).Scan(&transaction.Version)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}
	return true, nil
}

// Delete removes a transaction by id, reporting whether a row existed.
func (r *TransactionWriteRepository) Delete(ctx context.Context, transactionID int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = $1`, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return affected > 0, nil
}

// DeleteByUser removes every transaction owned by userID and returns
// the number of rows deleted. Zero rows is not an error.
func (r *TransactionWriteRepository) DeleteByUser(ctx context.Context, userID int) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for user: %w", err)
	}
	return affected, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
