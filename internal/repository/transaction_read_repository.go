package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
	sharedredis "github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	recentKeyPrefix = "transactions:recent:"
	recentCacheTTL  = time.Minute
	recentLimit     = 5
)

const transactionColumns = `transaction_id, user_id, account_id, vendor_name, amount, category, description, transaction_date, version`

// TransactionReadRepository handles all read operations for
// transactions. The hot recent-transactions view is served through a
// short-lived Redis cache; everything else reads PostgreSQL directly.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[[]models.Transaction]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client, log *logrus.Logger) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[[]models.Transaction](redisClient, recentCacheTTL, log),
	}
}

// ListByUser returns all transactions owned by userID.
func (r *TransactionReadRepository) ListByUser(ctx context.Context, userID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	return r.list(ctx, query, userID)
}

// ListByAccount returns all transactions posted against accountID.
func (r *TransactionReadRepository) ListByAccount(ctx context.Context, accountID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1`
	return r.list(ctx, query, accountID)
}

// ListByUserAndVendor returns userID's transactions for one vendor.
func (r *TransactionReadRepository) ListByUserAndVendor(ctx context.Context, userID int, vendorName string) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND vendor_name = $2`
	return r.list(ctx, query, userID, vendorName)
}

// ListByUserExcludingIncome returns userID's transactions with the
// Income category filtered out.
func (r *TransactionReadRepository) ListByUserExcludingIncome(ctx context.Context, userID int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND category <> $2`
	return r.list(ctx, query, userID, string(models.CategoryIncome))
}

// ListRecent returns userID's five most recent non-Income transactions,
// newest first. Date ties fall to row order. Results are cached briefly
// in Redis; every write for the user invalidates the entry.
func (r *TransactionReadRepository) ListRecent(ctx context.Context, userID int) ([]models.Transaction, error) {
	cacheKey := recentCacheKey(userID)
	if cached, ok := r.cache.Get(ctx, cacheKey); ok {
		return *cached, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND category <> $2
		ORDER BY transaction_date DESC
		LIMIT $3
	`
	transactions, err := r.list(ctx, query, userID, string(models.CategoryIncome), recentLimit)
	if err != nil {
		return nil, err
	}
	if len(transactions) > 0 {
		r.cache.Set(ctx, cacheKey, &transactions)
	}
	return transactions, nil
}

// ListByMonth returns userID's non-Income transactions dated in the
// given month and year.
func (r *TransactionReadRepository) ListByMonth(ctx context.Context, userID int, month time.Month, year int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND category <> $2
		  AND EXTRACT(MONTH FROM transaction_date) = $3
		  AND EXTRACT(YEAR FROM transaction_date) = $4
	`
	return r.list(ctx, query, userID, string(models.CategoryIncome), int(month), year)
}

// InvalidateRecent drops the cached recent view for userID. Called by
// the command service after every write touching the user's ledger.
func (r *TransactionReadRepository) InvalidateRecent(ctx context.Context, userID int) {
	r.cache.Delete(ctx, recentCacheKey(userID))
}

func recentCacheKey(userID int) string {
	return fmt.Sprintf("%s%d", recentKeyPrefix, userID)
}

func (r *TransactionReadRepository) list(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var transaction models.Transaction
	var category string
	var description sql.NullString

	err := row.Scan(
		&transaction.TransactionID, &transaction.UserID, &transaction.AccountID,
		&transaction.VendorName, &transaction.Amount, &category,
		&description, &transaction.Date, &transaction.Version,
	)
	if err != nil {
		return nil, err
	}
	transaction.Category = models.Category(category)
	if description.Valid {
		transaction.Description = description.String
	}
	return &transaction, nil
}
