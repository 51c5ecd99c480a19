package cqrs

// GetTransactionsByUserQuery fetches all transactions owned by a user.
type GetTransactionsByUserQuery struct {
	UserID int
}

// GetTransactionsByAccountQuery fetches all transactions posted against
// an account.
type GetTransactionsByAccountQuery struct {
	AccountID int
}

// GetTransactionsByUserAndVendorQuery fetches a user's transactions for
// one vendor.
type GetTransactionsByUserAndVendorQuery struct {
	UserID     int
	VendorName string
}

// GetTransactionsExcludingIncomeQuery fetches a user's transactions
// with the Income category filtered out. Used by the budget service.
type GetTransactionsExcludingIncomeQuery struct {
	UserID int
}

// GetRecentTransactionsQuery fetches a user's five most recent
// non-Income transactions, newest first.
type GetRecentTransactionsQuery struct {
	UserID int
}

// GetCurrentMonthTransactionsQuery fetches a user's non-Income
// transactions dated in the current calendar month.
type GetCurrentMonthTransactionsQuery struct {
	UserID int
}
