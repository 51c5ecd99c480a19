package cqrs

import "github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"

// CreateTransactionCommand creates a transaction for UserID. UserID is
// the trusted caller identity and always overrides any user id carried
// in the transaction body.
type CreateTransactionCommand struct {
	UserID      int
	Transaction models.Transaction
}

// UpdateTransactionCommand applies a sparse patch to an existing
// transaction, subject to an ownership check against UserID.
type UpdateTransactionCommand struct {
	TransactionID int
	UserID        int
	Patch         models.TransactionPatch
}

// DeleteTransactionCommand deletes a single transaction by id.
type DeleteTransactionCommand struct {
	TransactionID int
}

// DeleteUserTransactionsCommand bulk-deletes every transaction owned by
// UserID. Deleting a user with zero transactions is not an error.
type DeleteUserTransactionsCommand struct {
	UserID int
}
