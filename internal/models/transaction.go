package models

import "github.com/shopspring/decimal"

// Transaction is a single ledger entry owned by one user and posted
// against one of their accounts. TransactionID and Version are assigned
// by the store; Version advances on every successful update and backs
// the optimistic concurrency check.
type Transaction struct {
	TransactionID int             `json:"transactionId"`
	UserID        int             `json:"userId"`
	AccountID     int             `json:"accountId"`
	VendorName    string          `json:"vendorName"`
	Amount        decimal.Decimal `json:"amount"`
	Category      Category        `json:"category"`
	Description   string          `json:"description,omitempty"`
	Date          Date            `json:"date"`
	Version       int             `json:"version"`
}

// TransactionPatch is a sparse update. nil fields leave the stored
// value untouched; non-nil fields overwrite it, including explicit
// zero/empty values. This makes "absent" and "cleared" distinguishable,
// which an in-band zero sentinel cannot.
type TransactionPatch struct {
	UserID      *int             `json:"userId,omitempty"`
	AccountID   *int             `json:"accountId,omitempty"`
	VendorName  *string          `json:"vendorName,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *Category        `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Date        *Date            `json:"date,omitempty"`
}

// Apply merges the patch into existing and returns the result.
// TransactionID and Version are never patched; Version is advanced by
// the store's compare-and-swap, not here.
func (p TransactionPatch) Apply(existing Transaction) Transaction {
	merged := existing
	if p.UserID != nil {
		merged.UserID = *p.UserID
	}
	if p.AccountID != nil {
		merged.AccountID = *p.AccountID
	}
	if p.VendorName != nil {
		merged.VendorName = *p.VendorName
	}
	if p.Amount != nil {
		merged.Amount = *p.Amount
	}
	if p.Category != nil {
		merged.Category = *p.Category
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Date != nil {
		merged.Date = *p.Date
	}
	return merged
}
