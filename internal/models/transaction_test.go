package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func baseTransaction() Transaction {
	return Transaction{
		TransactionID: 12,
		UserID:        7,
		AccountID:     3,
		VendorName:    "Kroger",
		Amount:        decimal.RequireFromString("42.50"),
		Category:      CategoryGroceries,
		Description:   "weekly shop",
		Date:          NewDate(2025, time.June, 1),
		Version:       2,
	}
}

func TestPatchApplySparse(t *testing.T) {
	existing := baseTransaction()
	vendor := "Publix"

	merged := TransactionPatch{VendorName: &vendor}.Apply(existing)

	assert.Equal(t, "Publix", merged.VendorName)
	assert.Equal(t, existing.UserID, merged.UserID)
	assert.Equal(t, existing.AccountID, merged.AccountID)
	assert.True(t, existing.Amount.Equal(merged.Amount))
	assert.Equal(t, existing.Category, merged.Category)
	assert.Equal(t, existing.Description, merged.Description)
	assert.Equal(t, existing.Date, merged.Date)
	assert.Equal(t, existing.TransactionID, merged.TransactionID)
	assert.Equal(t, existing.Version, merged.Version)
}

func TestPatchApplyEmptyPatchChangesNothing(t *testing.T) {
	existing := baseTransaction()
	merged := TransactionPatch{}.Apply(existing)
	assert.Equal(t, existing, merged)
}

func TestPatchApplyExplicitClearDescription(t *testing.T) {
	existing := baseTransaction()
	empty := ""

	merged := TransactionPatch{Description: &empty}.Apply(existing)

	assert.Equal(t, "", merged.Description)
	assert.Equal(t, existing.VendorName, merged.VendorName)
}

func TestPatchApplyAllFields(t *testing.T) {
	existing := baseTransaction()
	userID, accountID := 8, 4
	vendor, description := "Target", "gift"
	amount := decimal.RequireFromString("9.99")
	category := CategoryShopping
	date := NewDate(2025, time.July, 4)

	merged := TransactionPatch{
		UserID:      &userID,
		AccountID:   &accountID,
		VendorName:  &vendor,
		Amount:      &amount,
		Category:    &category,
		Description: &description,
		Date:        &date,
	}.Apply(existing)

	assert.Equal(t, 8, merged.UserID)
	assert.Equal(t, 4, merged.AccountID)
	assert.Equal(t, "Target", merged.VendorName)
	assert.True(t, amount.Equal(merged.Amount))
	assert.Equal(t, CategoryShopping, merged.Category)
	assert.Equal(t, "gift", merged.Description)
	assert.Equal(t, date, merged.Date)
	assert.Equal(t, existing.TransactionID, merged.TransactionID)
	assert.Equal(t, existing.Version, merged.Version)
}

func TestDateJSON(t *testing.T) {
	date := NewDate(2025, time.June, 1)

	data, err := json.Marshal(date)
	assert.NoError(t, err)
	assert.Equal(t, `"2025-06-01"`, string(data))

	var parsed Date
	assert.NoError(t, json.Unmarshal([]byte(`"2025-06-01"`), &parsed))
	assert.Equal(t, date, parsed)

	assert.Error(t, json.Unmarshal([]byte(`"June 1"`), &parsed))
}

func TestTransactionWireShape(t *testing.T) {
	data, err := json.Marshal(baseTransaction())
	assert.NoError(t, err)

	var fields map[string]any
	assert.NoError(t, json.Unmarshal(data, &fields))
	for _, name := range []string{"transactionId", "userId", "accountId", "vendorName", "amount", "category", "description", "date", "version"} {
		assert.Contains(t, fields, name)
	}
	assert.Equal(t, "Groceries", fields["category"])
	assert.Equal(t, "2025-06-01", fields["date"])
}
