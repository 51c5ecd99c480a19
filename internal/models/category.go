package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is the closed set of transaction categories. The internal
// token is the underscored uppercase form stored in Postgres; the wire
// form is the spaced display name ("Living Expenses").
type Category string

const (
	CategoryGroceries      Category = "GROCERIES"
	CategoryEntertainment  Category = "ENTERTAINMENT"
	CategoryDining         Category = "DINING"
	CategoryTransportation Category = "TRANSPORTATION"
	CategoryHealthcare     Category = "HEALTHCARE"
	CategoryLivingExpenses Category = "LIVING_EXPENSES"
	CategoryShopping       Category = "SHOPPING"
	CategoryIncome         Category = "INCOME"
	CategoryMisc           Category = "MISC"
)

// categoryDisplayNames is the single source of truth for both
// directions of the token <-> display-name conversion.
var categoryDisplayNames = map[Category]string{
	CategoryGroceries:      "Groceries",
	CategoryEntertainment:  "Entertainment",
	CategoryDining:         "Dining",
	CategoryTransportation: "Transportation",
	CategoryHealthcare:     "Healthcare",
	CategoryLivingExpenses: "Living Expenses",
	CategoryShopping:       "Shopping",
	CategoryIncome:         "Income",
	CategoryMisc:           "Misc",
}

var categoryTokens = func() map[string]Category {
	tokens := make(map[string]Category, len(categoryDisplayNames))
	for c := range categoryDisplayNames {
		tokens[string(c)] = c
	}
	return tokens
}()

func init() {
	// A category added to the const block but not the table would
	// serialize as an empty string; fail loudly at startup instead.
	for _, c := range Categories() {
		if _, ok := categoryDisplayNames[c]; !ok {
			panic(fmt.Sprintf("models: category %q has no display name", string(c)))
		}
	}
}

// Categories returns every defined category.
func Categories() []Category {
	return []Category{
		CategoryGroceries,
		CategoryEntertainment,
		CategoryDining,
		CategoryTransportation,
		CategoryHealthcare,
		CategoryLivingExpenses,
		CategoryShopping,
		CategoryIncome,
		CategoryMisc,
	}
}

// ParseCategory converts either form (display name or internal token)
// into a Category. Matching is case-insensitive and treats spaces and
// underscores as equivalent.
func ParseCategory(s string) (Category, error) {
	token := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	if c, ok := categoryTokens[token]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown transaction category %q", s)
}

// Display returns the human-readable spaced form.
func (c Category) Display() string {
	return categoryDisplayNames[c]
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	_, ok := categoryDisplayNames[c]
	return ok
}

// MarshalJSON emits the display name, e.g. "Living Expenses".
func (c Category) MarshalJSON() ([]byte, error) {
	display, ok := categoryDisplayNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown transaction category %q", string(c))
	}
	return json.Marshal(display)
}

// UnmarshalJSON accepts the display name (or the internal token).
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
