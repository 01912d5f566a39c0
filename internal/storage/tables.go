package storage

import (
	"fmt"

	"github.com/kobonk/expenses-tracker/internal/expense"
)

// Table mapping keys. Every provider, retriever and persister is bound to
// one mapping; the mapping names the physical tables so tests can point
// the same statements at a scratch schema.
const (
	TableExpenses    = "expenses"
	TableCategories  = "categories"
	TableTags        = "tags"
	TableExpenseTags = "expense_tags"
	TableShops       = "shops"
	TableSuggestions = "suggestions"
)

// Tables maps logical table keys to physical table names.
type Tables map[string]string

// DefaultTables returns the mapping matching the shipped migrations.
func DefaultTables() Tables {
	return Tables{
		TableExpenses:    "expenses",
		TableCategories:  "categories",
		TableTags:        "tags",
		TableExpenseTags: "expense_tags",
		TableShops:       "shops",
		TableSuggestions: "suggestions",
	}
}

// Validate checks that the mapping exists and carries a non-empty name
// for each of the given keys.
func (t Tables) Validate(keys ...string) error {
	if len(t) == 0 {
		return fmt.Errorf("%w: database tables must be provided", expense.ErrInvalidArgument)
	}
	for _, key := range keys {
		if t[key] == "" {
			return fmt.Errorf("%w: database tables must have a non-empty %q key", expense.ErrInvalidArgument, key)
		}
	}
	return nil
}
