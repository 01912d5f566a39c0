package backend

import (
	"context"

	"github.com/kobonk/expenses-tracker/internal/expense"
	"github.com/kobonk/expenses-tracker/internal/storage"
)

// Retriever reads expenses and related records from one backing engine.
type Retriever interface {
	RetrieveExpense(ctx context.Context, id string) (*expense.Expense, error)
	RetrieveExpenses(ctx context.Context, latestMonth string, numberOfMonths int) ([]*expense.Expense, error)
	RetrieveMonths(ctx context.Context) ([]string, error)
	RetrieveCategories(ctx context.Context) ([]expense.Category, error)
	RetrieveTags(ctx context.Context) ([]expense.Tag, error)
	RetrieveExpenseTags(ctx context.Context, expenseID string) ([]expense.Tag, error)
	FilterExpenses(ctx context.Context, name string) ([]*expense.Expense, error)
	RetrieveSimilarExpenseNames(ctx context.Context, name string) ([]storage.NameSuggestion, error)
	RetrieveCommonExpenseCost(ctx context.Context, name string) (float64, error)
	RetrieveExpenseSuggestions(ctx context.Context, month string) ([]*expense.Expense, error)
	RetrieveStatistics(ctx context.Context, latestMonth string, numberOfMonths int) ([]expense.MonthStatistics, error)
}

// Persister writes expenses and related records to one backing engine.
type Persister interface {
	AddExpense(ctx context.Context, item *expense.Expense) (*expense.Expense, error)
	UpdateExpense(ctx context.Context, id string, changes map[string]any) (*expense.Expense, error)
	AddCategory(ctx context.Context, category *expense.Category) (*expense.Category, error)
	PersistTags(ctx context.Context, tags []expense.Tag) ([]expense.Tag, error)
	PersistExpenseTags(ctx context.Context, expenseID string, tags []expense.Tag) ([]expense.Tag, error)
	PersistShop(ctx context.Context, shop *expense.Shop) (*expense.Shop, error)
}

var (
	_ Retriever = (*storage.Retriever)(nil)
	_ Persister = (*storage.Persister)(nil)
)

// CleanupFunc releases the resources behind a retriever and persister
// pair, typically the database connection they share.
type CleanupFunc func() error

// Result bundles a bound retriever and persister pair with its cleanup
// function. Both sides share one connection provider.
type Result struct {
	Retriever Retriever
	Persister Persister
	Cleanup   CleanupFunc
}

// Factory creates retriever and persister pairs based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Type names one supported backing engine.
type Type string

const (
	SQLiteBackend  Type = "sqlite"
	MariaDBBackend Type = "mariadb"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is supported.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MariaDBBackend:
		return true
	default:
		return false
	}
}
