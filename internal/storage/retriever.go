package storage

import (
	"context"
	"fmt"
	"html"
	"sort"
	"time"

	"github.com/kobonk/expenses-tracker/internal/expense"
)

// minCommonCostOccurrences is how often a name and cost pair must repeat
// before the cost is considered the usual one for that name.
const minCommonCostOccurrences = 5

// Retriever reads expenses and their related records through a
// QueryExecutor.
type Retriever struct {
	statements statements
	executor   QueryExecutor
}

// NewRetriever validates the table mapping up front so that a
// misconfigured backend fails at construction rather than on first use.
func NewRetriever(tables Tables, executor QueryExecutor) (*Retriever, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: query executor must be provided", expense.ErrInvalidArgument)
	}
	if err := tables.Validate(TableExpenses, TableCategories, TableTags, TableExpenseTags, TableShops, TableSuggestions); err != nil {
		return nil, err
	}
	return &Retriever{statements: newStatements(tables), executor: executor}, nil
}

// RetrieveExpense returns the expense with the given id, or nil when no
// such expense exists.
func (r *Retriever) RetrieveExpense(ctx context.Context, id string) (*expense.Expense, error) {
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryExpenseByID), id)
	if err != nil {
		return nil, fmt.Errorf("retrieve expense: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	result, err := r.expenseFromRow(ctx, rows[0])
	if err != nil {
		return nil, fmt.Errorf("retrieve expense: %w", err)
	}
	return result, nil
}

// RetrieveExpenses returns the expenses purchased within the given number
// of months, ending with the month given as YYYY-MM. Newest first.
func (r *Retriever) RetrieveExpenses(ctx context.Context, latestMonth string, numberOfMonths int) ([]*expense.Expense, error) {
	start, end, err := expense.MonthWindow(latestMonth, numberOfMonths)
	if err != nil {
		return nil, err
	}
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryExpensesBetween), start, end)
	if err != nil {
		return nil, fmt.Errorf("retrieve expenses: %w", err)
	}
	return r.expensesFromRows(ctx, rows)
}

// RetrieveMonths returns every month from the oldest purchase to now as
// YYYY-MM labels, including months without any purchases.
func (r *Retriever) RetrieveMonths(ctx context.Context) ([]string, error) {
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryOldestPurchaseDate))
	if err != nil {
		return nil, fmt.Errorf("retrieve months: %w", err)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	oldest := time.Unix(rowInt(rows[0][0]), 0).UTC()
	return expense.MonthsBetween(oldest, time.Now().UTC()), nil
}

// RetrieveCategories returns all categories sorted by name.
func (r *Retriever) RetrieveCategories(ctx context.Context) ([]expense.Category, error) {
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryCategories))
	if err != nil {
		return nil, fmt.Errorf("retrieve categories: %w", err)
	}
	categories := make([]expense.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, expense.Category{
			ID:   rowString(row[0]),
			Name: html.UnescapeString(rowString(row[1])),
		})
	}
	return categories, nil
}

// RetrieveTags returns all tags sorted by name.
func (r *Retriever) RetrieveTags(ctx context.Context) ([]expense.Tag, error) {
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryTags))
	if err != nil {
		return nil, fmt.Errorf("retrieve tags: %w", err)
	}
	tags := make([]expense.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, expense.Tag{
			ID:   rowString(row[0]),
			Name: html.UnescapeString(rowString(row[1])),
		})
	}
	return tags, nil
}

// FilterExpenses returns the expenses whose name contains the given
// fragment, matched case insensitively.
func (r *Retriever) FilterExpenses(ctx context.Context, name string) ([]*expense.Expense, error) {
	needle := "%" + html.EscapeString(name) + "%"
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryExpensesByName), needle)
	if err != nil {
		return nil, fmt.Errorf("filter expenses: %w", err)
	}
	return r.expensesFromRows(ctx, rows)
}

// NameSuggestion pairs an expense name with the category it was recorded
// under.
type NameSuggestion struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// RetrieveSimilarExpenseNames returns the distinct name and category
// pairs containing the given fragment, most frequently recorded pair
// first. Ties keep their first-seen order.
func (r *Retriever) RetrieveSimilarExpenseNames(ctx context.Context, name string) ([]NameSuggestion, error) {
	needle := "%" + html.EscapeString(name) + "%"
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(querySimilarNames), needle)
	if err != nil {
		return nil, fmt.Errorf("retrieve similar expense names: %w", err)
	}

	counts := make(map[NameSuggestion]int, len(rows))
	unique := make([]NameSuggestion, 0, len(rows))
	for _, row := range rows {
		pair := NameSuggestion{
			Name:     rowString(row[0]),
			Category: rowString(row[1]),
		}
		if counts[pair] == 0 {
			unique = append(unique, pair)
		}
		counts[pair]++
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return counts[unique[i]] > counts[unique[j]]
	})

	suggestions := make([]NameSuggestion, 0, len(unique))
	for _, pair := range unique {
		suggestions = append(suggestions, NameSuggestion{
			Name:     html.UnescapeString(pair.Name),
			Category: html.UnescapeString(pair.Category),
		})
	}
	return suggestions, nil
}

// RetrieveCommonExpenseCost returns the cost most often recorded for
// expenses with exactly the given name, or zero when the most frequent
// pair occurs fewer than minCommonCostOccurrences times.
func (r *Retriever) RetrieveCommonExpenseCost(ctx context.Context, name string) (float64, error) {
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryCommonCost), html.EscapeString(name))
	if err != nil {
		return 0, fmt.Errorf("retrieve common expense cost: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if rowInt(rows[0][2]) < minCommonCostOccurrences {
		return 0, nil
	}
	return rowFloat(rows[0][1]), nil
}

// RetrieveExpenseSuggestions returns recurring expenses scheduled for the
// given month (YYYY-MM) that have not been recorded in it yet. The
// results carry no id and are dated to the first second of the month.
func (r *Retriever) RetrieveExpenseSuggestions(ctx context.Context, month string) ([]*expense.Expense, error) {
	start, end, err := expense.MonthWindow(month, 1)
	if err != nil {
		return nil, err
	}
	monthNumber := time.Unix(start, 0).UTC().Month()
	pattern := fmt.Sprintf(`(^|,)%d(,|$)`, int(monthNumber))

	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(querySuggestionsForMonth), pattern, start, end)
	if err != nil {
		return nil, fmt.Errorf("retrieve expense suggestions: %w", err)
	}

	suggestions := make([]*expense.Expense, 0, len(rows))
	for _, row := range rows {
		suggestion := &expense.Expense{
			Name:         html.UnescapeString(rowString(row[0])),
			Cost:         rowFloat(row[1]),
			PurchaseDate: start,
			Category:     categoryFromRow(row[2], row[3]),
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

// RetrieveStatistics returns the per category totals for each month in
// the window ending with latestMonth, latest month first.
func (r *Retriever) RetrieveStatistics(ctx context.Context, latestMonth string, numberOfMonths int) ([]expense.MonthStatistics, error) {
	if numberOfMonths < 1 {
		return nil, fmt.Errorf("%w: number of months must be positive", expense.ErrInvalidArgument)
	}
	latest, err := time.Parse(expense.MonthLayout, latestMonth)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid month %q, expected YYYY-MM", expense.ErrInvalidArgument, latestMonth)
	}

	statistics := []expense.MonthStatistics{}
	for i := 0; i < numberOfMonths; i++ {
		month := latest.AddDate(0, -i, 0)
		label := expense.MonthLabel(month.Unix())
		monthStart, monthEnd, err := expense.MonthWindow(label, 1)
		if err != nil {
			return nil, err
		}
		rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryStatisticsBetween), monthStart, monthEnd)
		if err != nil {
			return nil, fmt.Errorf("retrieve statistics: %w", err)
		}
		for _, row := range rows {
			category := categoryFromRow(row[1], row[2])
			if category == nil {
				category = &expense.Category{}
			}
			statistics = append(statistics, expense.MonthStatistics{
				Statistics: expense.Statistics{
					Category: *category,
					Total:    rowFloat(row[0]),
				},
				Month: label,
			})
		}
	}
	return statistics, nil
}

// RetrieveExpenseTags returns the tags attached to one expense.
func (r *Retriever) RetrieveExpenseTags(ctx context.Context, expenseID string) ([]expense.Tag, error) {
	rows, err := r.executor.ExecuteQuery(ctx, r.statements.query(queryTagsForExpense), expenseID)
	if err != nil {
		return nil, fmt.Errorf("retrieve expense tags: %w", err)
	}
	tags := make([]expense.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, expense.Tag{
			ID:   rowString(row[0]),
			Name: html.UnescapeString(rowString(row[1])),
		})
	}
	return tags, nil
}

func (r *Retriever) expensesFromRows(ctx context.Context, rows []Row) ([]*expense.Expense, error) {
	expenses := make([]*expense.Expense, 0, len(rows))
	for _, row := range rows {
		result, err := r.expenseFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, result)
	}
	return expenses, nil
}

func (r *Retriever) expenseFromRow(ctx context.Context, row Row) (*expense.Expense, error) {
	result := &expense.Expense{
		ID:           rowString(row[0]),
		Name:         html.UnescapeString(rowString(row[1])),
		Cost:         rowFloat(row[2]),
		PurchaseDate: rowInt(row[3]),
		Category:     categoryFromRow(row[4], row[5]),
	}
	tags, err := r.RetrieveExpenseTags(ctx, result.ID)
	if err != nil {
		return nil, err
	}
	result.Tags = tags
	return result, nil
}

func categoryFromRow(id, name any) *expense.Category {
	categoryID := rowString(id)
	if categoryID == "" {
		return nil
	}
	return &expense.Category{ID: categoryID, Name: html.UnescapeString(rowString(name))}
}
