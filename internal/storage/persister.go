package storage

import (
	"context"
	"fmt"
	"html"
	"sort"

	"github.com/google/uuid"

	"github.com/kobonk/expenses-tracker/internal/expense"
)

// updatableColumns lists the expense columns UpdateExpense accepts.
var updatableColumns = map[string]bool{
	"name":          true,
	"cost":          true,
	"purchase_date": true,
	"category_id":   true,
}

// Persister writes expenses and their related records through a
// QueryExecutor. Reads after writes go through the paired Retriever so
// callers get records in the same shape the read side produces.
type Persister struct {
	statements statements
	executor   QueryExecutor
	retriever  *Retriever
}

func NewPersister(tables Tables, executor QueryExecutor, retriever *Retriever) (*Persister, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: query executor must be provided", expense.ErrInvalidArgument)
	}
	if retriever == nil {
		return nil, fmt.Errorf("%w: retriever must be provided", expense.ErrInvalidArgument)
	}
	if err := tables.Validate(TableExpenses, TableCategories, TableTags, TableExpenseTags, TableShops, TableSuggestions); err != nil {
		return nil, err
	}
	return &Persister{statements: newStatements(tables), executor: executor, retriever: retriever}, nil
}

// AddExpense stores the expense together with its tag relations and
// returns the stored record. A nil expense is a no-op.
func (p *Persister) AddExpense(ctx context.Context, item *expense.Expense) (*expense.Expense, error) {
	if item == nil {
		return nil, nil
	}
	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}

	var categoryID any
	if item.Category != nil && item.Category.ID != "" {
		categoryID = item.Category.ID
	}

	_, err := p.executor.ExecuteQuery(ctx, p.statements.query(querySaveExpense),
		id, html.EscapeString(item.Name), item.Cost, item.PurchaseDate, categoryID)
	if err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}

	if _, err := p.PersistExpenseTags(ctx, id, item.Tags); err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}

	stored, err := p.retriever.RetrieveExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("add expense: %w", err)
	}
	return stored, nil
}

// UpdateExpense applies the given column changes to one expense and
// returns the updated record. Unknown columns are rejected.
func (p *Persister) UpdateExpense(ctx context.Context, id string, changes map[string]any) (*expense.Expense, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: expense id must be provided", expense.ErrInvalidArgument)
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: at least one change must be provided", expense.ErrInvalidArgument)
	}

	columns := make([]string, 0, len(changes))
	for column := range changes {
		if !updatableColumns[column] {
			return nil, fmt.Errorf("%w: column %q cannot be updated", expense.ErrInvalidArgument, column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	assignments := ""
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		if i > 0 {
			assignments += ", "
		}
		assignments += column + " = ?"
		value := changes[column]
		if column == "name" {
			if name, ok := value.(string); ok {
				value = html.EscapeString(name)
			}
		}
		args = append(args, value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE expense_id = ?",
		p.statements.tables[TableExpenses], assignments)
	if _, err := p.executor.ExecuteQuery(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}

	stored, err := p.retriever.RetrieveExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	return stored, nil
}

// AddCategory stores the category and returns the stored record.
func (p *Persister) AddCategory(ctx context.Context, category *expense.Category) (*expense.Category, error) {
	if category == nil {
		return nil, nil
	}
	id := category.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := p.executor.ExecuteQuery(ctx, p.statements.query(querySaveCategory),
		id, html.EscapeString(category.Name))
	if err != nil {
		return nil, fmt.Errorf("add category: %w", err)
	}
	return &expense.Category{ID: id, Name: category.Name}, nil
}

// PersistTags stores the tags that are not known yet and returns the
// stored identity for every given tag. A tag whose name already exists
// keeps its stored id. Absent input writes nothing and yields an empty
// list.
func (p *Persister) PersistTags(ctx context.Context, tags []expense.Tag) ([]expense.Tag, error) {
	persisted := make([]expense.Tag, 0, len(tags))
	for _, tag := range tags {
		stored, err := p.tagByName(ctx, tag.Name)
		if err != nil {
			return nil, fmt.Errorf("persist tags: %w", err)
		}
		if stored != nil {
			persisted = append(persisted, *stored)
			continue
		}
		id := tag.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = p.executor.ExecuteQuery(ctx, p.statements.query(querySaveTag),
			id, html.EscapeString(tag.Name))
		if err != nil {
			return nil, fmt.Errorf("persist tags: %w", err)
		}
		persisted = append(persisted, expense.Tag{ID: id, Name: tag.Name})
	}
	return persisted, nil
}

// PersistExpenseTags reconciles the stored tag relations of one expense
// with the given tags and returns the reconciled set. Relations for tags
// no longer present are removed and missing ones are created. Calling it
// twice with the same tags changes nothing.
func (p *Persister) PersistExpenseTags(ctx context.Context, expenseID string, tags []expense.Tag) ([]expense.Tag, error) {
	if expenseID == "" {
		return nil, fmt.Errorf("%w: expense id must be provided", expense.ErrInvalidArgument)
	}

	wanted, err := p.PersistTags(ctx, tags)
	if err != nil {
		return nil, fmt.Errorf("persist expense tags: %w", err)
	}
	current, err := p.retriever.RetrieveExpenseTags(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("persist expense tags: %w", err)
	}

	for _, tag := range current {
		if !expense.ContainsTag(wanted, tag) {
			_, err := p.executor.ExecuteQuery(ctx, p.statements.query(queryDeleteExpenseTag), expenseID, tag.ID)
			if err != nil {
				return nil, fmt.Errorf("persist expense tags: %w", err)
			}
		}
	}
	for _, tag := range wanted {
		if !expense.ContainsTag(current, tag) {
			_, err := p.executor.ExecuteQuery(ctx, p.statements.query(querySaveExpenseTag), expenseID, tag.ID)
			if err != nil {
				return nil, fmt.Errorf("persist expense tags: %w", err)
			}
		}
	}
	return wanted, nil
}

// PersistShop stores the shop and returns the stored record.
func (p *Persister) PersistShop(ctx context.Context, shop *expense.Shop) (*expense.Shop, error) {
	if shop == nil {
		return nil, nil
	}
	id := shop.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := p.executor.ExecuteQuery(ctx, p.statements.query(querySaveShop),
		id, html.EscapeString(shop.Name))
	if err != nil {
		return nil, fmt.Errorf("persist shop: %w", err)
	}
	return &expense.Shop{ID: id, Name: shop.Name}, nil
}

// tagByName returns the stored tag whose name equals the given name, or
// nil when the name is unknown. Matching is literal.
func (p *Persister) tagByName(ctx context.Context, name string) (*expense.Tag, error) {
	rows, err := p.executor.ExecuteQuery(ctx, p.statements.query(queryTagByName), html.EscapeString(name))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &expense.Tag{
		ID:   rowString(rows[0][0]),
		Name: html.UnescapeString(rowString(rows[0][1])),
	}, nil
}
