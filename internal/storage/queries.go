package storage

import "fmt"

// queryType names one statement template. Values are interpolated through
// ? placeholders only; the templates themselves carry nothing but the
// validated table names.
type queryType int

const (
	queryExpenseByID queryType = iota
	queryExpensesBetween
	queryExpensesByName
	queryOldestPurchaseDate
	queryCategories
	queryTags
	queryTagsForExpense
	querySimilarNames
	queryCommonCost
	querySuggestionsForMonth
	queryStatisticsBetween
	querySaveExpense
	querySaveCategory
	querySaveTag
	queryTagByName
	querySaveExpenseTag
	queryDeleteExpenseTag
	querySaveShop
)

// statements builds the SQL for each operation against one table mapping.
type statements struct {
	tables Tables
}

func newStatements(tables Tables) statements {
	return statements{tables: tables}
}

// expenseColumns is the shared projection for expense rows joined with
// their category.
func (s statements) expenseSelect() string {
	return fmt.Sprintf(`SELECT %[1]s.expense_id, %[1]s.name, %[1]s.cost, %[1]s.purchase_date,
		%[2]s.category_id, %[2]s.name AS category_name
		FROM %[1]s
		LEFT JOIN %[2]s ON %[1]s.category_id = %[2]s.category_id`,
		s.tables[TableExpenses], s.tables[TableCategories])
}

func (s statements) query(t queryType) string {
	expenses := s.tables[TableExpenses]
	categories := s.tables[TableCategories]
	tags := s.tables[TableTags]
	expenseTags := s.tables[TableExpenseTags]

	switch t {
	case queryExpenseByID:
		return s.expenseSelect() + fmt.Sprintf(" WHERE %s.expense_id = ?", expenses)
	case queryExpensesBetween:
		return s.expenseSelect() + fmt.Sprintf(
			" WHERE %[1]s.purchase_date BETWEEN ? AND ? ORDER BY %[1]s.purchase_date DESC", expenses)
	case queryExpensesByName:
		return s.expenseSelect() + fmt.Sprintf(" WHERE LOWER(%s.name) LIKE LOWER(?)", expenses)
	case queryOldestPurchaseDate:
		return fmt.Sprintf("SELECT purchase_date FROM %s ORDER BY purchase_date ASC LIMIT 1", expenses)
	case queryCategories:
		return fmt.Sprintf("SELECT category_id, name FROM %s ORDER BY name ASC", categories)
	case queryTags:
		return fmt.Sprintf("SELECT tag_id, name FROM %s ORDER BY name ASC", tags)
	case queryTagsForExpense:
		return fmt.Sprintf(`SELECT %[1]s.tag_id, %[1]s.name FROM %[1]s
			INNER JOIN %[2]s ON %[1]s.tag_id = %[2]s.tag_id
			WHERE %[2]s.expense_id = ?`, tags, expenseTags)
	case querySimilarNames:
		return fmt.Sprintf(`SELECT %[1]s.name, %[2]s.name AS category_name FROM %[1]s
			LEFT JOIN %[2]s ON %[1]s.category_id = %[2]s.category_id
			WHERE LOWER(%[1]s.name) LIKE LOWER(?)
			ORDER BY %[1]s.name ASC`, expenses, categories)
	case queryCommonCost:
		return fmt.Sprintf(`SELECT name, cost, COUNT(name) AS counter FROM %s
			WHERE name LIKE ?
			GROUP BY name, cost
			ORDER BY COUNT(name) DESC
			LIMIT 1`, expenses)
	case querySuggestionsForMonth:
		return fmt.Sprintf(`SELECT %[1]s.name, %[1]s.cost, %[2]s.category_id, %[2]s.name AS category_name
			FROM %[1]s
			LEFT JOIN %[2]s ON %[1]s.category_id = %[2]s.category_id
			WHERE %[1]s.months REGEXP ?
			AND %[1]s.name NOT IN (SELECT name FROM %[3]s WHERE purchase_date BETWEEN ? AND ?)
			ORDER BY %[1]s.name ASC`, s.tables[TableSuggestions], categories, expenses)
	case queryStatisticsBetween:
		return fmt.Sprintf(`SELECT SUM(%[1]s.cost) AS total, %[2]s.category_id, %[2]s.name AS category_name
			FROM %[1]s
			LEFT JOIN %[2]s ON %[1]s.category_id = %[2]s.category_id
			WHERE %[1]s.purchase_date BETWEEN ? AND ?
			GROUP BY %[2]s.category_id, %[2]s.name
			ORDER BY category_name ASC`, expenses, categories)
	case querySaveExpense:
		return fmt.Sprintf(
			"INSERT INTO %s (expense_id, name, cost, purchase_date, category_id) VALUES (?, ?, ?, ?, ?)", expenses)
	case querySaveCategory:
		return fmt.Sprintf("INSERT INTO %s (category_id, name) VALUES (?, ?)", categories)
	case querySaveTag:
		return fmt.Sprintf("INSERT INTO %s (tag_id, name) VALUES (?, ?)", tags)
	case queryTagByName:
		return fmt.Sprintf("SELECT tag_id, name FROM %s WHERE name LIKE ?", tags)
	case querySaveExpenseTag:
		return fmt.Sprintf("INSERT INTO %s (expense_id, tag_id) VALUES (?, ?)", expenseTags)
	case queryDeleteExpenseTag:
		return fmt.Sprintf("DELETE FROM %s WHERE expense_id = ? AND tag_id = ?", expenseTags)
	case querySaveShop:
		return fmt.Sprintf("INSERT INTO %s (shop_id, name) VALUES (?, ?)", s.tables[TableShops])
	default:
		return ""
	}
}
