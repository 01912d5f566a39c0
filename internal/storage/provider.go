// Package storage implements the data-access layer: connection providers
// for the supported relational engines, versioned schema migrations,
// parametrized statement templates, and the Retriever/Persister pair that
// converts rows to domain models and back.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Row is one raw result tuple as returned by the engine.
type Row []any

// QueryExecutor is the single capability a retriever or persister needs
// from a connection provider: run one parametrized statement and return
// all result rows (nil for statements that return none).
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, query string, args ...any) ([]Row, error)
}

// runStatement executes one statement against db. Row-returning
// statements are fetched in full; everything else goes through Exec and
// yields nil rows. Each call is its own autocommit unit.
func runStatement(ctx context.Context, db *sql.DB, query string, args ...any) ([]Row, error) {
	if !returnsRows(query) {
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("execute statement: %w", err)
		}
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	return collectRows(rows)
}

func returnsRows(query string) bool {
	verb := strings.ToUpper(strings.Fields(strings.TrimSpace(query))[0])
	return verb == "SELECT" || verb == "PRAGMA" || verb == "SHOW"
}

func collectRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make(Row, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return result, nil
}

// Raw values come back as different Go types depending on the driver
// (MySQL reports text as []byte, SQLite as string). The helpers below
// normalize them for row-to-model conversion.

func rowString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func rowFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func rowInt(value any) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case []byte:
		i, _ := strconv.ParseInt(string(v), 10, 64)
		return i
	case string:
		i, _ := strconv.ParseInt(v, 10, 64)
		return i
	default:
		return 0
	}
}
