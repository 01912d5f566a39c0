package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"modernc.org/sqlite"

	"github.com/kobonk/expenses-tracker/internal/expense"
)

var (
	registerRegexpOnce sync.Once
	registerRegexpErr  error
)

// registerRegexpFunction makes the REGEXP operator available to every
// sqlite connection. The driver passes the pattern as the first argument
// and the matched value as the second.
func registerRegexpFunction() error {
	registerRegexpOnce.Do(func() {
		registerRegexpErr = sqlite.RegisterDeterministicScalarFunction("regexp", 2,
			func(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				pattern, ok := args[0].(string)
				if !ok {
					return nil, fmt.Errorf("regexp: pattern must be a string")
				}
				value, ok := args[1].(string)
				if !ok {
					return int64(0), nil
				}
				matched, err := regexp.MatchString(pattern, value)
				if err != nil {
					return nil, fmt.Errorf("regexp: %w", err)
				}
				if matched {
					return int64(1), nil
				}
				return int64(0), nil
			})
	})
	return registerRegexpErr
}

// SQLiteProvider runs statements against a sqlite database file.
type SQLiteProvider struct {
	db *sql.DB
}

// NewSQLiteProvider opens the database at path, creating the parent
// directory and applying pending migrations. An empty path is rejected.
func NewSQLiteProvider(path string, tables Tables) (*SQLiteProvider, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sqlite database path must be provided", expense.ErrInvalidArgument)
	}
	if err := tables.Validate(TableExpenses, TableCategories, TableTags, TableExpenseTags, TableShops, TableSuggestions); err != nil {
		return nil, err
	}

	if err := registerRegexpFunction(); err != nil {
		return nil, fmt.Errorf("register regexp function: %w", err)
	}

	memory := path == ":memory:" || strings.Contains(path, "mode=memory")
	if !memory {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if memory {
		// An in-memory database exists per connection, so the pool
		// must never open a second one.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if err := RunMigrations(db, "sqlite"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite database: %w", err)
	}

	return &SQLiteProvider{db: db}, nil
}

// ExecuteQuery runs one statement and returns any produced rows.
func (p *SQLiteProvider) ExecuteQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	return runStatement(ctx, p.db, query, args...)
}

// DB exposes the underlying pool for callers that manage transactions
// or migrations themselves.
func (p *SQLiteProvider) DB() *sql.DB {
	return p.db
}

func (p *SQLiteProvider) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("close sqlite database: %w", err)
	}
	return nil
}
