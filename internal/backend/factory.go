package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kobonk/expenses-tracker/internal/expense"
	"github.com/kobonk/expenses-tracker/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend builds the retriever and persister pair for the selected
// backend type. An empty selector is an error. An unknown selector yields
// a nil result without an error, so callers must check.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if strings.TrimSpace(string(config.Type)) == "" {
		return nil, fmt.Errorf("%w: backend type must be provided", expense.ErrInvalidArgument)
	}

	tables := config.Tables
	if tables == nil {
		tables = storage.DefaultTables()
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config, tables)
	case MariaDBBackend:
		return f.createMariaDBBackend(config, tables)
	default:
		f.logger.Warn("Unknown backend type", "type", config.Type)
		return nil, nil
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config, tables storage.Tables) (*Result, error) {
	provider, err := storage.NewSQLiteProvider(config.SQLiteDBPath, tables)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite provider: %w", err)
	}

	result, err := bindPair(tables, provider, provider.Close)
	if err != nil {
		provider.Close()
		return nil, err
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return result, nil
}

func (f *DefaultFactory) createMariaDBBackend(config Config, tables storage.Tables) (*Result, error) {
	provider, err := storage.NewMariaDBProvider(config.MariaDB, tables)
	if err != nil {
		return nil, fmt.Errorf("initialize mariadb provider: %w", err)
	}

	result, err := bindPair(tables, provider, provider.Close)
	if err != nil {
		provider.Close()
		return nil, err
	}

	f.logger.Info("Initialized MariaDB backend",
		"host", config.MariaDB.Host,
		"database", config.MariaDB.Database)
	return result, nil
}

// bindPair constructs a retriever and persister sharing one provider.
func bindPair(tables storage.Tables, executor storage.QueryExecutor, cleanup CleanupFunc) (*Result, error) {
	retriever, err := storage.NewRetriever(tables, executor)
	if err != nil {
		return nil, fmt.Errorf("create retriever: %w", err)
	}
	persister, err := storage.NewPersister(tables, executor, retriever)
	if err != nil {
		return nil, fmt.Errorf("create persister: %w", err)
	}
	return &Result{
		Retriever: retriever,
		Persister: persister,
		Cleanup:   cleanup,
	}, nil
}
