package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/kobonk/expenses-tracker/internal/expense"
)

// MariaDBConfig carries the connection settings for a MariaDB backend.
type MariaDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func (c MariaDBConfig) validate() error {
	var missing []string
	if strings.TrimSpace(c.Host) == "" {
		missing = append(missing, "host")
	}
	if strings.TrimSpace(c.User) == "" {
		missing = append(missing, "user")
	}
	if strings.TrimSpace(c.Database) == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: mariadb %s must be provided", expense.ErrInvalidArgument, strings.Join(missing, ", "))
	}
	return nil
}

func (c MariaDBConfig) dsn() string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Host, port)
	cfg.DBName = c.Database
	cfg.ParseTime = false
	cfg.MultiStatements = true
	return cfg.FormatDSN()
}

// MariaDBProvider runs statements against a MariaDB database.
type MariaDBProvider struct {
	db *sql.DB
}

// NewMariaDBProvider connects to the configured database and applies
// pending migrations.
func NewMariaDBProvider(config MariaDBConfig, tables Tables) (*MariaDBProvider, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if err := tables.Validate(TableExpenses, TableCategories, TableTags, TableExpenseTags, TableShops, TableSuggestions); err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", config.dsn())
	if err != nil {
		return nil, fmt.Errorf("open mariadb connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mariadb: %w", err)
	}
	if err := RunMigrations(db, "mysql"); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate mariadb database: %w", err)
	}

	return &MariaDBProvider{db: db}, nil
}

// ExecuteQuery runs one statement and returns any produced rows.
func (p *MariaDBProvider) ExecuteQuery(ctx context.Context, query string, args ...any) ([]Row, error) {
	return runStatement(ctx, p.db, query, args...)
}

func (p *MariaDBProvider) DB() *sql.DB {
	return p.db
}

func (p *MariaDBProvider) Close() error {
	if err := p.db.Close(); err != nil {
		return fmt.Errorf("close mariadb connection: %w", err)
	}
	return nil
}
