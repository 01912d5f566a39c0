package backend

import (
	"fmt"

	"github.com/kobonk/expenses-tracker/internal/config"
	"github.com/kobonk/expenses-tracker/internal/expense"
	"github.com/kobonk/expenses-tracker/internal/storage"
)

// Config holds the settings for backend creation.
type Config struct {
	// Backend selector
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// MariaDB specific
	MariaDB storage.MariaDBConfig

	// Table mapping shared by the retriever and persister pair
	Tables storage.Tables
}

// FromAppConfig converts the application config to backend config. The
// selector string is kept as-is so the factory can apply its own
// empty/unknown handling.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("%w: app config must be provided", expense.ErrInvalidArgument)
	}

	return Config{
		Type:         Type(appConfig.DataBackend),
		SQLiteDBPath: appConfig.SQLiteDBPath,
		MariaDB: storage.MariaDBConfig{
			Host:     appConfig.MariaDBHost,
			Port:     appConfig.MariaDBPort,
			User:     appConfig.MariaDBUser,
			Password: appConfig.MariaDBPassword,
			Database: appConfig.MariaDBName,
		},
		Tables: storage.DefaultTables(),
	}, nil
}

// Validate checks the settings required by the selected backend type.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case MariaDBBackend:
		if c.MariaDB.Host == "" {
			return fmt.Errorf("MariaDB host is required for mariadb backend")
		}
		if c.MariaDB.User == "" {
			return fmt.Errorf("MariaDB user is required for mariadb backend")
		}
		if c.MariaDB.Database == "" {
			return fmt.Errorf("MariaDB database name is required for mariadb backend")
		}
	}

	return nil
}
