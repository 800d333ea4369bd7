package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrDriverNotRegistered is returned when the driver package was not imported.
var ErrDriverNotRegistered = errors.New("database driver not registered")

// Config holds database configuration.
type Config struct {
	// Driver selects the backend. Empty or "auto" detects it from URL.
	Driver Driver

	// URL is the PostgreSQL connection string.
	URL string

	// SQLitePath is the SQLite file. Defaults to ~/.strand/data.db.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool.
	MaxConns int
}

// ResolvedDriver returns the driver the config selects.
func (c Config) ResolvedDriver() (Driver, error) {
	driver := c.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(c.URL)
	}
	if !driver.IsValid() {
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
	return driver, nil
}

type connector func(ctx context.Context, cfg Config) (Connection, error)

var connectors = map[Driver]connector{}

// RegisterPostgresDriver registers the PostgreSQL connection factory.
func RegisterPostgresDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	connectors[DriverPostgres] = fn
}

// RegisterSQLiteDriver registers the SQLite connection factory.
func RegisterSQLiteDriver(fn func(ctx context.Context, cfg Config) (Connection, error)) {
	connectors[DriverSQLite] = fn
}

// NewConnection opens a connection for the configured driver. The driver
// package (database/postgres or database/sqlite) must be imported for its
// side effect.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver, err := cfg.ResolvedDriver()
	if err != nil {
		return nil, err
	}
	connect, ok := connectors[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDriverNotRegistered, driver)
	}
	return connect(ctx, cfg)
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".strand", "data.db")
}

// DefaultLocalConfig returns configuration for local SQLite mode.
func DefaultLocalConfig() Config {
	return Config{
		Driver:     DriverSQLite,
		SQLitePath: DefaultSQLitePath(),
	}
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o750)
}
