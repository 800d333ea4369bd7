package database

import (
	"context"
	"fmt"
)

// Row represents a single result row.
type Row interface {
	Scan(dest ...any) error
}

// Rows represents multiple result rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result represents the result of an Exec operation.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs queries written with '?' placeholders. Implementations
// rebind them for their driver.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction wraps Executor with Commit/Rollback capabilities.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection represents a database connection that can create transactions.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}

// ForUpdate returns the row-lock suffix for a SELECT inside a transaction.
// SQLite has no row locks; its single writer connection serialises instead.
func ForUpdate(driver Driver) string {
	if driver == DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// LockKey takes a transaction-scoped advisory lock on postgres. FOR UPDATE
// locks nothing when the row is missing, so writers that may insert the
// row take the key lock first. SQLite needs nothing.
func LockKey(ctx context.Context, exec Executor, driver Driver, key string) error {
	if driver != DriverPostgres {
		return nil
	}
	if _, err := exec.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", key); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	return nil
}
