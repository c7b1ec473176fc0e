// Package driver defines the low-level connection surface the dialect layer
// runs on. The query layer only ever talks to these interfaces; the concrete
// binding (SQLConnection over database/sql, or a fake in tests) is injected
// by the caller.
package driver

import "context"

// ColumnMetadata describes one column of an execution result.
type ColumnMetadata struct {
	Name     string
	TypeID   int    // driver-reported type code
	TypeName string // human type name, e.g. "TIMESTAMP", "CHAR () FOR BIT DATA"
}

// RawRow maps column names to raw driver values.
type RawRow map[string]interface{}

// Result is the materialized outcome of executing one statement. Rows and
// Columns are empty for statements that return no result set.
type Result struct {
	Rows     []RawRow
	Columns  []ColumnMetadata
	Affected int64
	// InsertID is the driver-reported generated key, when the driver
	// surfaces one outside the row data. Nil otherwise.
	InsertID interface{}
}

// Statement is a prepared statement handle. Close must be called
// unconditionally, even after a failed Execute.
type Statement interface {
	Execute(ctx context.Context, args []interface{}) (*Result, error)
	Close() error
}

// Connection is a single underlying driver connection. Callers serialize
// access; implementations are not required to be safe for concurrent use.
type Connection interface {
	Prepare(ctx context.Context, sql string) (Statement, error)

	// Begin starts a transaction, or creates a named savepoint inside the
	// current transaction when savepoint is non-empty.
	Begin(ctx context.Context, savepoint string) error
	// Commit commits the current transaction.
	Commit(ctx context.Context) error
	// Rollback rolls back to the named savepoint, or the whole transaction
	// when savepoint is empty.
	Rollback(ctx context.Context, savepoint string) error

	// Query runs sql synchronously outside the prepared path. Used for
	// catalog lookups during error translation and for cleanup statements.
	Query(ctx context.Context, sql string) ([]RawRow, error)

	Close() error
}
