package driver

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// SQLConnection implements Connection on top of database/sql, so any
// registered driver can back the dialect layer.
type SQLConnection struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

// NewSQLConnection wraps an open *sql.DB. If logger is nil, a discard
// logger is used.
func NewSQLConnection(db *sql.DB, logger *slog.Logger) *SQLConnection {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLConnection{db: db, logger: logger}
}

// Open opens a database/sql connection for the given driver name and DSN
// and verifies it with a ping.
func Open(ctx context.Context, driverName, dsn string, logger *slog.Logger) (*SQLConnection, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewSQLConnection(db, logger), nil
}

// Prepare prepares a statement on the current transaction if one is open,
// otherwise on the pool.
func (c *SQLConnection) Prepare(ctx context.Context, query string) (Statement, error) {
	c.logger.Debug("preparing statement", slog.String("sql", query))

	var stmt *sql.Stmt
	var err error
	if c.tx != nil {
		stmt, err = c.tx.PrepareContext(ctx, query)
	} else {
		stmt, err = c.db.PrepareContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	return &sqlStatement{stmt: stmt, query: query}, nil
}

// Begin starts a transaction, or creates a savepoint inside the open one.
func (c *SQLConnection) Begin(ctx context.Context, savepoint string) error {
	if savepoint != "" {
		if c.tx == nil {
			return fmt.Errorf("savepoint %q requested outside a transaction", savepoint)
		}
		_, err := c.tx.ExecContext(ctx, "SAVEPOINT "+quoteIdent(savepoint)+" ON ROLLBACK RETAIN CURSORS")
		return err
	}
	if c.tx != nil {
		return fmt.Errorf("transaction already open")
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

// Commit commits the open transaction.
func (c *SQLConnection) Commit(ctx context.Context) error {
	if c.tx == nil {
		return fmt.Errorf("no transaction open")
	}
	err := c.tx.Commit()
	c.tx = nil
	return err
}

// Rollback rolls back to a savepoint, or the whole transaction.
func (c *SQLConnection) Rollback(ctx context.Context, savepoint string) error {
	if c.tx == nil {
		return fmt.Errorf("no transaction open")
	}
	if savepoint != "" {
		_, err := c.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+quoteIdent(savepoint))
		return err
	}
	err := c.tx.Rollback()
	c.tx = nil
	return err
}

// Query runs a statement outside the prepared path and materializes its rows.
func (c *SQLConnection) Query(ctx context.Context, query string) ([]RawRow, error) {
	c.logger.Debug("running query", slog.String("sql", query))

	var rows *sql.Rows
	var err error
	if c.tx != nil {
		rows, err = c.tx.QueryContext(ctx, query)
	} else {
		rows, err = c.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	collected, _, err := collectRows(rows)
	return collected, err
}

// Close closes the underlying pool. An open transaction is rolled back first.
func (c *SQLConnection) Close() error {
	if c.tx != nil {
		_ = c.tx.Rollback()
		c.tx = nil
	}
	return c.db.Close()
}

type sqlStatement struct {
	stmt  *sql.Stmt
	query string
}

// Execute runs the prepared statement, choosing the query or exec path by
// whether the statement text returns rows.
func (s *sqlStatement) Execute(ctx context.Context, args []interface{}) (*Result, error) {
	if ReturnsRows(s.query) {
		rows, err := s.stmt.QueryContext(ctx, args...)
		if err != nil {
			return nil, err
		}
		defer func() { _ = rows.Close() }()

		collected, columns, err := collectRows(rows)
		if err != nil {
			return nil, err
		}
		return &Result{Rows: collected, Columns: columns, Affected: int64(len(collected))}, nil
	}

	res, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	out := &Result{}
	if affected, err := res.RowsAffected(); err == nil {
		out.Affected = affected
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		out.InsertID = id
	}
	return out, nil
}

func (s *sqlStatement) Close() error {
	return s.stmt.Close()
}

// ReturnsRows reports whether the statement text produces a result set.
func ReturnsRows(query string) bool {
	q := strings.ToUpper(strings.TrimSpace(query))
	return strings.HasPrefix(q, "SELECT") ||
		strings.HasPrefix(q, "VALUES") ||
		strings.HasPrefix(q, "WITH") ||
		strings.HasPrefix(q, "CALL")
}

func collectRows(rows *sql.Rows) ([]RawRow, []ColumnMetadata, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get column metadata: %w", err)
	}

	columns := make([]ColumnMetadata, len(columnTypes))
	for i, ct := range columnTypes {
		columns[i] = ColumnMetadata{
			Name:     ct.Name(),
			TypeID:   i,
			TypeName: ct.DatabaseTypeName(),
		}
	}

	var collected []RawRow
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan failed: %w", err)
		}
		row := make(RawRow, len(columns))
		for i, col := range columns {
			row[col.Name] = values[i]
		}
		collected = append(collected, row)
	}
	return collected, columns, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
