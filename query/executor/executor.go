// Package executor runs finalized DB2 statements over a driver connection
// and normalizes the raw result shape into what the ORM layer expects.
package executor

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/satishbabariya/db2-go/driver"
	"github.com/satishbabariya/db2-go/query/dberr"
	"github.com/satishbabariya/db2-go/query/sqlgen"
)

// dummyTable is the single-row source DB2 mandates for a SELECT without a
// FROM clause.
const dummyTable = "SYSIBM.SYSDUMMY1"

// Driver error codes treated as benign. These are exact substring
// contracts against the vendor message text.
const (
	codeUndefinedName   = "SQL0204N" // table/schema not found
	codeRoutineError    = "SQL0443N" // ADMIN_DROP_SCHEMA failure
	codeDuplicateObject = "SQL0601N" // object already exists
	codeDeadlock        = "SQL0911N" // deadlock or timeout rollback
	codeIndexExists     = "SQL0605W" // informational warning
)

// deadlockBenignReason is the one SQL0911N reason code arising from
// expected retry-free program logic.
const deadlockBenignReason = `Reason code "2"`

// Executor owns one driver connection. Each Run acquires it exclusively for
// the whole prepare+execute+fetch+close span; concurrent callers queue.
type Executor struct {
	conn    driver.Connection
	gen     *sqlgen.Generator
	parsers *ParserRegistry
	logger  *slog.Logger
	mu      sync.Mutex
}

// New creates an executor over the given connection. If gen is nil a fresh
// generator is used; if logger is nil a discard logger is used.
func New(conn driver.Connection, gen *sqlgen.Generator, logger *slog.Logger) *Executor {
	if gen == nil {
		gen = sqlgen.NewGenerator()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{conn: conn, gen: gen, parsers: DefaultParsers(), logger: logger}
}

// Parsers exposes the registry of type-name keyed value parsers consulted
// during row coercion.
func (e *Executor) Parsers() *ParserRegistry {
	return e.parsers
}

// Run executes one finalized statement and returns the normalized result.
// A nil query is a no-op: nested transaction commits produce no SQL at all.
func (e *Executor) Run(ctx context.Context, q *sqlgen.Query, opts *sqlgen.Options) (interface{}, error) {
	if q == nil {
		return nil, nil
	}
	if opts == nil {
		opts = &sqlgen.Options{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	class := sqlgen.Classify(q.SQL, opts)
	if class.IsTransactionControl() {
		return nil, e.runTransactionControl(ctx, class, opts)
	}

	sql := ensureRowSource(q.SQL)
	e.logger.Debug("executing statement",
		slog.String("class", class.String()), slog.String("sql", sql))

	stmt, err := e.conn.Prepare(ctx, sql)
	if err != nil {
		return e.handleError(ctx, err, sql, q.Args, class, opts)
	}
	defer func() { _ = stmt.Close() }()

	res, err := stmt.Execute(ctx, q.Args)
	if err != nil {
		return e.handleError(ctx, err, sql, q.Args, class, opts)
	}
	return e.normalize(ctx, res, class, opts)
}

// handleError suppresses known benign driver errors as empty success and
// routes everything else through the error translator.
func (e *Executor) handleError(ctx context.Context, err error, sql string, args []interface{}, class sqlgen.StatementClass, opts *sqlgen.Options) (interface{}, error) {
	if isBenign(sql, class, err) {
		e.logger.Debug("suppressing benign driver error", slog.String("error", err.Error()))
		return e.normalize(ctx, &driver.Result{}, class, opts)
	}
	return nil, dberr.Translate(ctx, err, e.conn, &dberr.Request{
		Model:      opts.Model,
		Instance:   opts.Instance,
		Fields:     opts.Fields,
		Where:      opts.Where,
		SQL:        sql,
		Parameters: args,
	})
}

// runTransactionControl delegates transaction statements to the
// connection-level primitives instead of the prepared path.
func (e *Executor) runTransactionControl(ctx context.Context, class sqlgen.StatementClass, opts *sqlgen.Options) error {
	t := opts.Transaction

	var err error
	switch class {
	case sqlgen.ClassBegin:
		err = e.conn.Begin(ctx, "")
	case sqlgen.ClassSavepoint:
		err = e.conn.Begin(ctx, t.SavepointName())
	case sqlgen.ClassCommit:
		err = e.conn.Commit(ctx)
	case sqlgen.ClassRollback:
		savepoint := ""
		if t.Nested() {
			savepoint = t.SavepointName()
		}
		err = e.conn.Rollback(ctx, savepoint)
	}
	if err != nil {
		return dberr.Translate(ctx, err, e.conn, &dberr.Request{Model: opts.Model, Instance: opts.Instance})
	}
	return nil
}

// ensureRowSource appends the dialect's single-row dummy table to a SELECT
// that has no FROM clause, stripping a trailing statement terminator first.
func ensureRowSource(sql string) string {
	trimmed := strings.TrimSpace(sql)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") || strings.Contains(upper, " FROM ") {
		return sql
	}
	trimmed = strings.TrimRight(trimmed, "; \t\n")
	return trimmed + " FROM " + dummyTable
}

// isBenign reports whether the driver error is one of the known harmless
// cases suppressed into an empty successful result.
func isBenign(sql string, class sqlgen.StatementClass, err error) bool {
	msg := err.Error()
	stmt := strings.TrimSpace(sql)

	switch {
	case strings.Contains(msg, codeUndefinedName) && strings.HasPrefix(stmt, "DROP "):
		return true
	case class == sqlgen.ClassDropSchema &&
		(strings.Contains(msg, codeUndefinedName) || strings.Contains(msg, codeRoutineError)):
		return true
	case strings.Contains(msg, codeDuplicateObject) && strings.HasPrefix(stmt, "CREATE "):
		return true
	case strings.Contains(msg, codeDeadlock) && strings.Contains(msg, deadlockBenignReason):
		return true
	case strings.Contains(msg, codeIndexExists):
		return true
	}
	return false
}
