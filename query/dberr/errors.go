// Package dberr translates raw DB2 driver errors into the small semantic
// taxonomy the ORM layer consumes. Callers never see vendor error text
// directly; every translated error carries the original as its cause.
package dberr

import "fmt"

// ValidationItem is one field-level entry of a unique constraint violation.
type ValidationItem struct {
	Message string
	Type    string
	Path    string
	Value   interface{}
}

// UniqueConstraintError reports a duplicate value on a unique index or
// primary key, attributed to the offending fields where possible.
type UniqueConstraintError struct {
	Message string
	Fields  map[string]interface{}
	Errors  []ValidationItem
	cause   error
}

func (e *UniqueConstraintError) Error() string { return e.Message }
func (e *UniqueConstraintError) Unwrap() error { return e.cause }

// ForeignKeyConstraintError reports a violated referential constraint.
type ForeignKeyConstraintError struct {
	Message string
	Index   string
	cause   error
}

func (e *ForeignKeyConstraintError) Error() string { return e.Message }
func (e *ForeignKeyConstraintError) Unwrap() error { return e.cause }

// UnknownConstraintError reports an undefined name, with the table it
// occurred in when that can be recovered from the failing SQL.
type UnknownConstraintError struct {
	Message    string
	Constraint string
	Table      string
	cause      error
}

func (e *UnknownConstraintError) Error() string { return e.Message }
func (e *UnknownConstraintError) Unwrap() error { return e.cause }

// DatabaseError is the catch-all for driver errors with no more specific
// translation. The statement text and bind parameters are attached for
// diagnosability.
type DatabaseError struct {
	SQL        string
	Parameters []interface{}
	cause      error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %v", e.cause)
}

func (e *DatabaseError) Unwrap() error { return e.cause }
