package sqlgen

import "github.com/google/uuid"

// Transaction is the identity of one logical transaction. A transaction
// with a parent is a savepoint inside the parent's connection-level
// transaction; only the outermost transaction maps to real BEGIN/COMMIT.
type Transaction struct {
	ID     string
	Parent *Transaction
}

// NewTransaction creates a transaction with a fresh id, nested under parent
// when parent is non-nil.
func NewTransaction(parent *Transaction) *Transaction {
	return &Transaction{ID: uuid.NewString(), Parent: parent}
}

// Nested reports whether the transaction is a savepoint inside a parent.
func (t *Transaction) Nested() bool {
	return t != nil && t.Parent != nil
}

// SavepointName returns the savepoint name used for a nested transaction.
func (t *Transaction) SavepointName() string {
	if t == nil {
		return ""
	}
	return t.ID
}

// StartTransaction builds the begin statement: a named savepoint for a
// nested transaction, plain BEGIN otherwise.
func (g *Generator) StartTransaction(t *Transaction) *Query {
	if t.Nested() {
		return &Query{SQL: savepointPrefix + " " + QuoteIdentifier(t.SavepointName())}
	}
	return &Query{SQL: beginPrefix}
}

// CommitTransaction builds the commit statement. A nested transaction
// commits with no SQL at all: only the outermost commit is real.
func (g *Generator) CommitTransaction(t *Transaction) *Query {
	if t.Nested() {
		return nil
	}
	return &Query{SQL: commitPrefix}
}

// RollbackTransaction builds the rollback statement: a named
// rollback-to-savepoint for a nested transaction, plain ROLLBACK otherwise.
func (g *Generator) RollbackTransaction(t *Transaction) *Query {
	if t.Nested() {
		return &Query{SQL: rollbackPrefix + " " + QuoteIdentifier(t.SavepointName())}
	}
	return &Query{SQL: rollbackPrefix}
}
