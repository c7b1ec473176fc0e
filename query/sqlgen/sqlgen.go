// Package sqlgen generates DB2 SQL for the ORM query layer and classifies
// finalized statement text.
package sqlgen

import (
	"sort"
	"strings"
	"sync/atomic"

	"github.com/satishbabariya/db2-go/model"
)

// Query represents a SQL statement with positional bind arguments. It is
// immutable once built: constructed by a builder, consumed exactly once by
// the executor.
type Query struct {
	SQL  string
	Args []interface{}
}

// Options carry the ambient per-call context the classifier and the result
// normalizer consult. All fields are optional.
type Options struct {
	Model    *model.Model
	Instance *model.Instance

	// Fields is the insert column list in positional order, used for
	// constraint-error attribution.
	Fields []string

	// Where holds the flattened where-clause values of the failing
	// operation, used for constraint-error attribution.
	Where map[string]interface{}

	// Plain makes an insert return the first column of the first row.
	Plain bool

	// Raw marks a caller-supplied statement whose rows are returned
	// together with their column metadata.
	Raw bool

	BulkUpdate bool
	BulkDelete bool

	Transaction *Transaction
}

// Generator builds DB2 statements. The only state it carries is the
// synthetic-value counter used for inserts with no explicit row values;
// everything else is pure. Scoping the counter to the generator keeps
// concurrent generators independent.
type Generator struct {
	synthetic int64
}

// NewGenerator creates a new DB2 SQL generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// nextSynthetic returns the next value of the monotonically increasing
// per-generator counter.
func (g *Generator) nextSynthetic() int64 {
	return atomic.AddInt64(&g.synthetic, 1)
}

// QuoteIdentifier quotes an identifier for DB2.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteTable quotes a table name, schema-qualified when schema is non-empty.
func QuoteTable(table, schema string) string {
	if schema != "" {
		return QuoteIdentifier(schema) + "." + QuoteIdentifier(table)
	}
	return QuoteIdentifier(table)
}

// escapeString escapes a string literal for embedding in SQL text.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// columnName maps an attribute name to its column through the model, falling
// back to the attribute name itself.
func columnName(m *model.Model, attr string) string {
	if m != nil {
		if a := m.Attribute(attr); a != nil {
			return a.ColumnName()
		}
	}
	return attr
}

// sortedKeys returns the map keys in a stable order.
func sortedKeys(values map[string]interface{}) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
