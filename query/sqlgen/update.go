package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/db2-go/model"
)

// Update builds an update wrapped in SELECT * FROM FINAL TABLE(...) so the
// rewritten rows come back with the result. DB2 forbids a row limit directly
// on UPDATE; when limit > 0 the update targets a derived subquery that
// restricts the rows with FETCH NEXT instead, and the FINAL TABLE wrapper is
// dropped.
func (g *Generator) Update(m *model.Model, values map[string]interface{}, where *WhereClause, limit int) *Query {
	table := QuoteTable(m.TableName, m.Schema)

	keys := sortedKeys(values)
	setParts := make([]string, len(keys))
	setArgs := make([]interface{}, len(keys))
	for i, k := range keys {
		setParts[i] = QuoteIdentifier(columnName(m, k)) + " = ?"
		setArgs[i] = values[k]
	}
	setClause := "SET " + strings.Join(setParts, ", ")

	whereSQL, whereArgs := buildWhere(m, where)

	if limit > 0 {
		// Bind order follows text order: the subquery's WHERE comes
		// before the SET list.
		target := "SELECT * FROM " + table
		if whereSQL != "" {
			target += " WHERE " + whereSQL
		}
		target += fmt.Sprintf(" FETCH NEXT %d ROWS ONLY", limit)

		args := append(append([]interface{}{}, whereArgs...), setArgs...)
		return &Query{SQL: fmt.Sprintf("UPDATE (%s) %s", target, setClause), Args: args}
	}

	update := fmt.Sprintf("UPDATE %s %s", table, setClause)
	args := append(append([]interface{}{}, setArgs...), whereArgs...)
	if whereSQL != "" {
		update += " WHERE " + whereSQL
	}
	return &Query{SQL: wrapFinalTable(update), Args: args}
}

// Delete builds a delete statement. An empty where clause is kept illegal at
// the call site, not here; the builder emits exactly what it is given.
func (g *Generator) Delete(m *model.Model, where *WhereClause) *Query {
	table := QuoteTable(m.TableName, m.Schema)
	whereSQL, args := buildWhere(m, where)

	sql := "DELETE FROM " + table
	if whereSQL != "" {
		sql += " WHERE " + whereSQL
	}
	return &Query{SQL: sql, Args: args}
}
