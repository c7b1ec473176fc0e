package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/db2-go/model"
)

// Insert builds a single-row insert. The literal INSERT is wrapped in a
// SELECT * FROM FINAL TABLE(...) construct so that identity values generated
// by the engine come back without a second round trip.
//
// When no explicit row values remain, DB2 rejects a zero-column VALUES list,
// so a single synthetic value from the generator's counter is written to the
// identity column instead.
func (g *Generator) Insert(m *model.Model, values map[string]interface{}) *Query {
	table := QuoteTable(m.TableName, m.Schema)

	if len(values) == 0 {
		col := syntheticColumn(m)
		insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%d)",
			table, QuoteIdentifier(col), g.nextSynthetic())
		return &Query{SQL: wrapFinalTable(insert)}
	}

	keys := sortedKeys(values)
	cols := make([]string, len(keys))
	placeholders := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		cols[i] = QuoteIdentifier(columnName(m, k))
		placeholders[i] = "?"
		args[i] = values[k]
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return &Query{SQL: wrapFinalTable(insert), Args: args}
}

// BulkInsert builds the statements for a multi-row insert. Rows whose only
// populated field is a null identity primary key cannot share a VALUES list
// with fully-populated rows, so they are split into a separate single-column
// insert fed by the synthetic counter. All remaining rows are batched into
// one multi-row VALUES list keyed by the union of attribute names observed
// across them; an identity cell a row omits is emitted as DEFAULT.
func (g *Generator) BulkInsert(m *model.Model, rows []map[string]interface{}) []*Query {
	table := QuoteTable(m.TableName, m.Schema)
	ai := m.AutoIncrementAttribute()

	var plain []map[string]interface{}
	syntheticRows := 0
	for _, row := range rows {
		if onlyNullIdentity(row, ai) {
			syntheticRows++
			continue
		}
		plain = append(plain, row)
	}

	var queries []*Query

	if len(plain) > 0 {
		union := unionKeys(plain)
		cols := make([]string, len(union))
		for i, k := range union {
			cols[i] = QuoteIdentifier(columnName(m, k))
		}

		var tuples []string
		var args []interface{}
		for _, row := range plain {
			cells := make([]string, len(union))
			for i, k := range union {
				v, present := row[k]
				switch {
				case !present && ai != nil && k == ai.Name:
					cells[i] = "DEFAULT"
				default:
					cells[i] = "?"
					args = append(args, v)
				}
			}
			tuples = append(tuples, "("+strings.Join(cells, ", ")+")")
		}

		queries = append(queries, &Query{
			SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
				table, strings.Join(cols, ", "), strings.Join(tuples, ", ")),
			Args: args,
		})
	}

	if syntheticRows > 0 {
		col := syntheticColumn(m)
		tuples := make([]string, syntheticRows)
		for i := range tuples {
			tuples[i] = fmt.Sprintf("(%d)", g.nextSynthetic())
		}
		queries = append(queries, &Query{
			SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
				table, QuoteIdentifier(col), strings.Join(tuples, ", ")),
		})
	}

	return queries
}

// onlyNullIdentity reports whether the row's only populated field is a null
// identity primary key.
func onlyNullIdentity(row map[string]interface{}, ai *model.Attribute) bool {
	if ai == nil || !ai.PrimaryKey || len(row) != 1 {
		return false
	}
	v, ok := row[ai.Name]
	return ok && v == nil
}

// unionKeys returns the union of attribute names observed across all rows,
// in stable order.
func unionKeys(rows []map[string]interface{}) []string {
	merged := map[string]interface{}{}
	for _, row := range rows {
		for k := range row {
			merged[k] = nil
		}
	}
	return sortedKeys(merged)
}

// syntheticColumn picks the column that receives a synthetic counter value:
// the identity attribute when declared, else the first primary key, else id.
func syntheticColumn(m *model.Model) string {
	if ai := m.AutoIncrementAttribute(); ai != nil {
		return ai.ColumnName()
	}
	if pks := m.PrimaryKeyAttributes(); len(pks) > 0 {
		return pks[0].ColumnName()
	}
	return "id"
}

func wrapFinalTable(dml string) string {
	return "SELECT * FROM FINAL TABLE (" + dml + ")"
}
