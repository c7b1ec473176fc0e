package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/db2-go/model"
)

// ErrNoUniqueConstraint is returned when no clause in the upsert filter
// disjunction is usable as a merge key. This is a configuration error: it
// fails before any SQL reaches the driver.
var ErrNoUniqueConstraint = errors.New("upsert requires a primary key or unique attribute clause with non-null values")

const (
	mergeTargetAlias = "OrmTarget"
	mergeSourceAlias = "OrmSource"
)

// Upsert builds a MERGE statement. The join condition is derived from the
// filter-clause disjunction: clauses containing a null-valued key or a
// partial composite key are excluded first; a surviving clause keyed by a
// primary-key attribute selects the primary-key join, otherwise the join
// covers the model's full unique-attribute column set, with values sourced
// from the surviving clauses and then the insert values. Identity columns
// are excluded from the UPDATE SET list because the engine forbids
// rewriting them.
func (g *Generator) Upsert(m *model.Model, insertValues, updateValues map[string]interface{}, whereClauses []map[string]interface{}) (*Query, error) {
	joinFields, joinValues, err := mergeKey(m, whereClauses)
	if err != nil {
		return nil, err
	}

	// The USING VALUES row must cover every join column. Clause-sourced
	// values win over insert values; a join column neither side names is
	// bound null.
	source := make(map[string]interface{}, len(insertValues))
	for k, v := range insertValues {
		source[k] = v
	}
	for _, f := range joinFields {
		if v, ok := joinValues[f]; ok {
			source[f] = v
			continue
		}
		if _, ok := source[f]; !ok {
			source[f] = nil
		}
	}

	table := QuoteTable(m.TableName, m.Schema)
	target := QuoteIdentifier(mergeTargetAlias)
	src := QuoteIdentifier(mergeSourceAlias)

	keys := sortedKeys(source)
	srcCols := make([]string, len(keys))
	placeholders := make([]string, len(keys))
	args := make([]interface{}, len(keys))
	for i, k := range keys {
		srcCols[i] = QuoteIdentifier(columnName(m, k))
		placeholders[i] = "?"
		args[i] = source[k]
	}

	onParts := make([]string, len(joinFields))
	for i, f := range joinFields {
		col := QuoteIdentifier(columnName(m, f))
		onParts[i] = fmt.Sprintf("%s.%s = %s.%s", target, col, src, col)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MERGE INTO %s AS %s USING (VALUES(%s)) AS %s(%s) ON %s",
		table, target,
		strings.Join(placeholders, ", "),
		src, strings.Join(srcCols, ", "),
		strings.Join(onParts, " AND "))

	if set := mergeSetList(m, updateValues, src); len(set) > 0 {
		fmt.Fprintf(&b, " WHEN MATCHED THEN UPDATE SET %s", strings.Join(set, ", "))
	}

	insertRefs := make([]string, len(keys))
	for i := range keys {
		insertRefs[i] = src + "." + srcCols[i]
	}
	fmt.Fprintf(&b, " WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s)",
		strings.Join(srcCols, ", "), strings.Join(insertRefs, ", "))

	return &Query{SQL: b.String(), Args: args}, nil
}

// mergeSetList builds the UPDATE SET assignments, skipping identity columns
// even if the caller requested updating them.
func mergeSetList(m *model.Model, updateValues map[string]interface{}, src string) []string {
	var set []string
	for _, k := range sortedKeys(updateValues) {
		if a := m.Attribute(k); a != nil && a.AutoIncrement {
			continue
		}
		col := QuoteIdentifier(columnName(m, k))
		set = append(set, fmt.Sprintf("%s = %s.%s", col, src, col))
	}
	return set
}

// mergeKey selects the merge join fields and their values from the filter
// disjunction. Primary key takes precedence; otherwise the join covers the
// model's full unique-attribute set, not just the columns the clauses name.
func mergeKey(m *model.Model, whereClauses []map[string]interface{}) ([]string, map[string]interface{}, error) {
	pkFields := make([]string, 0)
	for _, a := range m.PrimaryKeyAttributes() {
		pkFields = append(pkFields, a.Name)
	}

	usable := usableClauses(m, whereClauses, pkFields)
	if len(usable) == 0 {
		return nil, nil, ErrNoUniqueConstraint
	}

	// Primary key first: any usable clause keyed by a primary-key
	// attribute joins on all primary-key columns.
	for _, clause := range usable {
		if len(pkFields) == 0 {
			break
		}
		if clauseCovers(clause, pkFields) {
			values := map[string]interface{}{}
			for _, f := range pkFields {
				values[f] = clause[f]
			}
			return pkFields, values, nil
		}
	}

	// Otherwise join on every unique attribute the model declares. Values
	// come from the surviving clauses where available; the caller fills
	// the rest from the insert values.
	fields := m.UniqueAttributeNames()
	if len(fields) == 0 {
		return nil, nil, ErrNoUniqueConstraint
	}
	values := map[string]interface{}{}
	for _, name := range fields {
		for _, clause := range usable {
			if v, ok := clause[name]; ok {
				values[name] = v
				break
			}
		}
	}
	return fields, values, nil
}

// usableClauses drops clauses with any null-valued key and clauses that are
// a partial composite: a composite key match requires every component
// present and non-null.
func usableClauses(m *model.Model, clauses []map[string]interface{}, pkFields []string) []map[string]interface{} {
	var out []map[string]interface{}
clauses:
	for _, clause := range clauses {
		if len(clause) == 0 {
			continue
		}
		for _, v := range clause {
			if v == nil {
				continue clauses
			}
		}
		if partialComposite(clause, pkFields) {
			continue
		}
		for _, uk := range m.UniqueKeys {
			if partialComposite(clause, uk.Fields) {
				continue clauses
			}
		}
		out = append(out, clause)
	}
	return out
}

// partialComposite reports whether the clause mentions some but not all of
// the composite's components.
func partialComposite(clause map[string]interface{}, composite []string) bool {
	if len(composite) < 2 {
		return false
	}
	mentioned := 0
	for _, f := range composite {
		if _, ok := clause[f]; ok {
			mentioned++
		}
	}
	return mentioned > 0 && mentioned < len(composite)
}

// clauseCovers reports whether the clause contains every listed field.
func clauseCovers(clause map[string]interface{}, fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		if _, ok := clause[f]; !ok {
			return false
		}
	}
	return true
}
