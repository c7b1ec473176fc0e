package sqlgen

import (
	"fmt"
	"regexp"
	"strings"
)

// ColumnDefinition pairs a column name with its SQL type fragment. The
// fragment may carry inline REFERENCES and COMMENT pieces; the DDL builders
// relocate both, since DB2 disallows inline column-level REFERENCES with
// certain constraint combinations and has no inline column comments.
type ColumnDefinition struct {
	Name string
	Type string
}

var (
	commentFragmentRe    = regexp.MustCompile(`(?i)\s+COMMENT\s+'((?:[^']|'')*)'`)
	referencesFragmentRe = regexp.MustCompile(`(?i)\s+(REFERENCES\s+.+)$`)
)

// CreateTable builds the table DDL. Inline COMMENT fragments become trailing
// COMMENT ON COLUMN statements appended after the table DDL; inline
// REFERENCES fragments are deferred to a trailing FOREIGN KEY clause list.
func (g *Generator) CreateTable(table, schema string, columns []ColumnDefinition) *Query {
	qualified := QuoteTable(table, schema)

	var defs []string
	var foreignKeys []string
	var comments []string

	for _, col := range columns {
		typ := col.Type

		if m := commentFragmentRe.FindStringSubmatch(typ); m != nil {
			typ = commentFragmentRe.ReplaceAllString(typ, "")
			comments = append(comments, fmt.Sprintf("COMMENT ON COLUMN %s.%s IS '%s'",
				qualified, QuoteIdentifier(col.Name), escapeString(strings.ReplaceAll(m[1], "''", "'"))))
		}

		if m := referencesFragmentRe.FindStringSubmatch(typ); m != nil {
			typ = strings.TrimSpace(referencesFragmentRe.ReplaceAllString(typ, ""))
			foreignKeys = append(foreignKeys, fmt.Sprintf("FOREIGN KEY (%s) %s",
				QuoteIdentifier(col.Name), strings.TrimSpace(m[1])))
		}

		defs = append(defs, QuoteIdentifier(col.Name)+" "+strings.TrimSpace(typ))
	}

	defs = append(defs, foreignKeys...)

	sql := fmt.Sprintf("CREATE TABLE %s (%s)", qualified, strings.Join(defs, ", "))
	for _, c := range comments {
		sql += "; " + c
	}
	return &Query{SQL: sql}
}

// ChangeColumn builds one ALTER TABLE statement from per-column definition
// fragments. Each fragment is classified as a drop clause, a plain
// redefinition (prefixed with SET), or a reference redefinition (emitted as
// ADD CONSTRAINT ... FOREIGN KEY); the ALTER COLUMN clause list comes first,
// the ADD CONSTRAINT clause list after it.
func (g *Generator) ChangeColumn(table, schema string, columns []ColumnDefinition) *Query {
	qualified := QuoteTable(table, schema)

	var alterClauses []string
	var constraintClauses []string

	for _, col := range columns {
		def := strings.TrimSpace(col.Type)
		quoted := QuoteIdentifier(col.Name)

		switch {
		case referencesFragmentRe.MatchString(" " + def):
			ref := strings.TrimSpace(referencesFragmentRe.FindStringSubmatch(" " + def)[1])
			name := fmt.Sprintf("%s_%s_fk", table, col.Name)
			constraintClauses = append(constraintClauses,
				fmt.Sprintf("ADD CONSTRAINT %s FOREIGN KEY (%s) %s", QuoteIdentifier(name), quoted, ref))
		case strings.HasPrefix(strings.ToUpper(def), "DROP "):
			alterClauses = append(alterClauses, fmt.Sprintf("ALTER COLUMN %s %s", quoted, def))
		default:
			alterClauses = append(alterClauses, fmt.Sprintf("ALTER COLUMN %s SET %s", quoted, def))
		}
	}

	clauses := append(alterClauses, constraintClauses...)
	return &Query{SQL: fmt.Sprintf("ALTER TABLE %s %s", qualified, strings.Join(clauses, " "))}
}
