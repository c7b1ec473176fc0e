// Package sqlgen provides WHERE clause building logic.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/db2-go/model"
)

// buildWhere builds a DB2 WHERE clause with ? placeholders, mapping
// attribute names to column names through the model.
func buildWhere(m *model.Model, where *WhereClause) (string, []interface{}) {
	if where.IsEmpty() {
		return "", nil
	}

	var parts []string
	var args []interface{}

	for _, cond := range where.Conditions {
		condSQL, condArgs := buildCondition(m, cond)
		if condSQL != "" {
			parts = append(parts, condSQL)
			args = append(args, condArgs...)
		}
	}

	// Nested groups are wrapped in parentheses for precedence.
	for _, group := range where.Groups {
		groupSQL, groupArgs := buildWhere(m, group)
		if groupSQL != "" {
			parts = append(parts, "("+groupSQL+")")
			args = append(args, groupArgs...)
		}
	}

	if len(parts) == 0 {
		return "", nil
	}

	op := "AND"
	if strings.EqualFold(where.Operator, "OR") {
		op = "OR"
	}

	result := strings.Join(parts, " "+op+" ")
	if where.IsNot {
		result = "NOT (" + result + ")"
	}

	return result, args
}

// buildCondition builds a single condition
func buildCondition(m *model.Model, cond Condition) (string, []interface{}) {
	col := QuoteIdentifier(columnName(m, cond.Field))

	switch cond.Operator {
	case "=", "!=", ">", "<", ">=", "<=":
		return fmt.Sprintf("%s %s ?", col, cond.Operator), []interface{}{cond.Value}

	case "IN", "NOT IN":
		values, ok := cond.Value.([]interface{})
		if !ok || len(values) == 0 {
			return "", nil
		}
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = "?"
		}
		return fmt.Sprintf("%s %s (%s)", col, cond.Operator, strings.Join(placeholders, ", ")), values

	case "LIKE":
		return col + " LIKE ?", []interface{}{cond.Value}

	case "IS NULL":
		return col + " IS NULL", nil

	case "IS NOT NULL":
		return col + " IS NOT NULL", nil
	}

	return "", nil
}
