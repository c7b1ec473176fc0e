// Package sqlgen provides WHERE clause structures.
package sqlgen

// WhereClause represents a WHERE condition (can be nested)
type WhereClause struct {
	Conditions []Condition
	Groups     []*WhereClause // Nested WHERE clauses for AND/OR/NOT
	Operator   string         // "AND" or "OR"
	IsNot      bool           // true for NOT conditions
}

// Condition represents a single filter condition
type Condition struct {
	Field    string
	Operator string // "=", "!=", ">", "<", ">=", "<=", "IN", "NOT IN", "LIKE", "IS NULL", "IS NOT NULL"
	Value    interface{}
}

// NewWhereClause creates a new WHERE clause
func NewWhereClause() *WhereClause {
	return &WhereClause{
		Conditions: []Condition{},
		Groups:     []*WhereClause{},
		Operator:   "AND",
	}
}

// Eq builds an AND-joined WHERE clause of equality conditions over the
// given attribute values, in stable order.
func Eq(values map[string]interface{}) *WhereClause {
	w := NewWhereClause()
	for _, k := range sortedKeys(values) {
		w.AddCondition(Condition{Field: k, Operator: "=", Value: values[k]})
	}
	return w
}

// AddCondition adds a condition to the WHERE clause
func (w *WhereClause) AddCondition(condition Condition) {
	w.Conditions = append(w.Conditions, condition)
}

// AddGroup adds a nested WHERE clause
func (w *WhereClause) AddGroup(group *WhereClause) {
	w.Groups = append(w.Groups, group)
}

// IsEmpty returns true if the WHERE clause is empty
func (w *WhereClause) IsEmpty() bool {
	return w == nil || (len(w.Conditions) == 0 && len(w.Groups) == 0)
}
