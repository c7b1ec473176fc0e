// Package types provides the runtime value types result coercion produces.
package types

import "time"

// DateTime represents a timestamp
type DateTime = time.Time

// Blob represents a binary column value
type Blob = []byte

// Decimal represents a decimal number kept in its exact textual form
type Decimal struct {
	value string
}

// NewDecimal creates a new decimal from string
func NewDecimal(value string) Decimal {
	return Decimal{value: value}
}

// String returns the string representation
func (d Decimal) String() string {
	return d.value
}
