package executor

import (
	"fmt"
	"sync"

	"github.com/satishbabariya/db2-go/runtime/types"
)

// ParserFunc converts a raw driver cell value into its runtime type.
type ParserFunc func(value interface{}) (interface{}, error)

// ParserRegistry maps driver type names to value parsers. A registered
// parser takes precedence over the built-in coercions.
type ParserRegistry struct {
	mu      sync.RWMutex
	parsers map[string]ParserFunc
}

// NewParserRegistry creates an empty registry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{parsers: make(map[string]ParserFunc)}
}

// DefaultParsers returns a registry with the stock decimal parsers, which
// keep exact values in textual form instead of lossy floats.
func DefaultParsers() *ParserRegistry {
	r := NewParserRegistry()
	for _, name := range []string{"DECIMAL", "DECFLOAT"} {
		r.Register(name, func(value interface{}) (interface{}, error) {
			return types.NewDecimal(fmt.Sprint(value)), nil
		})
	}
	return r
}

// Register installs a parser for a driver type name, replacing any
// previous one.
func (r *ParserRegistry) Register(typeName string, fn ParserFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[typeName] = fn
}

// Lookup finds the parser registered for a driver type name.
func (r *ParserRegistry) Lookup(typeName string) (ParserFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.parsers[typeName]
	return fn, ok
}
