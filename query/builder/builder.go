// Package builder provides a fluent query builder API over the query AST.
//
// Filters are written as "field__transform__lookup" paths and resolved
// through a lookup registry, the way an ORM layer feeds the compiler.
package builder

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/lookup"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

const (
	OperatorAnd = "AND"
	OperatorOr  = "OR"
)

// WhereBuilder builds WHERE trees
type WhereBuilder struct {
	registry *lookup.Registry
	backend  sqlgen.Backend
	nodes    []ast.WhereNode
	operator string
	err      error
}

// NewWhereBuilder creates a WHERE builder using the default registry
func NewWhereBuilder(backend sqlgen.Backend) *WhereBuilder {
	return &WhereBuilder{
		registry: lookup.Default(),
		backend:  backend,
		operator: OperatorAnd,
	}
}

// WithRegistry resolves paths against r instead of the default registry
func (w *WhereBuilder) WithRegistry(r *lookup.Registry) *WhereBuilder {
	w.registry = r
	return w
}

// Filter adds a condition from a field path such as "name__icontains"
func (w *WhereBuilder) Filter(path string, v any) *WhereBuilder {
	if cond, ok := w.condition(path, v); ok {
		w.nodes = append(w.nodes, cond)
	}
	return w
}

// Exclude adds a negated condition from a field path
func (w *WhereBuilder) Exclude(path string, v any) *WhereBuilder {
	if cond, ok := w.condition(path, v); ok {
		w.nodes = append(w.nodes, ast.Negate(cond))
	}
	return w
}

// Node adds an already-built node
func (w *WhereBuilder) Node(node ast.WhereNode) *WhereBuilder {
	if node != nil {
		w.nodes = append(w.nodes, node)
	}
	return w
}

// Equals adds an equality condition
func (w *WhereBuilder) Equals(field string, v any) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"exact", v)
}

// NotEquals adds a not-equals condition
func (w *WhereBuilder) NotEquals(field string, v any) *WhereBuilder {
	return w.Exclude(field+lookup.PathSeparator+"exact", v)
}

// GreaterThan adds a greater-than condition
func (w *WhereBuilder) GreaterThan(field string, v any) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"gt", v)
}

// LessThan adds a less-than condition
func (w *WhereBuilder) LessThan(field string, v any) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"lt", v)
}

// GreaterOrEqual adds a greater-or-equal condition
func (w *WhereBuilder) GreaterOrEqual(field string, v any) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"gte", v)
}

// LessOrEqual adds a less-or-equal condition
func (w *WhereBuilder) LessOrEqual(field string, v any) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"lte", v)
}

// In adds an IN condition
func (w *WhereBuilder) In(field string, values any) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"in", values)
}

// NotIn adds a NOT IN condition
func (w *WhereBuilder) NotIn(field string, values any) *WhereBuilder {
	return w.Exclude(field+lookup.PathSeparator+"in", values)
}

// Contains adds a substring condition
func (w *WhereBuilder) Contains(field string, s string) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"contains", s)
}

// IsNull adds an IS NULL condition
func (w *WhereBuilder) IsNull(field string) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"isnull", true)
}

// IsNotNull adds an IS NOT NULL condition
func (w *WhereBuilder) IsNotNull(field string) *WhereBuilder {
	return w.Filter(field+lookup.PathSeparator+"isnull", false)
}

// SetOperator sets the logical operator (AND or OR)
func (w *WhereBuilder) SetOperator(op string) *WhereBuilder {
	w.operator = strings.ToUpper(op)
	return w
}

// Build returns the WHERE tree, or nil when no conditions were added.
// The first path or value error is reported here.
func (w *WhereBuilder) Build() (ast.WhereNode, error) {
	if w.err != nil {
		return nil, w.err
	}
	switch len(w.nodes) {
	case 0:
		return nil, nil
	case 1:
		return w.nodes[0], nil
	}
	nodes := append([]ast.WhereNode(nil), w.nodes...)
	if w.operator == OperatorOr {
		return ast.Or(nodes), nil
	}
	return ast.And(nodes), nil
}

func (w *WhereBuilder) condition(path string, v any) (ast.Condition, bool) {
	if w.err != nil {
		return ast.Condition{}, false
	}
	val, err := value.Of(v)
	if err != nil {
		w.err = fmt.Errorf("%s: %w", path, err)
		return ast.Condition{}, false
	}
	cond, err := w.registry.Condition(path, val, w.backend)
	if err != nil {
		w.err = err
		return ast.Condition{}, false
	}
	return cond, true
}

func (w *WhereBuilder) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}
