// Package columns provides typed column handles that build WHERE conditions,
// ORDER BY terms and expressions without going through field path strings.
package columns

import (
	"time"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/value"
)

// Column represents a database column
type Column interface {
	// Name returns the column name
	Name() string
	// Table returns the table name, empty for unqualified columns
	Table() string
	// Ref returns the column reference used in conditions ("table.column")
	Ref() string
}

// BaseColumn is the base implementation for all column types
type BaseColumn struct {
	name  string
	table string
}

// Name returns the column name
func (c BaseColumn) Name() string {
	return c.name
}

// Table returns the table name
func (c BaseColumn) Table() string {
	return c.table
}

// Ref returns the column reference, qualified when the column has a table.
func (c BaseColumn) Ref() string {
	if c.table == "" {
		return c.name
	}
	return c.table + "." + c.name
}

// Expr returns the column as an expression for annotations and assignments.
func (c BaseColumn) Expr() ast.Col {
	return ast.Col{Name: c.Ref()}
}

// Asc orders by the column ascending
func (c BaseColumn) Asc() ast.OrderBy {
	return ast.Asc(c.Ref())
}

// Desc orders by the column descending
func (c BaseColumn) Desc() ast.OrderBy {
	return ast.Desc(c.Ref())
}

// IsNull creates an IS NULL condition
func (c BaseColumn) IsNull() ast.Condition {
	return c.cond(ast.IsNull{IsNull: true})
}

// IsNotNull creates an IS NOT NULL condition
func (c BaseColumn) IsNotNull() ast.Condition {
	return c.cond(ast.IsNull{IsNull: false})
}

// EqColumn compares against another column
func (c BaseColumn) EqColumn(other Column) ast.Condition {
	return c.cond(ast.EqualsColumn{Column: other.Ref()})
}

func (c BaseColumn) cond(l ast.Lookup) ast.Condition {
	return ast.Cond(c.Ref(), l)
}

func (c BaseColumn) eq(v value.Value) ast.Condition {
	return c.cond(ast.Exact{Value: v})
}

func (c BaseColumn) notEq(v value.Value) ast.Not {
	return ast.Negate(c.eq(v))
}

func (c BaseColumn) in(vals []value.Value) ast.Condition {
	return c.cond(ast.In{Values: vals})
}

// IntColumn represents an integer column
type IntColumn struct {
	BaseColumn
}

// NewIntColumn creates a new IntColumn
func NewIntColumn(table, name string) IntColumn {
	return IntColumn{BaseColumn{name: name, table: table}}
}

func (c IntColumn) Eq(v int64) ast.Condition { return c.eq(value.Int(v)) }
func (c IntColumn) NotEq(v int64) ast.Not { return c.notEq(value.Int(v)) }
func (c IntColumn) Gt(v int64) ast.Condition { return c.cond(ast.Gt{Value: value.Int(v)}) }
func (c IntColumn) Gte(v int64) ast.Condition { return c.cond(ast.Gte{Value: value.Int(v)}) }
func (c IntColumn) Lt(v int64) ast.Condition { return c.cond(ast.Lt{Value: value.Int(v)}) }
func (c IntColumn) Lte(v int64) ast.Condition { return c.cond(ast.Lte{Value: value.Int(v)}) }
func (c IntColumn) In(vs ...int64) ast.Condition { return c.in(value.Ints(vs...)) }

// NotIn creates a NOT IN condition
func (c IntColumn) NotIn(vs ...int64) ast.Not {
	return ast.Negate(c.In(vs...))
}

// Between creates a BETWEEN condition, bounds included
func (c IntColumn) Between(low, high int64) ast.Condition {
	return c.cond(ast.Range{Low: value.Int(low), High: value.Int(high)})
}

// Sum aggregates the column
func (c IntColumn) Sum() ast.Aggregate {
	return ast.Sum(c.Ref())
}

// FloatColumn represents a floating point column
type FloatColumn struct {
	BaseColumn
}

// NewFloatColumn creates a new FloatColumn
func NewFloatColumn(table, name string) FloatColumn {
	return FloatColumn{BaseColumn{name: name, table: table}}
}

func (c FloatColumn) Eq(v float64) ast.Condition { return c.eq(value.Float(v)) }
func (c FloatColumn) Gt(v float64) ast.Condition { return c.cond(ast.Gt{Value: value.Float(v)}) }
func (c FloatColumn) Gte(v float64) ast.Condition { return c.cond(ast.Gte{Value: value.Float(v)}) }
func (c FloatColumn) Lt(v float64) ast.Condition { return c.cond(ast.Lt{Value: value.Float(v)}) }
func (c FloatColumn) Lte(v float64) ast.Condition { return c.cond(ast.Lte{Value: value.Float(v)}) }

// Avg aggregates the column
func (c FloatColumn) Avg() ast.Aggregate {
	return ast.Avg(c.Ref())
}

// StringColumn represents a string column
type StringColumn struct {
	BaseColumn
}

// NewStringColumn creates a new StringColumn
func NewStringColumn(table, name string) StringColumn {
	return StringColumn{BaseColumn{name: name, table: table}}
}

func (c StringColumn) Eq(v string) ast.Condition { return c.eq(value.String(v)) }
func (c StringColumn) NotEq(v string) ast.Not { return c.notEq(value.String(v)) }
func (c StringColumn) IEq(v string) ast.Condition { return c.cond(ast.IExact{Value: value.String(v)}) }
func (c StringColumn) In(vs ...string) ast.Condition { return c.in(value.Strings(vs...)) }

// NotIn creates a NOT IN condition
func (c StringColumn) NotIn(vs ...string) ast.Not {
	return ast.Negate(c.In(vs...))
}

// Contains creates a LIKE condition with wildcards on both sides
func (c StringColumn) Contains(v string) ast.Condition {
	return c.cond(ast.Contains{Value: v})
}

// IContains is the case-insensitive Contains
func (c StringColumn) IContains(v string) ast.Condition {
	return c.cond(ast.IContains{Value: v})
}

// StartsWith creates a LIKE condition that matches the start
func (c StringColumn) StartsWith(v string) ast.Condition {
	return c.cond(ast.StartsWith{Value: v})
}

// EndsWith creates a LIKE condition that matches the end
func (c StringColumn) EndsWith(v string) ast.Condition {
	return c.cond(ast.EndsWith{Value: v})
}

// Matches creates a regular expression condition
func (c StringColumn) Matches(pattern string) ast.Condition {
	return c.cond(ast.Regex{Pattern: pattern})
}

// NullableStringColumn represents a nullable string column
type NullableStringColumn struct {
	StringColumn
}

// NewNullableStringColumn creates a new NullableStringColumn
func NewNullableStringColumn(table, name string) NullableStringColumn {
	return NullableStringColumn{NewStringColumn(table, name)}
}

// EqPtr compares against v, or tests IS NULL when v is nil.
func (c NullableStringColumn) EqPtr(v *string) ast.Condition {
	if v == nil {
		return c.IsNull()
	}
	return c.Eq(*v)
}

// BoolColumn represents a boolean column
type BoolColumn struct {
	BaseColumn
}

// NewBoolColumn creates a new BoolColumn
func NewBoolColumn(table, name string) BoolColumn {
	return BoolColumn{BaseColumn{name: name, table: table}}
}

func (c BoolColumn) Eq(v bool) ast.Condition { return c.eq(value.Bool(v)) }
func (c BoolColumn) NotEq(v bool) ast.Not { return c.notEq(value.Bool(v)) }

// IsTrue is shorthand for Eq(true)
func (c BoolColumn) IsTrue() ast.Condition {
	return c.Eq(true)
}

// DateTimeColumn represents a datetime column
type DateTimeColumn struct {
	BaseColumn
}

// NewDateTimeColumn creates a new DateTimeColumn
func NewDateTimeColumn(table, name string) DateTimeColumn {
	return DateTimeColumn{BaseColumn{name: name, table: table}}
}

func (c DateTimeColumn) Eq(t time.Time) ast.Condition { return c.eq(value.NewTime(t)) }
func (c DateTimeColumn) Gt(t time.Time) ast.Condition { return c.cond(ast.Gt{Value: value.NewTime(t)}) }
func (c DateTimeColumn) Gte(t time.Time) ast.Condition { return c.cond(ast.Gte{Value: value.NewTime(t)}) }
func (c DateTimeColumn) Lt(t time.Time) ast.Condition { return c.cond(ast.Lt{Value: value.NewTime(t)}) }
func (c DateTimeColumn) Lte(t time.Time) ast.Condition { return c.cond(ast.Lte{Value: value.NewTime(t)}) }

// Between creates a BETWEEN condition, bounds included
func (c DateTimeColumn) Between(from, to time.Time) ast.Condition {
	return c.cond(ast.Range{Low: value.NewTime(from), High: value.NewTime(to)})
}

// Truncate truncates the column to kind ("day", "month", ...)
func (c DateTimeColumn) Truncate(kind string) ast.DateTrunc {
	return ast.DateTrunc{Kind: kind, Expr: c.Expr()}
}

// And combines conditions with AND
func And(nodes ...ast.WhereNode) ast.And {
	return ast.AllOf(nodes...)
}

// Or combines conditions with OR
func Or(nodes ...ast.WhereNode) ast.Or {
	return ast.AnyOf(nodes...)
}

// Not negates a condition
func Not(node ast.WhereNode) ast.Not {
	return ast.Negate(node)
}
