package ast

import "github.com/satishbabariya/querycompiler/query/value"

// Expression is a scalar expression tree.
type Expression interface {
	expression()
}

// Col references a column, optionally table-qualified ("t.c").
type Col struct{ Name string }

// Val binds a value as a parameter.
type Val struct{ Value value.Value }

// F references a model field by name.
type F struct{ Field string }

// Func calls a SQL function.
type Func struct {
	Name string
	Args []Expression
}

// Aggregate applies an aggregate function. A nil Field aggregates over "*".
type Aggregate struct {
	Func     string
	Field    Expression
	Distinct bool
}

// When is one branch of a Case.
type When struct {
	Condition WhereNode
	Then      Expression
}

// Case is a searched CASE expression.
type Case struct {
	Whens   []When
	Default Expression
}

// Subquery embeds a scalar subquery.
type Subquery struct{ Query *Query }

// OuterRef references a column of the enclosing query. Correlation is the
// caller's responsibility; it renders as a bare quoted column.
type OuterRef struct{ Field string }

// Exists is an EXISTS / NOT EXISTS test over a subquery.
type Exists struct {
	Query   *Query
	Negated bool
}

// WindowOrder is one ORDER BY term inside an OVER clause.
type WindowOrder struct {
	Expr       Expression
	Descending bool
}

// FrameMode selects ROWS or RANGE framing.
type FrameMode string

const (
	FrameRows  FrameMode = "ROWS"
	FrameRange FrameMode = "RANGE"
)

// FrameBoundKind is the position of a frame bound.
type FrameBoundKind int

const (
	UnboundedPreceding FrameBoundKind = iota
	Preceding
	CurrentRow
	Following
	UnboundedFollowing
)

// FrameBound is one end of a window frame. Offset is used by Preceding and Following.
type FrameBound struct {
	Kind   FrameBoundKind
	Offset int
}

// WindowFrame describes a window frame. A nil End renders the single-bound form.
type WindowFrame struct {
	Mode  FrameMode
	Start FrameBound
	End   *FrameBound
}

// Window applies a function over a window.
type Window struct {
	Func        Expression
	PartitionBy []Expression
	OrderBy     []WindowOrder
	Frame       *WindowFrame
}

// Extract pulls a date part (year, month, ...) out of a temporal expression.
type Extract struct {
	Part string
	Expr Expression
}

// DateTrunc truncates a timestamp to Kind (year, month, day, hour, ...).
type DateTrunc struct {
	Kind string
	Expr Expression
}

// Cast converts an expression to a SQL type.
type Cast struct {
	Expr Expression
	Type string
}

// Collate applies a collation.
type Collate struct {
	Expr      Expression
	Collation string
}

// RawSQL is a verbatim fragment; each "%s" marker binds the next parameter.
type RawSQL struct {
	SQL    string
	Params []value.Value
}

// ArithOp is an arithmetic operator.
type ArithOp string

const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "/"
)

// Arith is a binary arithmetic expression, rendered "(l OP r)".
type Arith struct {
	Op    ArithOp
	Left  Expression
	Right Expression
}

func (Col) expression()       {}
func (Val) expression()       {}
func (F) expression()         {}
func (Func) expression()      {}
func (Aggregate) expression() {}
func (Case) expression()      {}
func (Subquery) expression()  {}
func (OuterRef) expression()  {}
func (Exists) expression()    {}
func (Window) expression()    {}
func (Extract) expression()   {}
func (DateTrunc) expression() {}
func (Cast) expression()      {}
func (Collate) expression()   {}
func (RawSQL) expression()    {}
func (Arith) expression()     {}

// Add builds (l + r).
func Add(l, r Expression) Arith { return Arith{Op: OpAdd, Left: l, Right: r} }

// Sub builds (l - r).
func Sub(l, r Expression) Arith { return Arith{Op: OpSub, Left: l, Right: r} }

// Mul builds (l * r).
func Mul(l, r Expression) Arith { return Arith{Op: OpMul, Left: l, Right: r} }

// Div builds (l / r).
func Div(l, r Expression) Arith { return Arith{Op: OpDiv, Left: l, Right: r} }

// Count aggregates COUNT over a field, or COUNT(*) for an empty field.
func Count(field string) Aggregate { return aggregateOf("COUNT", field) }

// Sum aggregates SUM over a field.
func Sum(field string) Aggregate { return aggregateOf("SUM", field) }

// Avg aggregates AVG over a field.
func Avg(field string) Aggregate { return aggregateOf("AVG", field) }

// Min aggregates MIN over a field.
func Min(field string) Aggregate { return aggregateOf("MIN", field) }

// Max aggregates MAX over a field.
func Max(field string) Aggregate { return aggregateOf("MAX", field) }

func aggregateOf(fn, field string) Aggregate {
	if field == "" || field == "*" {
		return Aggregate{Func: fn}
	}
	return Aggregate{Func: fn, Field: Col{Name: field}}
}
