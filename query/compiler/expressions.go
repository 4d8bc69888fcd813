package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// rawMarker binds the next RawSQL parameter.
const rawMarker = "%s"

// CompileExpression compiles a standalone expression.
func (c *Compiler) CompileExpression(expr ast.Expression) (string, []value.Value) {
	args := sqlgen.NewArgs(c.backend)
	sql := c.expression(expr, args)
	return sql, args.Values()
}

func (c *Compiler) expression(expr ast.Expression, args *sqlgen.Args) string {
	switch e := expr.(type) {
	case nil:
		return "NULL"
	case ast.Col:
		return sqlgen.QuoteRef(e.Name)
	case ast.F:
		return sqlgen.QuoteRef(e.Field)
	case ast.OuterRef:
		return sqlgen.QuoteRef(e.Field)
	case ast.Val:
		return args.Bind(e.Value)

	case ast.Func:
		return e.Name + "(" + c.expressionList(e.Args, args) + ")"
	case ast.Aggregate:
		return c.aggregate(e, args)
	case ast.Case:
		return c.caseExpr(e, args)

	case ast.Subquery:
		return "(" + c.selectInto(e.Query, args, false) + ")"
	case ast.Exists:
		inner := c.selectInto(e.Query, args, true)
		if e.Negated {
			return "NOT EXISTS (" + inner + ")"
		}
		return "EXISTS (" + inner + ")"

	case ast.Window:
		return c.window(e, args)
	case ast.Extract:
		return c.backend.Extract(e.Part, c.expression(e.Expr, args))
	case ast.DateTrunc:
		return c.backend.DateTrunc(e.Kind, c.expression(e.Expr, args))
	case ast.Cast:
		return fmt.Sprintf("CAST(%s AS %s)", c.expression(e.Expr, args), e.Type)
	case ast.Collate:
		return c.expression(e.Expr, args) + " COLLATE " + sqlgen.Quote(e.Collation)
	case ast.RawSQL:
		return c.rawSQL(e, args)
	case ast.Arith:
		left := c.expression(e.Left, args)
		right := c.expression(e.Right, args)
		return fmt.Sprintf("(%s %s %s)", left, e.Op, right)

	default:
		panic(fmt.Sprintf("compiler: unhandled expression %T", expr))
	}
}

func (c *Compiler) expressionList(exprs []ast.Expression, args *sqlgen.Args) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = c.expression(e, args)
	}
	return strings.Join(parts, ", ")
}

func (c *Compiler) aggregate(a ast.Aggregate, args *sqlgen.Args) string {
	field := "*"
	if a.Field != nil {
		field = c.expression(a.Field, args)
	}
	if a.Distinct {
		return a.Func + "(DISTINCT " + field + ")"
	}
	return a.Func + "(" + field + ")"
}

func (c *Compiler) caseExpr(e ast.Case, args *sqlgen.Args) string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, w := range e.Whens {
		b.WriteString(" WHEN ")
		b.WriteString(c.where(w.Condition, args))
		b.WriteString(" THEN ")
		b.WriteString(c.expression(w.Then, args))
	}
	if e.Default != nil {
		b.WriteString(" ELSE ")
		b.WriteString(c.expression(e.Default, args))
	}
	b.WriteString(" END")
	return b.String()
}

func (c *Compiler) window(w ast.Window, args *sqlgen.Args) string {
	fn := c.expression(w.Func, args)

	var clauses []string

	if len(w.PartitionBy) > 0 {
		clauses = append(clauses, "PARTITION BY "+c.expressionList(w.PartitionBy, args))
	}
	if len(w.OrderBy) > 0 {
		terms := make([]string, len(w.OrderBy))
		for i, o := range w.OrderBy {
			dir := " ASC"
			if o.Descending {
				dir = " DESC"
			}
			terms[i] = c.expression(o.Expr, args) + dir
		}
		clauses = append(clauses, "ORDER BY "+strings.Join(terms, ", "))
	}
	if w.Frame != nil {
		clauses = append(clauses, frame(*w.Frame))
	}

	return fn + " OVER (" + strings.Join(clauses, " ") + ")"
}

func frame(f ast.WindowFrame) string {
	mode := f.Mode
	if mode == "" {
		mode = ast.FrameRows
	}
	if f.End == nil {
		return string(mode) + " " + frameBound(f.Start)
	}
	return fmt.Sprintf("%s BETWEEN %s AND %s", mode, frameBound(f.Start), frameBound(*f.End))
}

func frameBound(b ast.FrameBound) string {
	switch b.Kind {
	case ast.UnboundedPreceding:
		return "UNBOUNDED PRECEDING"
	case ast.Preceding:
		return strconv.Itoa(b.Offset) + " PRECEDING"
	case ast.Following:
		return strconv.Itoa(b.Offset) + " FOLLOWING"
	case ast.UnboundedFollowing:
		return "UNBOUNDED FOLLOWING"
	default:
		return "CURRENT ROW"
	}
}

// rawSQL binds Params to the "%s" markers in order. Markers without a
// parameter are left in the text; surplus parameters are not bound.
func (c *Compiler) rawSQL(r ast.RawSQL, args *sqlgen.Args) string {
	if len(r.Params) == 0 {
		return r.SQL
	}

	parts := strings.Split(r.SQL, rawMarker)
	var b strings.Builder
	b.WriteString(parts[0])
	for i, part := range parts[1:] {
		if i < len(r.Params) {
			b.WriteString(args.Bind(r.Params[i]))
		} else {
			b.WriteString(rawMarker)
		}
		b.WriteString(part)
	}
	return b.String()
}
