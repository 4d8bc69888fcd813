package builder

import (
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/value"
)

// WindowDefinition defines the OVER clause of a window function
type WindowDefinition struct {
	partitionBy []ast.Expression
	orderBy     []ast.WindowOrder
	frame       *ast.WindowFrame
}

// NewWindowDefinition creates a new window definition
func NewWindowDefinition() *WindowDefinition {
	return &WindowDefinition{}
}

// PartitionBy sets the PARTITION BY fields
func (w *WindowDefinition) PartitionBy(fields ...string) *WindowDefinition {
	w.partitionBy = w.partitionBy[:0]
	for _, f := range fields {
		w.partitionBy = append(w.partitionBy, ast.F{Field: f})
	}
	return w
}

// OrderBy adds an ORDER BY term to the window; a leading "-" sorts descending
func (w *WindowDefinition) OrderBy(field string) *WindowDefinition {
	name, desc := strings.CutPrefix(field, "-")
	w.orderBy = append(w.orderBy, ast.WindowOrder{Expr: ast.F{Field: name}, Descending: desc})
	return w
}

// Rows sets a ROWS frame; a nil end renders the single-bound form
func (w *WindowDefinition) Rows(start ast.FrameBound, end *ast.FrameBound) *WindowDefinition {
	w.frame = &ast.WindowFrame{Mode: ast.FrameRows, Start: start, End: end}
	return w
}

// Range sets a RANGE frame
func (w *WindowDefinition) Range(start ast.FrameBound, end *ast.FrameBound) *WindowDefinition {
	w.frame = &ast.WindowFrame{Mode: ast.FrameRange, Start: start, End: end}
	return w
}

// Over applies fn over this window
func (w *WindowDefinition) Over(fn ast.Expression) ast.Window {
	win := ast.Window{
		Func:        fn,
		PartitionBy: append([]ast.Expression(nil), w.partitionBy...),
		OrderBy:     append([]ast.WindowOrder(nil), w.orderBy...),
	}
	if w.frame != nil {
		f := *w.frame
		win.Frame = &f
	}
	return win
}

// RowNumber is ROW_NUMBER() over window
func RowNumber(window *WindowDefinition) ast.Window {
	return window.Over(ast.Func{Name: "ROW_NUMBER"})
}

// Rank is RANK() over window
func Rank(window *WindowDefinition) ast.Window {
	return window.Over(ast.Func{Name: "RANK"})
}

// DenseRank is DENSE_RANK() over window
func DenseRank(window *WindowDefinition) ast.Window {
	return window.Over(ast.Func{Name: "DENSE_RANK"})
}

// Lag is LAG(field, offset, default) over window
func Lag(field string, offset int, defaultValue value.Value, window *WindowDefinition) ast.Window {
	return window.Over(offsetFunc("LAG", field, offset, defaultValue))
}

// Lead is LEAD(field, offset, default) over window
func Lead(field string, offset int, defaultValue value.Value, window *WindowDefinition) ast.Window {
	return window.Over(offsetFunc("LEAD", field, offset, defaultValue))
}

// FirstValue is FIRST_VALUE(field) over window
func FirstValue(field string, window *WindowDefinition) ast.Window {
	return window.Over(ast.Func{Name: "FIRST_VALUE", Args: []ast.Expression{ast.F{Field: field}}})
}

// LastValue is LAST_VALUE(field) over window
func LastValue(field string, window *WindowDefinition) ast.Window {
	return window.Over(ast.Func{Name: "LAST_VALUE", Args: []ast.Expression{ast.F{Field: field}}})
}

// offsetFunc builds LAG/LEAD. The offset is bound; a nil default is omitted.
func offsetFunc(name, field string, offset int, defaultValue value.Value) ast.Func {
	args := []ast.Expression{ast.F{Field: field}, ast.Val{Value: value.Int(offset)}}
	if defaultValue != nil {
		args = append(args, ast.Val{Value: defaultValue})
	}
	return ast.Func{Name: name, Args: args}
}

// UnboundedPreceding creates an UNBOUNDED PRECEDING frame bound
func UnboundedPreceding() ast.FrameBound {
	return ast.FrameBound{Kind: ast.UnboundedPreceding}
}

// Preceding creates an N PRECEDING frame bound
func Preceding(offset int) ast.FrameBound {
	return ast.FrameBound{Kind: ast.Preceding, Offset: offset}
}

// CurrentRow creates a CURRENT ROW frame bound
func CurrentRow() ast.FrameBound {
	return ast.FrameBound{Kind: ast.CurrentRow}
}

// Following creates an N FOLLOWING frame bound
func Following(offset int) ast.FrameBound {
	return ast.FrameBound{Kind: ast.Following, Offset: offset}
}

// UnboundedFollowing creates an UNBOUNDED FOLLOWING frame bound
func UnboundedFollowing() ast.FrameBound {
	return ast.FrameBound{Kind: ast.UnboundedFollowing}
}
