package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

const (
	alwaysTrue  = "1=1"
	alwaysFalse = "1=0"
)

// CompileWhere compiles a standalone filter, for callers such as constraint
// generators that splice a predicate into their own statements.
func (c *Compiler) CompileWhere(node ast.WhereNode) (string, []value.Value) {
	args := sqlgen.NewArgs(c.backend)
	sql := c.where(node, args)
	return sql, args.Values()
}

func (c *Compiler) where(node ast.WhereNode, args *sqlgen.Args) string {
	switch n := node.(type) {
	case nil:
		return alwaysTrue
	case ast.Condition:
		return c.condition(n, args)
	case ast.And:
		return c.group([]ast.WhereNode(n), " AND ", alwaysTrue, args)
	case ast.Or:
		return c.group([]ast.WhereNode(n), " OR ", alwaysFalse, args)
	case ast.Not:
		return "NOT (" + c.where(n.Node, args) + ")"
	default:
		panic(fmt.Sprintf("compiler: unhandled where node %T", node))
	}
}

func (c *Compiler) group(children []ast.WhereNode, sep, empty string, args *sqlgen.Args) string {
	switch len(children) {
	case 0:
		return empty
	case 1:
		return c.where(children[0], args)
	}

	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = c.where(child, args)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func (c *Compiler) condition(cond ast.Condition, args *sqlgen.Args) string {
	lhs := cond.ColumnSQL
	if lhs == "" {
		lhs = sqlgen.QuoteRef(cond.Column)
	}
	return c.lookup(lhs, cond.Lookup, args)
}
