package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycompiler/internal/debug"
	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// lookup renders one comparison against the already-rendered column lhs.
func (c *Compiler) lookup(lhs string, lk ast.Lookup, args *sqlgen.Args) string {
	if ast.PostgresOnly(lk) && c.backend != sqlgen.Postgres {
		debug.Warn("postgres-only lookup compiled for another backend",
			"backend", c.backend,
			"lookup", fmt.Sprintf("%T", lk),
		)
	}

	switch l := lk.(type) {
	case ast.Exact:
		if value.IsNull(l.Value) {
			return lhs + " IS NULL"
		}
		return lhs + " = " + args.Bind(l.Value)
	case ast.IExact:
		if value.IsNull(l.Value) {
			return lhs + " IS NULL"
		}
		return fmt.Sprintf("LOWER(%s) = LOWER(%s)", lhs, args.Bind(l.Value))

	case ast.Contains:
		return c.like(lhs, "%"+sqlgen.EscapeLike(l.Value)+"%", false, args)
	case ast.IContains:
		return c.like(lhs, "%"+sqlgen.EscapeLike(l.Value)+"%", true, args)
	case ast.StartsWith:
		return c.like(lhs, sqlgen.EscapeLike(l.Value)+"%", false, args)
	case ast.IStartsWith:
		return c.like(lhs, sqlgen.EscapeLike(l.Value)+"%", true, args)
	case ast.EndsWith:
		return c.like(lhs, "%"+sqlgen.EscapeLike(l.Value), false, args)
	case ast.IEndsWith:
		return c.like(lhs, "%"+sqlgen.EscapeLike(l.Value), true, args)

	case ast.In:
		if len(l.Values) == 0 {
			return alwaysFalse
		}
		phs := make([]string, len(l.Values))
		for i, v := range l.Values {
			phs[i] = args.Bind(v)
		}
		return lhs + " IN (" + strings.Join(phs, ", ") + ")"

	case ast.Gt:
		return lhs + " > " + args.Bind(l.Value)
	case ast.Gte:
		return lhs + " >= " + args.Bind(l.Value)
	case ast.Lt:
		return lhs + " < " + args.Bind(l.Value)
	case ast.Lte:
		return lhs + " <= " + args.Bind(l.Value)
	case ast.Range:
		low := args.Bind(l.Low)
		high := args.Bind(l.High)
		return fmt.Sprintf("%s BETWEEN %s AND %s", lhs, low, high)

	case ast.IsNull:
		if l.IsNull {
			return lhs + " IS NULL"
		}
		return lhs + " IS NOT NULL"

	case ast.Regex:
		return c.backend.RegexMatch(lhs, args.Bind(value.String(l.Pattern)), false)
	case ast.IRegex:
		return c.backend.RegexMatch(lhs, args.Bind(value.String(l.Pattern)), true)

	case ast.EqualsColumn:
		return lhs + " = " + sqlgen.QuoteRef(l.Column)
	case ast.Custom:
		return c.customLookup(lhs, l, args)

	case ast.ArrayContains:
		return lhs + " @> " + args.Bind(l.Value)
	case ast.ArrayContainedBy:
		return lhs + " <@ " + args.Bind(l.Value)
	case ast.ArrayOverlap:
		return lhs + " && " + args.Bind(l.Value)
	case ast.HasKey:
		return lhs + " ? " + args.Bind(value.String(l.Key))
	case ast.HasKeys:
		return lhs + " ?& " + args.Bind(value.Strings(l.Keys...))
	case ast.HasAnyKeys:
		return lhs + " ?| " + args.Bind(value.Strings(l.Keys...))
	case ast.RangeStrictlyLeft:
		return lhs + " << " + args.Bind(l.Value)
	case ast.RangeStrictlyRight:
		return lhs + " >> " + args.Bind(l.Value)
	case ast.Search:
		return fmt.Sprintf("to_tsvector(%s) @@ plainto_tsquery(%s)", lhs, args.Bind(value.String(l.Query)))

	default:
		panic(fmt.Sprintf("compiler: unhandled lookup %T", lk))
	}
}

// like binds an already escaped pattern and renders the LIKE comparison.
func (c *Compiler) like(lhs, pattern string, insensitive bool, args *sqlgen.Args) string {
	ph := args.Bind(value.String(pattern))
	if insensitive {
		return c.backend.CaseInsensitiveLike(lhs, ph) + c.backend.LikeEscape()
	}
	return lhs + " LIKE " + ph + c.backend.LikeEscape()
}

// customLookup renders a registered template. A numbered backend binds the
// value once and reuses the placeholder; "?" backends bind it once per
// {value} marker.
func (c *Compiler) customLookup(lhs string, l ast.Custom, args *sqlgen.Args) string {
	var ph string
	return sqlgen.ExpandTemplate(l.Template, lhs, func() string {
		if ph == "" || !c.backend.Numbered() {
			ph = args.Bind(l.Value)
		}
		return ph
	})
}
