package compiler

import (
	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// PrefetchSourceColumn is the alias under which a many-to-many prefetch
// returns the parent key of each related row.
const PrefetchSourceColumn = "_prefetch_source"

// PrefetchQuery is the batched follow-up query loading one related field.
type PrefetchQuery struct {
	Field  string
	SQL    string
	Params []value.Value
}

// CompilePrefetchQueries compiles one batched IN (...) query per field,
// keyed by the parent rows' primary keys. No keys means no queries.
func (c *Compiler) CompilePrefetchQueries(fields []ast.PrefetchRelatedField, parentPKs []value.Value) []PrefetchQuery {
	if len(parentPKs) == 0 {
		return nil
	}

	out := make([]PrefetchQuery, 0, len(fields))
	for _, f := range fields {
		q := prefetchQuery(f, parentPKs)
		args := sqlgen.NewArgs(c.backend)
		sql := c.selectInto(q, args, false)
		c.logCompiled("prefetch", sql, args)
		out = append(out, PrefetchQuery{Field: f.Field, SQL: sql, Params: args.Values()})
	}
	return out
}

func prefetchQuery(f ast.PrefetchRelatedField, parentPKs []value.Value) *ast.Query {
	keys := ast.In{Values: append([]value.Value(nil), parentPKs...)}
	q := &ast.Query{Table: f.RelatedTable, OrderBy: f.OrderBy}

	var match ast.WhereNode
	if t := f.Through; t != nil {
		pk := t.RelatedPKColumn
		if pk == "" {
			pk = "id"
		}
		q.Select = []ast.SelectColumn{
			ast.Star{Table: f.RelatedTable},
			ast.ExprColumn{Expr: ast.Col{Name: t.Table + "." + t.SourceColumn}, Alias: PrefetchSourceColumn},
		}
		q.Joins = []ast.Join{{
			Type:  ast.InnerJoin,
			Table: t.Table,
			On: ast.Condition{
				Column: t.Table + "." + t.TargetColumn,
				Lookup: ast.EqualsColumn{Column: f.RelatedTable + "." + pk},
			},
		}}
		match = ast.Cond(t.Table+"."+t.SourceColumn, keys)
	} else {
		match = ast.Cond(f.RelatedColumn, keys)
	}

	if f.Where != nil {
		q.Where = ast.AllOf(match, f.Where)
	} else {
		q.Where = match
	}
	return q
}
