package compiler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// CompileSelect compiles a SELECT statement, or a compound statement when
// q carries compound parts.
func (c *Compiler) CompileSelect(q *ast.Query) (string, []value.Value) {
	args := sqlgen.NewArgs(c.backend)
	sql := c.selectInto(q, args, false)
	c.logCompiled("select", sql, args)
	return sql, args.Values()
}

// selectInto compiles q into args. With existsProjection the select list is
// replaced by the literal 1.
func (c *Compiler) selectInto(q *ast.Query, args *sqlgen.Args, existsProjection bool) string {
	if len(q.CompoundQueries) > 0 {
		return c.compound(q, args, existsProjection)
	}

	table := q.EffectiveTable()
	var b strings.Builder

	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	if existsProjection {
		b.WriteString("1")
	} else {
		b.WriteString(c.columns(q, table, args))
	}

	b.WriteString(" FROM ")
	b.WriteString(sqlgen.Quote(table))

	if mt, ok := q.Inheritance.(ast.MultiTable); ok {
		b.WriteString(" INNER JOIN ")
		b.WriteString(sqlgen.Quote(mt.ParentTable))
		b.WriteString(" ON ")
		b.WriteString(sqlgen.Quote(table) + "." + sqlgen.Quote(mt.ParentLinkColumn))
		b.WriteString(" = ")
		b.WriteString(sqlgen.Quote(mt.ParentTable) + "." + sqlgen.Quote(mt.ParentPKColumn))
	}

	for _, sr := range q.SelectRelated {
		alias := sr.JoinAlias()
		b.WriteString(" LEFT JOIN ")
		b.WriteString(sqlgen.Quote(sr.RelatedTable))
		b.WriteString(" AS ")
		b.WriteString(sqlgen.Quote(alias))
		b.WriteString(" ON ")
		b.WriteString(sqlgen.Quote(table) + "." + sqlgen.Quote(sr.FKColumn))
		b.WriteString(" = ")
		b.WriteString(sqlgen.Quote(alias) + "." + sqlgen.Quote(sr.RelatedColumn))
	}

	for _, j := range q.Joins {
		b.WriteString(" ")
		b.WriteString(string(j.Type))
		b.WriteString(" JOIN ")
		b.WriteString(sqlgen.Quote(j.Table))
		if j.Alias != "" {
			b.WriteString(" AS ")
			b.WriteString(sqlgen.Quote(j.Alias))
		}
		b.WriteString(" ON ")
		b.WriteString(c.where(j.On, args))
	}

	if q.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(c.where(q.Where, args))
	}

	if groups := groupBy(q.GroupBy); len(groups) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(groups, ", "))
	}

	if q.Having != nil {
		b.WriteString(" HAVING ")
		b.WriteString(c.where(q.Having, args))
	}

	b.WriteString(c.orderAndLimit(q))
	return b.String()
}

// columns renders the select list: explicit columns, then one "alias".* per
// select_related join, then annotations and aggregates sorted by alias.
func (c *Compiler) columns(q *ast.Query, table string, args *sqlgen.Args) string {
	var cols []string

	for _, sc := range q.Select {
		cols = append(cols, c.selectColumn(sc, args))
	}
	for _, sr := range q.SelectRelated {
		cols = append(cols, sqlgen.Quote(sr.JoinAlias())+".*")
	}
	for _, alias := range sortedKeys(q.Annotations) {
		cols = append(cols, c.expression(q.Annotations[alias], args)+" AS "+sqlgen.Quote(alias))
	}
	for _, alias := range sortedKeys(q.Aggregates) {
		cols = append(cols, c.expression(q.Aggregates[alias], args)+" AS "+sqlgen.Quote(alias))
	}

	if len(q.Select) > 0 || len(q.Aggregates) > 0 {
		return strings.Join(cols, ", ")
	}
	if len(cols) == 0 {
		return "*"
	}
	// The implicit wildcard must be qualified once other columns follow it.
	return strings.Join(append([]string{sqlgen.Quote(table) + ".*"}, cols...), ", ")
}

func (c *Compiler) selectColumn(sc ast.SelectColumn, args *sqlgen.Args) string {
	switch col := sc.(type) {
	case ast.Column:
		return sqlgen.QuoteRef(col.Name)
	case ast.TableColumn:
		return sqlgen.Quote(col.Table) + "." + sqlgen.Quote(col.Column)
	case ast.ExprColumn:
		sql := c.expression(col.Expr, args)
		if col.Alias != "" {
			sql += " AS " + sqlgen.Quote(col.Alias)
		}
		return sql
	case ast.Star:
		if col.Table == "" {
			return "*"
		}
		return sqlgen.Quote(col.Table) + ".*"
	default:
		return "*"
	}
}

// groupBy drops the ORM bookkeeping hints.
func groupBy(entries []string) []string {
	var out []string
	for _, g := range entries {
		if strings.HasPrefix(g, ast.SelectRelatedHint) || strings.HasPrefix(g, ast.PrefetchRelatedHint) {
			continue
		}
		out = append(out, sqlgen.QuoteRef(g))
	}
	return out
}

// orderAndLimit renders ORDER BY, LIMIT and OFFSET. It binds no parameters.
func (c *Compiler) orderAndLimit(q *ast.Query) string {
	var b strings.Builder

	if len(q.OrderBy) > 0 {
		terms := make([]string, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			terms = append(terms, c.orderTerm(o)...)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(terms, ", "))
	}

	switch {
	case q.Limit != nil:
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(*q.Limit))
	case q.Offset != nil:
		if clause := c.backend.OffsetWithoutLimit(); clause != "" {
			b.WriteString(" ")
			b.WriteString(clause)
		}
	}
	if q.Offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(*q.Offset))
	}

	return b.String()
}

func (c *Compiler) orderTerm(o ast.OrderBy) []string {
	col := sqlgen.QuoteRef(o.Column)
	dir := " ASC"
	if o.Descending {
		dir = " DESC"
	}
	if o.NullsFirst == nil {
		return []string{col + dir}
	}

	// MySQL has no NULLS FIRST/LAST; sort on the null test first instead.
	if c.backend == sqlgen.MySQL {
		nulls := " IS NULL ASC"
		if *o.NullsFirst {
			nulls = " IS NULL DESC"
		}
		return []string{col + nulls, col + dir}
	}
	if *o.NullsFirst {
		return []string{col + dir + " NULLS FIRST"}
	}
	return []string{col + dir + " NULLS LAST"}
}

func sortedKeys(m map[string]ast.Expression) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
