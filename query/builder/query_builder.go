package builder

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/lookup"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

// QueryBuilder builds SELECT queries
type QueryBuilder struct {
	backend   sqlgen.Backend
	query     ast.Query
	where     *WhereBuilder
	having    *WhereBuilder
	compounds []compoundPart
	err       error
}

type compoundPart struct {
	typ   ast.CompoundType
	other *QueryBuilder
}

// NewQueryBuilder creates a new query builder
func NewQueryBuilder(table string, backend sqlgen.Backend) *QueryBuilder {
	return &QueryBuilder{
		backend: backend,
		query:   ast.Query{Table: table},
		where:   NewWhereBuilder(backend),
		having:  NewWhereBuilder(backend),
	}
}

// WithRegistry resolves filter paths against r
func (q *QueryBuilder) WithRegistry(r *lookup.Registry) *QueryBuilder {
	q.where.WithRegistry(r)
	q.having.WithRegistry(r)
	return q
}

// Select sets the columns to select; "t.c" selects a qualified column
func (q *QueryBuilder) Select(columns ...string) *QueryBuilder {
	for _, c := range columns {
		if table, col, ok := strings.Cut(c, "."); ok {
			q.query.Select = append(q.query.Select, ast.TableColumn{Table: table, Column: col})
			continue
		}
		q.query.Select = append(q.query.Select, ast.Column{Name: c})
	}
	return q
}

// SelectExpr selects an expression under alias
func (q *QueryBuilder) SelectExpr(alias string, expr ast.Expression) *QueryBuilder {
	q.query.Select = append(q.query.Select, ast.ExprColumn{Expr: expr, Alias: alias})
	return q
}

// Filter adds a WHERE condition from a field path
func (q *QueryBuilder) Filter(path string, v any) *QueryBuilder {
	q.where.Filter(path, v)
	return q
}

// Exclude adds a negated WHERE condition from a field path
func (q *QueryBuilder) Exclude(path string, v any) *QueryBuilder {
	q.where.Exclude(path, v)
	return q
}

// Where adds a built WHERE node
func (q *QueryBuilder) Where(node ast.WhereNode) *QueryBuilder {
	q.where.Node(node)
	return q
}

// WhereBuilder returns the builder behind the WHERE clause
func (q *QueryBuilder) WhereBuilder() *WhereBuilder {
	return q.where
}

// OrderBy adds ORDER BY terms; a leading "-" sorts descending
func (q *QueryBuilder) OrderBy(fields ...string) *QueryBuilder {
	for _, f := range fields {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			q.query.OrderBy = append(q.query.OrderBy, ast.Desc(name))
			continue
		}
		q.query.OrderBy = append(q.query.OrderBy, ast.Asc(strings.TrimPrefix(f, "+")))
	}
	return q
}

// OrderByTerm adds a fully specified ORDER BY term
func (q *QueryBuilder) OrderByTerm(o ast.OrderBy) *QueryBuilder {
	q.query.OrderBy = append(q.query.OrderBy, o)
	return q
}

// Limit sets the LIMIT
func (q *QueryBuilder) Limit(limit int) *QueryBuilder {
	q.query.Limit = &limit
	return q
}

// Offset sets the OFFSET
func (q *QueryBuilder) Offset(offset int) *QueryBuilder {
	q.query.Offset = &offset
	return q
}

// Distinct selects distinct rows
func (q *QueryBuilder) Distinct() *QueryBuilder {
	q.query.Distinct = true
	return q
}

// Annotate adds a computed column
func (q *QueryBuilder) Annotate(alias string, expr ast.Expression) *QueryBuilder {
	if q.query.Annotations == nil {
		q.query.Annotations = make(map[string]ast.Expression)
	}
	q.setAlias(alias)
	q.query.Annotations[alias] = expr
	return q
}

// Aggregate adds an aggregate column
func (q *QueryBuilder) Aggregate(alias string, expr ast.Expression) *QueryBuilder {
	if q.query.Aggregates == nil {
		q.query.Aggregates = make(map[string]ast.Expression)
	}
	q.setAlias(alias)
	q.query.Aggregates[alias] = expr
	return q
}

// GroupBy sets the GROUP BY fields
func (q *QueryBuilder) GroupBy(fields ...string) *QueryBuilder {
	q.query.GroupBy = append(q.query.GroupBy, fields...)
	return q
}

// Having adds a HAVING condition from a field path
func (q *QueryBuilder) Having(path string, v any) *QueryBuilder {
	q.having.Filter(path, v)
	return q
}

// Join adds explicit joins
func (q *QueryBuilder) Join(joins ...ast.Join) *QueryBuilder {
	q.query.Joins = append(q.query.Joins, joins...)
	return q
}

// Joins adds the joins collected by j
func (q *QueryBuilder) Joins(j *JoinBuilder) *QueryBuilder {
	return q.Join(j.Build()...)
}

// SelectRelated eager-loads a related row through a LEFT JOIN
func (q *QueryBuilder) SelectRelated(f ast.SelectRelatedField) *QueryBuilder {
	q.query.SelectRelated = append(q.query.SelectRelated, f)
	q.query.GroupBy = append(q.query.GroupBy, ast.SelectRelatedHint+f.Field)
	return q
}

// PrefetchRelated records a relation loaded by a follow-up batched query
func (q *QueryBuilder) PrefetchRelated(f ast.PrefetchRelatedField) *QueryBuilder {
	q.query.PrefetchRelated = append(q.query.PrefetchRelated, f)
	q.query.GroupBy = append(q.query.GroupBy, ast.PrefetchRelatedHint+f.Field)
	return q
}

// Proxy reads the model from its parent's table
func (q *QueryBuilder) Proxy(parentTable string) *QueryBuilder {
	q.query.Inheritance = ast.Proxy{ParentTable: parentTable}
	return q
}

// MultiTable joins the model's parent table
func (q *QueryBuilder) MultiTable(parentTable, linkColumn, parentPK string) *QueryBuilder {
	q.query.Inheritance = ast.MultiTable{
		ParentTable:      parentTable,
		ParentLinkColumn: linkColumn,
		ParentPKColumn:   parentPK,
	}
	return q
}

// Union combines with other using UNION
func (q *QueryBuilder) Union(other *QueryBuilder) *QueryBuilder {
	return q.combine(ast.Union, other)
}

// UnionAll combines with other using UNION ALL
func (q *QueryBuilder) UnionAll(other *QueryBuilder) *QueryBuilder {
	return q.combine(ast.UnionAll, other)
}

// Intersect combines with other using INTERSECT
func (q *QueryBuilder) Intersect(other *QueryBuilder) *QueryBuilder {
	return q.combine(ast.Intersect, other)
}

// Except combines with other using EXCEPT
func (q *QueryBuilder) Except(other *QueryBuilder) *QueryBuilder {
	return q.combine(ast.Except, other)
}

// GetTable returns the table name
func (q *QueryBuilder) GetTable() string {
	return q.query.Table
}

// Build returns the query. The builder can keep being used afterwards.
func (q *QueryBuilder) Build() (*ast.Query, error) {
	if q.err != nil {
		return nil, q.err
	}
	if q.query.Table == "" {
		return nil, fmt.Errorf("query builder: table is required")
	}

	out := q.query.Clone()
	out.Annotations = copyExprs(q.query.Annotations)
	out.Aggregates = copyExprs(q.query.Aggregates)

	where, err := q.where.Build()
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	out.Where = where

	having, err := q.having.Build()
	if err != nil {
		return nil, fmt.Errorf("having: %w", err)
	}
	out.Having = having

	for _, part := range q.compounds {
		other, err := part.other.Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", strings.ToLower(string(part.typ)), err)
		}
		out.CompoundQueries = append(out.CompoundQueries, ast.CompoundQuery{Type: part.typ, Other: other})
	}

	return out, nil
}

func (q *QueryBuilder) combine(typ ast.CompoundType, other *QueryBuilder) *QueryBuilder {
	if other == nil {
		return q
	}
	q.compounds = append(q.compounds, compoundPart{typ: typ, other: other})
	return q
}

func (q *QueryBuilder) setAlias(alias string) {
	_, inAnnotations := q.query.Annotations[alias]
	_, inAggregates := q.query.Aggregates[alias]
	if (inAnnotations || inAggregates) && q.err == nil {
		q.err = fmt.Errorf("query builder: duplicate alias %q", alias)
	}
}

func copyExprs(m map[string]ast.Expression) map[string]ast.Expression {
	if m == nil {
		return nil
	}
	out := make(map[string]ast.Expression, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
