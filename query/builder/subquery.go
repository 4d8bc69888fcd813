package builder

import "github.com/satishbabariya/querycompiler/query/ast"

// Subquery builds q and wraps it as a scalar subquery expression
func Subquery(q *QueryBuilder) (ast.Subquery, error) {
	built, err := q.Build()
	if err != nil {
		return ast.Subquery{}, err
	}
	return ast.Subquery{Query: built}, nil
}

// Exists builds q and wraps it in EXISTS
func Exists(q *QueryBuilder) (ast.Exists, error) {
	built, err := q.Build()
	if err != nil {
		return ast.Exists{}, err
	}
	return ast.Exists{Query: built}, nil
}

// NotExists builds q and wraps it in NOT EXISTS
func NotExists(q *QueryBuilder) (ast.Exists, error) {
	e, err := Exists(q)
	e.Negated = true
	return e, err
}

// OuterRef references a column of the enclosing query from inside a subquery
func OuterRef(field string) ast.OuterRef {
	return ast.OuterRef{Field: field}
}
