package builder

import "github.com/satishbabariya/querycompiler/query/ast"

// JoinBuilder builds JOIN clauses
type JoinBuilder struct {
	joins []ast.Join
}

// NewJoinBuilder creates a new JOIN builder
func NewJoinBuilder() *JoinBuilder {
	return &JoinBuilder{}
}

// InnerJoin adds an INNER JOIN
func (j *JoinBuilder) InnerJoin(table, alias string, on ast.WhereNode) *JoinBuilder {
	return j.add(ast.InnerJoin, table, alias, on)
}

// LeftJoin adds a LEFT JOIN
func (j *JoinBuilder) LeftJoin(table, alias string, on ast.WhereNode) *JoinBuilder {
	return j.add(ast.LeftJoin, table, alias, on)
}

// RightJoin adds a RIGHT JOIN
func (j *JoinBuilder) RightJoin(table, alias string, on ast.WhereNode) *JoinBuilder {
	return j.add(ast.RightJoin, table, alias, on)
}

// Build returns the JOIN clauses
func (j *JoinBuilder) Build() []ast.Join {
	return append([]ast.Join(nil), j.joins...)
}

func (j *JoinBuilder) add(typ ast.JoinType, table, alias string, on ast.WhereNode) *JoinBuilder {
	j.joins = append(j.joins, ast.Join{Type: typ, Table: table, Alias: alias, On: on})
	return j
}

// JoinOn creates a column equality join condition ("posts.author_id", "users.id")
func JoinOn(leftColumn, rightColumn string) ast.Condition {
	return ast.Cond(leftColumn, ast.EqualsColumn{Column: rightColumn})
}
