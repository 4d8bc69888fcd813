package builder

import (
	"fmt"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// assignments collects column assignments in call order
type assignments struct {
	fields []ast.Assignment
	err    error
}

func (a *assignments) set(field string, v any) {
	if a.err != nil {
		return
	}
	if expr, ok := v.(ast.Expression); ok {
		a.fields = append(a.fields, ast.Assignment{Column: field, Value: expr})
		return
	}
	val, err := value.Of(v)
	if err != nil {
		a.err = fmt.Errorf("%s: %w", field, err)
		return
	}
	a.fields = append(a.fields, ast.Set(field, val))
}

// InsertBuilder builds INSERT statements
type InsertBuilder struct {
	table     string
	values    assignments
	returning []string
}

// NewInsertBuilder creates a new insert builder
func NewInsertBuilder(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Set sets a field to a value or an expression
func (i *InsertBuilder) Set(field string, v any) *InsertBuilder {
	i.values.set(field, v)
	return i
}

// Returning sets the RETURNING columns
func (i *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	i.returning = append(i.returning, columns...)
	return i
}

// Build returns the INSERT node
func (i *InsertBuilder) Build() (*ast.Insert, error) {
	if i.values.err != nil {
		return nil, i.values.err
	}
	return &ast.Insert{Table: i.table, Fields: i.values.fields, Returning: i.returning}, nil
}

// UpdateBuilder builds UPDATE statements
type UpdateBuilder struct {
	table string
	set   assignments
	where *WhereBuilder
}

// NewUpdateBuilder creates a new update builder
func NewUpdateBuilder(table string, backend sqlgen.Backend) *UpdateBuilder {
	return &UpdateBuilder{table: table, where: NewWhereBuilder(backend)}
}

// Set sets a field to a value or an expression
func (u *UpdateBuilder) Set(field string, v any) *UpdateBuilder {
	u.set.set(field, v)
	return u
}

// Where returns the WHERE builder
func (u *UpdateBuilder) Where() *WhereBuilder {
	return u.where
}

// Build returns the UPDATE node
func (u *UpdateBuilder) Build() (*ast.Update, error) {
	if u.set.err != nil {
		return nil, u.set.err
	}
	where, err := u.where.Build()
	if err != nil {
		return nil, err
	}
	return &ast.Update{Table: u.table, Fields: u.set.fields, Where: where}, nil
}

// DeleteBuilder builds DELETE statements
type DeleteBuilder struct {
	table string
	where *WhereBuilder
}

// NewDeleteBuilder creates a new delete builder
func NewDeleteBuilder(table string, backend sqlgen.Backend) *DeleteBuilder {
	return &DeleteBuilder{table: table, where: NewWhereBuilder(backend)}
}

// Where returns the WHERE builder
func (d *DeleteBuilder) Where() *WhereBuilder {
	return d.where
}

// Build returns the DELETE node
func (d *DeleteBuilder) Build() (*ast.Delete, error) {
	where, err := d.where.Build()
	if err != nil {
		return nil, err
	}
	return &ast.Delete{Table: d.table, Where: where}, nil
}
