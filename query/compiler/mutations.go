package compiler

import (
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// CompileInsert compiles a single-row INSERT. With no fields every column
// takes its default.
func (c *Compiler) CompileInsert(table string, fields []ast.Assignment) (string, []value.Value) {
	return c.CompileInsertReturning(table, fields, nil)
}

// CompileInsertReturning compiles a single-row INSERT with a RETURNING
// clause. MySQL has no RETURNING, so the clause is omitted there.
func (c *Compiler) CompileInsertReturning(table string, fields []ast.Assignment, returning []string) (string, []value.Value) {
	args := sqlgen.NewArgs(c.backend)
	var b strings.Builder

	b.WriteString("INSERT INTO ")
	b.WriteString(sqlgen.Quote(table))

	if len(fields) == 0 {
		if c.backend == sqlgen.MySQL {
			b.WriteString(" () VALUES ()")
		} else {
			b.WriteString(" DEFAULT VALUES")
		}
	} else {
		cols := make([]string, len(fields))
		vals := make([]string, len(fields))
		for i, f := range fields {
			cols[i] = sqlgen.Quote(f.Column)
			vals[i] = c.expression(f.Value, args)
		}
		b.WriteString(" (" + strings.Join(cols, ", ") + ")")
		b.WriteString(" VALUES (" + strings.Join(vals, ", ") + ")")
	}

	if len(returning) > 0 && c.backend != sqlgen.MySQL {
		b.WriteString(" RETURNING ")
		b.WriteString(quoteAll(returning))
	}

	sql := b.String()
	c.logCompiled("insert", sql, args)
	return sql, args.Values()
}

// CompileBulkInsert compiles a multi-row INSERT. Rows must be non-empty;
// missing trailing values bind NULL and surplus values are dropped.
func (c *Compiler) CompileBulkInsert(table string, columns []string, rows [][]value.Value) (string, []value.Value) {
	args := sqlgen.NewArgs(c.backend)

	tuples := make([]string, len(rows))
	for i, row := range rows {
		phs := make([]string, len(columns))
		for j := range columns {
			var v value.Value = value.Null{}
			if j < len(row) {
				v = row[j]
			}
			phs[j] = args.Bind(v)
		}
		tuples[i] = "(" + strings.Join(phs, ", ") + ")"
	}

	sql := "INSERT INTO " + sqlgen.Quote(table) +
		" (" + quoteAll(columns) + ") VALUES " + strings.Join(tuples, ", ")
	c.logCompiled("bulk_insert", sql, args)
	return sql, args.Values()
}

// CompileUpdate compiles an UPDATE. SET placeholders come before the WHERE
// clause's. A nil where updates every row.
func (c *Compiler) CompileUpdate(table string, fields []ast.Assignment, where ast.WhereNode) (string, []value.Value) {
	args := sqlgen.NewArgs(c.backend)
	var b strings.Builder

	b.WriteString("UPDATE ")
	b.WriteString(sqlgen.Quote(table))
	b.WriteString(" SET ")
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sqlgen.Quote(f.Column))
		b.WriteString(" = ")
		b.WriteString(c.expression(f.Value, args))
	}

	if where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(c.where(where, args))
	}

	sql := b.String()
	c.logCompiled("update", sql, args)
	return sql, args.Values()
}

// CompileDelete compiles a DELETE. A nil where deletes every row.
func (c *Compiler) CompileDelete(table string, where ast.WhereNode) (string, []value.Value) {
	args := sqlgen.NewArgs(c.backend)
	sql := "DELETE FROM " + sqlgen.Quote(table)
	if where != nil {
		sql += " WHERE " + c.where(where, args)
	}
	c.logCompiled("delete", sql, args)
	return sql, args.Values()
}

// CompileParentInsert inserts the parent row of a multi-table model.
func (c *Compiler) CompileParentInsert(parentTable string, fields []ast.Assignment) (string, []value.Value) {
	return c.CompileInsert(parentTable, fields)
}

// CompileParentUpdate updates the parent row of a multi-table model.
func (c *Compiler) CompileParentUpdate(parentTable string, fields []ast.Assignment, where ast.WhereNode) (string, []value.Value) {
	return c.CompileUpdate(parentTable, fields, where)
}

func quoteAll(idents []string) string {
	out := make([]string, len(idents))
	for i, id := range idents {
		out[i] = sqlgen.QuoteRef(id)
	}
	return strings.Join(out, ", ")
}
