// Package compiler compiles query AST into parameterized SQL.
//
// A Compiler is fixed to one backend and holds no other state, so a single
// instance can serve concurrent callers. Every statement threads one
// sqlgen.Args accumulator through its recursion; placeholders are rendered in
// the same left-to-right order their values are bound.
package compiler

import (
	"fmt"

	"github.com/satishbabariya/querycompiler/internal/debug"
	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// Compiler compiles query AST into SQL for one backend.
type Compiler struct {
	backend sqlgen.Backend
}

// New creates a compiler for backend b.
func New(b sqlgen.Backend) *Compiler {
	return &Compiler{backend: b}
}

// NewCompiler creates a compiler from a provider name ("postgresql", "mysql", "sqlite").
func NewCompiler(provider string) (*Compiler, error) {
	b, err := sqlgen.ParseBackend(provider)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

// Backend returns the backend the compiler targets.
func (c *Compiler) Backend() sqlgen.Backend { return c.backend }

// Compiled is a statement ready for execution.
type Compiled struct {
	SQL    string
	Params []value.Value
}

// Compile compiles a statement node into SQL.
func (c *Compiler) Compile(node ast.QueryNode) (*Compiled, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil node", ErrInvalidQuery)
	}

	var sql string
	var params []value.Value

	switch n := node.(type) {
	case *ast.Query:
		if n == nil || n.Table == "" {
			return nil, fmt.Errorf("%w: select requires a table", ErrInvalidQuery)
		}
		sql, params = c.CompileSelect(n)
	case *ast.Insert:
		if n == nil || n.Table == "" {
			return nil, fmt.Errorf("%w: insert requires a table", ErrInvalidQuery)
		}
		sql, params = c.CompileInsertReturning(n.Table, n.Fields, n.Returning)
	case *ast.BulkInsert:
		if n == nil || n.Table == "" {
			return nil, fmt.Errorf("%w: bulk insert requires a table", ErrInvalidQuery)
		}
		if len(n.Columns) == 0 || len(n.Rows) == 0 {
			return nil, fmt.Errorf("%w: bulk insert requires columns and rows", ErrInvalidQuery)
		}
		for i, row := range n.Rows {
			if len(row) != len(n.Columns) {
				return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrInvalidQuery, i, len(row), len(n.Columns))
			}
		}
		sql, params = c.CompileBulkInsert(n.Table, n.Columns, n.Rows)
	case *ast.Update:
		if n == nil || n.Table == "" {
			return nil, fmt.Errorf("%w: update requires a table", ErrInvalidQuery)
		}
		if len(n.Fields) == 0 {
			return nil, fmt.Errorf("%w: update requires at least one field", ErrInvalidQuery)
		}
		sql, params = c.CompileUpdate(n.Table, n.Fields, n.Where)
	case *ast.Delete:
		if n == nil || n.Table == "" {
			return nil, fmt.Errorf("%w: delete requires a table", ErrInvalidQuery)
		}
		sql, params = c.CompileDelete(n.Table, n.Where)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedQuery, node.Type())
	}

	return &Compiled{SQL: sql, Params: params}, nil
}

func (c *Compiler) logCompiled(kind, sql string, args *sqlgen.Args) {
	debug.Debug("compiled statement",
		"kind", kind,
		"backend", c.backend,
		"sql", sql,
		"params", args.Len(),
	)
}
