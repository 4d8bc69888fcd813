// Package executor runs compiled statements against a database/sql handle.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/satishbabariya/querycompiler/internal/debug"
	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

// ErrNoRows is returned by FindFirst when the query matches nothing.
var ErrNoRows = errors.New("no rows found")

// querier is the subset of *sql.DB and *sql.Tx the executor needs.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executor compiles AST nodes and runs them.
type Executor struct {
	db       *sql.DB
	conn     querier
	compiler *compiler.Compiler
}

// New wraps an open database handle for backend b.
func New(db *sql.DB, b sqlgen.Backend) *Executor {
	return &Executor{db: db, conn: db, compiler: compiler.New(b)}
}

// Open opens a database for backend b and verifies the connection.
func Open(ctx context.Context, b sqlgen.Backend, dsn string) (*Executor, error) {
	driver, err := DriverName(b)
	if err != nil {
		return nil, err
	}
	dsn, err = NormalizeDSN(b, dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", b, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", b, err)
	}
	return New(db, b), nil
}

// DB returns the underlying database handle.
func (e *Executor) DB() *sql.DB { return e.db }

// Backend returns the backend statements are compiled for.
func (e *Executor) Backend() sqlgen.Backend { return e.compiler.Backend() }

// Compiler returns the compiler used for every statement.
func (e *Executor) Compiler() *compiler.Compiler { return e.compiler }

// Close closes the database handle.
func (e *Executor) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// Exec compiles and executes a statement that returns no rows.
func (e *Executor) Exec(ctx context.Context, node ast.QueryNode) (sql.Result, error) {
	c, err := e.compiler.Compile(node)
	if err != nil {
		return nil, err
	}
	return e.ExecCompiled(ctx, c)
}

// ExecCompiled executes an already compiled statement.
func (e *Executor) ExecCompiled(ctx context.Context, c *compiler.Compiled) (sql.Result, error) {
	args, err := driverArgs(e.Backend(), c.Params)
	if err != nil {
		return nil, err
	}
	debug.Debug("exec", "sql", c.SQL, "params", len(args))

	res, err := e.conn.ExecContext(ctx, c.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("exec failed: %w", err)
	}
	return res, nil
}

// Query compiles and runs a statement, returning every row as a column map.
func (e *Executor) Query(ctx context.Context, node ast.QueryNode) ([]Row, error) {
	c, err := e.compiler.Compile(node)
	if err != nil {
		return nil, err
	}
	return e.QueryCompiled(ctx, c)
}

// QueryCompiled runs an already compiled statement.
func (e *Executor) QueryCompiled(ctx context.Context, c *compiler.Compiled) ([]Row, error) {
	rows, err := e.rows(ctx, c)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMaps(rows)
}

// FindMany runs q and scans the result into dest, a pointer to a slice of
// structs or struct pointers.
func (e *Executor) FindMany(ctx context.Context, q *ast.Query, dest any) error {
	c, err := e.compiler.Compile(q)
	if err != nil {
		return err
	}
	rows, err := e.rows(ctx, c)
	if err != nil {
		return err
	}
	defer rows.Close()
	return scanRows(rows, dest)
}

// FindFirst runs q with a limit of one and scans the row into dest, a
// pointer to a struct.
func (e *Executor) FindFirst(ctx context.Context, q *ast.Query, dest any) error {
	one := 1
	q = q.Clone()
	q.Limit = &one

	c, err := e.compiler.Compile(q)
	if err != nil {
		return err
	}
	rows, err := e.rows(ctx, c)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("failed to get columns: %w", err)
	}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return ErrNoRows
	}
	return scanRowIntoStruct(rows, columns, dest)
}

// Count returns the number of rows q matches, ignoring its ordering and limits.
// Distinct, grouped and compound queries are counted over a derived table.
func (e *Executor) Count(ctx context.Context, q *ast.Query) (int64, error) {
	counted := q.Clone()
	counted.OrderBy = nil
	counted.Limit = nil
	counted.Offset = nil

	// select_related joins are to-one and never change the row count. They
	// stay as plain joins so WHERE can still reference the alias.
	if len(counted.SelectRelated) > 0 {
		if len(counted.Select) == 0 {
			counted.Select = []ast.SelectColumn{ast.Star{Table: counted.EffectiveTable()}}
		}
		counted.Joins = append(relatedJoins(counted), counted.Joins...)
		counted.SelectRelated = nil
	}

	groups := groupColumns(counted.GroupBy)
	var (
		c   *compiler.Compiled
		err error
	)
	if !counted.Distinct && len(groups) == 0 && len(counted.CompoundQueries) == 0 {
		counted.Select = nil
		counted.Annotations = nil
		counted.Aggregates = map[string]ast.Expression{
			"count": ast.Count(""),
		}
		c, err = e.compiler.Compile(counted)
	} else {
		if len(groups) > 0 && len(counted.Select) == 0 && len(counted.Annotations) == 0 && len(counted.Aggregates) == 0 {
			for _, g := range groups {
				counted.Select = append(counted.Select, ast.Column{Name: g})
			}
		}
		c, err = e.compiler.Compile(counted)
		if err == nil {
			c = &compiler.Compiled{
				SQL:    `SELECT COUNT(*) AS "count" FROM (` + c.SQL + `) AS "counted"`,
				Params: c.Params,
			}
		}
	}
	if err != nil {
		return 0, err
	}

	rows, err := e.QueryCompiled(ctx, c)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, ok := toInt64(rows[0]["count"])
	if !ok {
		return 0, fmt.Errorf("unexpected count value %v", rows[0]["count"])
	}
	return n, nil
}

func relatedJoins(q *ast.Query) []ast.Join {
	table := q.EffectiveTable()
	joins := make([]ast.Join, 0, len(q.SelectRelated))
	for _, sr := range q.SelectRelated {
		alias := sr.JoinAlias()
		joins = append(joins, ast.Join{
			Type:  ast.LeftJoin,
			Table: sr.RelatedTable,
			Alias: alias,
			On:    ast.Cond(table+"."+sr.FKColumn, ast.EqualsColumn{Column: alias + "." + sr.RelatedColumn}),
		})
	}
	return joins
}

// groupColumns returns the GROUP BY entries that reach SQL.
func groupColumns(entries []string) []string {
	var out []string
	for _, g := range entries {
		if strings.HasPrefix(g, ast.SelectRelatedHint) || strings.HasPrefix(g, ast.PrefetchRelatedHint) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Create inserts the exported fields of a struct into table. Nil pointer
// fields are left to column defaults.
func (e *Executor) Create(ctx context.Context, table string, data any) (sql.Result, error) {
	fields, err := extractInsertData(data)
	if err != nil {
		return nil, err
	}
	return e.Exec(ctx, &ast.Insert{Table: table, Fields: fields})
}

func (e *Executor) rows(ctx context.Context, c *compiler.Compiled) (*sql.Rows, error) {
	args, err := driverArgs(e.Backend(), c.Params)
	if err != nil {
		return nil, err
	}
	debug.Debug("query", "sql", c.SQL, "params", len(args))

	rows, err := e.conn.QueryContext(ctx, c.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	return rows, nil
}
