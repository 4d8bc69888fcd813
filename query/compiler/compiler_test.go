package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

type unknownNode struct{}

func (unknownNode) Type() ast.NodeType { return "Merge" }

func TestNewCompiler(t *testing.T) {
	comp, err := compiler.NewCompiler("postgres")
	require.NoError(t, err)
	assert.Equal(t, sqlgen.Postgres, comp.Backend())

	_, err = compiler.NewCompiler("oracle")
	assert.ErrorIs(t, err, sqlgen.ErrUnknownBackend)
}

func TestCompile_Dispatch(t *testing.T) {
	comp := compiler.New(sqlgen.Postgres)

	tests := []struct {
		name    string
		node    ast.QueryNode
		wantSQL string
	}{
		{"select", &ast.Query{Table: "users"}, `SELECT * FROM "users"`},
		{"insert", &ast.Insert{Table: "users", Fields: []ast.Assignment{ast.Set("a", value.Int(1))}, Returning: []string{"id"}}, `INSERT INTO "users" ("a") VALUES ($1) RETURNING "id"`},
		{"bulk insert", &ast.BulkInsert{Table: "users", Columns: []string{"a"}, Rows: [][]value.Value{{value.Int(1)}, {value.Int(2)}}}, `INSERT INTO "users" ("a") VALUES ($1), ($2)`},
		{"update", &ast.Update{Table: "users", Fields: []ast.Assignment{ast.Set("a", value.Int(1))}, Where: ast.Eq("id", value.Int(2))}, `UPDATE "users" SET "a" = $1 WHERE "id" = $2`},
		{"delete", &ast.Delete{Table: "users"}, `DELETE FROM "users"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := comp.Compile(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, compiled.SQL)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	comp := compiler.New(sqlgen.SQLite)

	tests := []struct {
		name    string
		node    ast.QueryNode
		wantErr error
	}{
		{"nil node", nil, compiler.ErrInvalidQuery},
		{"nil query", (*ast.Query)(nil), compiler.ErrInvalidQuery},
		{"missing table", &ast.Query{}, compiler.ErrInvalidQuery},
		{"update without fields", &ast.Update{Table: "t"}, compiler.ErrInvalidQuery},
		{"bulk insert without rows", &ast.BulkInsert{Table: "t", Columns: []string{"a"}}, compiler.ErrInvalidQuery},
		{"ragged bulk insert", &ast.BulkInsert{Table: "t", Columns: []string{"a", "b"}, Rows: [][]value.Value{{value.Int(1)}}}, compiler.ErrInvalidQuery},
		{"delete without table", &ast.Delete{}, compiler.ErrInvalidQuery},
		{"unknown node", unknownNode{}, compiler.ErrUnsupportedQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := comp.Compile(tt.node)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompiler_ConcurrentUse(t *testing.T) {
	comp := compiler.New(sqlgen.Postgres)
	q := &ast.Query{Table: "t", Where: ast.AllOf(ast.Eq("a", value.Int(1)), ast.Eq("b", value.Int(2)))}

	done := make(chan string, 16)
	for i := 0; i < 16; i++ {
		go func() {
			sql, _ := comp.CompileSelect(q)
			done <- sql
		}()
	}
	for i := 0; i < 16; i++ {
		assert.Equal(t, `SELECT * FROM "t" WHERE ("a" = $1 AND "b" = $2)`, <-done)
	}
}
