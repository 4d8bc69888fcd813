package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/builder"
	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

func TestInsertBuilder(t *testing.T) {
	ins, err := builder.NewInsertBuilder("users").
		Set("name", "Ann").
		Set("score", ast.Mul(ast.Val{Value: value.Int(2)}, ast.Val{Value: value.Int(5)})).
		Returning("id").
		Build()
	require.NoError(t, err)

	compiled, err := compiler.New(sqlgen.Postgres).Compile(ins)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name", "score") VALUES ($1, ($2 * $3)) RETURNING "id"`, compiled.SQL)
	assert.Equal(t, []value.Value{value.String("Ann"), value.Int(2), value.Int(5)}, compiled.Params)

	_, err = builder.NewInsertBuilder("users").Set("bad", make(chan int)).Build()
	assert.Error(t, err)
}

func TestUpdateBuilder(t *testing.T) {
	u := builder.NewUpdateBuilder("users", sqlgen.SQLite).Set("name", "Bo").Set("age", 41)
	u.Where().Equals("id", 7)

	upd, err := u.Build()
	require.NoError(t, err)

	compiled, err := compiler.New(sqlgen.SQLite).Compile(upd)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "name" = ?, "age" = ? WHERE "id" = ?`, compiled.SQL)
	assert.Equal(t, []value.Value{value.String("Bo"), value.Int(41), value.Int(7)}, compiled.Params)
}

func TestDeleteBuilder(t *testing.T) {
	d := builder.NewDeleteBuilder("sessions", sqlgen.Postgres)
	d.Where().Filter("expires__lt", 100)

	del, err := d.Build()
	require.NoError(t, err)

	compiled, err := compiler.New(sqlgen.Postgres).Compile(del)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "sessions" WHERE "expires" < $1`, compiled.SQL)

	bad := builder.NewDeleteBuilder("sessions", sqlgen.Postgres)
	bad.Where().Filter("expires__soon", 1)
	_, err = bad.Build()
	assert.Error(t, err)
}
