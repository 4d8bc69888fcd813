package executor_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/builder"
	"github.com/satishbabariya/querycompiler/query/executor"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

type user struct {
	ID    *int64  `db:"id"`
	Name  string  `db:"name"`
	Age   *int    `db:"age"`
	Email *string `db:"email"`
	Note  string  `db:"-"`
}

const schema = `
CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, age INTEGER, email TEXT);
CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL, title TEXT NOT NULL);
CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
CREATE TABLE post_tags (post_id INTEGER NOT NULL, tag_id INTEGER NOT NULL);
`

func newTestExecutor(t *testing.T) *executor.Executor {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(schema)
	require.NoError(t, err)

	e := executor.New(db, sqlgen.SQLite)
	t.Cleanup(func() { e.Close() })
	return e
}

func intPtr(n int) *int { return &n }

func seedUsers(t *testing.T, e *executor.Executor) {
	t.Helper()
	ctx := context.Background()

	email := "alice@example.com"
	for _, u := range []user{
		{Name: "Alice", Age: intPtr(31), Email: &email},
		{Name: "Bob", Age: intPtr(19)},
		{Name: "Carol", Age: intPtr(45)},
		{Name: "Dave"},
	} {
		_, err := e.Create(ctx, "users", u)
		require.NoError(t, err)
	}
}

func TestExecutor_FindMany(t *testing.T) {
	e := newTestExecutor(t)
	seedUsers(t, e)

	var users []user
	err := e.FindMany(context.Background(), &ast.Query{
		Table:   "users",
		Where:   ast.Cond("age", ast.Gt{Value: value.Int(20)}),
		OrderBy: []ast.OrderBy{ast.Desc("age")},
	}, &users)
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "Carol", users[0].Name)
	assert.Equal(t, "Alice", users[1].Name)
	require.NotNil(t, users[1].Email)
	assert.Equal(t, "alice@example.com", *users[1].Email)
	assert.Nil(t, users[0].Email)
	require.NotNil(t, users[0].ID)
}

func TestExecutor_FindManyPointers(t *testing.T) {
	e := newTestExecutor(t)
	seedUsers(t, e)

	q, err := builder.NewQueryBuilder("users", sqlgen.SQLite).
		Filter("name__icontains", "a").
		Exclude("age__isnull", true).
		OrderBy("name").
		Build()
	require.NoError(t, err)

	var users []*user
	require.NoError(t, e.FindMany(context.Background(), q, &users))

	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	assert.Equal(t, []string{"Alice", "Carol"}, names)
}

func TestExecutor_FindFirst(t *testing.T) {
	e := newTestExecutor(t)
	seedUsers(t, e)
	ctx := context.Background()

	var u user
	err := e.FindFirst(ctx, &ast.Query{Table: "users", OrderBy: []ast.OrderBy{ast.Asc("age")}, Where: ast.Cond("age", ast.IsNull{IsNull: false})}, &u)
	require.NoError(t, err)
	assert.Equal(t, "Bob", u.Name)
	assert.Equal(t, 19, *u.Age)

	err = e.FindFirst(ctx, &ast.Query{Table: "users", Where: ast.Eq("name", value.String("nobody"))}, &u)
	assert.ErrorIs(t, err, executor.ErrNoRows)
}

func TestExecutor_Count(t *testing.T) {
	e := newTestExecutor(t)
	seedUsers(t, e)
	ctx := context.Background()

	limit := 1
	n, err := e.Count(ctx, &ast.Query{Table: "users", Limit: &limit, OrderBy: []ast.OrderBy{ast.Asc("name")}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = e.Count(ctx, &ast.Query{Table: "users", Where: ast.Cond("age", ast.Lt{Value: value.Int(40)})})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestExecutor_CountDistinctGroupedAndCompound(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()
	for _, name := range []string{"Ann", "Ann", "Ben"} {
		_, err := e.Create(ctx, "users", user{Name: name})
		require.NoError(t, err)
	}

	names := []ast.SelectColumn{ast.Column{Name: "name"}}
	distinct := &ast.Query{Table: "users", Select: names, Distinct: true, OrderBy: []ast.OrderBy{ast.Asc("name")}}
	rows, err := e.Query(ctx, distinct)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	n, err := e.Count(ctx, distinct)
	require.NoError(t, err)
	assert.Equal(t, int64(len(rows)), n)

	n, err = e.Count(ctx, &ast.Query{Table: "users", Select: names, GroupBy: []string{"name"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = e.Count(ctx, &ast.Query{Table: "users", GroupBy: []string{"name"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = e.Count(ctx, &ast.Query{
		Table:  "users",
		Select: names,
		Where:  ast.Eq("name", value.String("Ann")),
		CompoundQueries: []ast.CompoundQuery{{
			Type:  ast.Union,
			Other: &ast.Query{Table: "users", Select: names, Where: ast.Eq("name", value.String("Ben"))},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestExecutor_CountSelectRelated(t *testing.T) {
	e := newTestExecutor(t)
	seedUsers(t, e)
	ctx := context.Background()

	_, err := e.DB().Exec(`INSERT INTO posts (id, user_id, title) VALUES (1, 1, 'a'), (2, 1, 'b'), (3, 1, 'c'), (4, 2, 'd')`)
	require.NoError(t, err)

	author := ast.SelectRelatedField{Field: "author", RelatedTable: "users", FKColumn: "user_id", RelatedColumn: "id"}
	n, err := e.Count(ctx, &ast.Query{Table: "posts", SelectRelated: []ast.SelectRelatedField{author}})
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = e.Count(ctx, &ast.Query{
		Table:         "posts",
		SelectRelated: []ast.SelectRelatedField{author},
		Where:         ast.Eq("author.name", value.String("Alice")),
		Distinct:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestExecutor_LikeMatchesWildcardsLiterally(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()
	for _, name := range []string{"500", "50%", "a_b", "axb"} {
		_, err := e.Create(ctx, "users", user{Name: name})
		require.NoError(t, err)
	}

	tests := []struct {
		lookup ast.Lookup
		want   int64
	}{
		{ast.Contains{Value: "50%"}, 1},
		{ast.StartsWith{Value: "a_"}, 1},
		{ast.IEndsWith{Value: "_B"}, 1},
		{ast.Contains{Value: "50"}, 2},
	}
	for _, tt := range tests {
		n, err := e.Count(ctx, &ast.Query{Table: "users", Where: ast.Cond("name", tt.lookup)})
		require.NoError(t, err)
		assert.Equal(t, tt.want, n, "%#v", tt.lookup)
	}
}

func TestExecutor_UpdateAndDelete(t *testing.T) {
	e := newTestExecutor(t)
	seedUsers(t, e)
	ctx := context.Background()

	upd := builder.NewUpdateBuilder("users", sqlgen.SQLite).Set("age", 20)
	upd.Where().Equals("name", "Bob")
	node, err := upd.Build()
	require.NoError(t, err)

	res, err := e.Exec(ctx, node)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	res, err = e.Exec(ctx, &ast.Delete{Table: "users", Where: ast.Cond("age", ast.IsNull{IsNull: true})})
	require.NoError(t, err)
	affected, err = res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	rows, err := e.Query(ctx, &ast.Query{
		Table:   "users",
		Select:  []ast.SelectColumn{ast.Column{Name: "name"}, ast.Column{Name: "age"}},
		OrderBy: []ast.OrderBy{ast.Asc("name")},
	})
	require.NoError(t, err)
	assert.Equal(t, []executor.Row{
		{"name": "Alice", "age": int64(31)},
		{"name": "Bob", "age": int64(20)},
		{"name": "Carol", "age": int64(45)},
	}, rows)
}

func TestExecutor_BulkInsertAndReturning(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	_, err := e.Exec(ctx, &ast.BulkInsert{
		Table:   "tags",
		Columns: []string{"id", "name"},
		Rows: [][]value.Value{
			{value.Int(1), value.String("go")},
			{value.Int(2), value.String("sql")},
		},
	})
	require.NoError(t, err)

	rows, err := e.Query(ctx, &ast.Insert{
		Table:     "tags",
		Fields:    []ast.Assignment{ast.Set("name", value.String("orm"))},
		Returning: []string{"id", "name"},
	})
	require.NoError(t, err)
	assert.Equal(t, []executor.Row{{"id": int64(3), "name": "orm"}}, rows)
}

func TestExecutor_InvalidStatement(t *testing.T) {
	e := newTestExecutor(t)

	_, err := e.Exec(context.Background(), &ast.Update{Table: "users"})
	require.Error(t, err)

	_, err = e.Query(context.Background(), &ast.Query{Table: "missing_table"})
	require.Error(t, err)
}

func TestExecutor_Transaction(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := e.Transaction(ctx, func(tx *executor.Tx) error {
		if _, err := tx.Create(ctx, "users", user{Name: "Eve"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := e.Count(ctx, &ast.Query{Table: "users"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	err = e.Transaction(ctx, func(tx *executor.Tx) error {
		_, err := tx.Create(ctx, "users", user{Name: "Eve"})
		return err
	})
	require.NoError(t, err)

	n, err = e.Count(ctx, &ast.Query{Table: "users"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestExecutor_NestedTransaction(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	tx, err := e.Begin(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()

	_, err = tx.Begin(ctx, nil)
	assert.ErrorIs(t, err, executor.ErrNestedTransaction)
}

func TestExecutor_Prefetch(t *testing.T) {
	e := newTestExecutor(t)
	ctx := context.Background()

	db := e.DB()
	_, err := db.Exec(`
INSERT INTO posts (id, user_id, title) VALUES (1, 10, 'a'), (2, 10, 'b'), (3, 20, 'c'), (4, 30, 'd');
INSERT INTO tags (id, name) VALUES (1, 'go'), (2, 'sql');
INSERT INTO post_tags (post_id, tag_id) VALUES (1, 1), (1, 2), (2, 2);
`)
	require.NoError(t, err)

	got, err := e.Prefetch(ctx, []ast.PrefetchRelatedField{
		{
			Field:         "posts",
			RelatedTable:  "posts",
			RelatedColumn: "user_id",
			OrderBy:       []ast.OrderBy{ast.Asc("id")},
		},
		{
			Field:        "tags",
			RelatedTable: "tags",
			Through: &ast.ThroughTable{
				Table:        "post_tags",
				SourceColumn: "post_id",
				TargetColumn: "tag_id",
			},
		},
	}, []value.Value{value.Int(1), value.Int(2), value.Int(10), value.Int(20)})
	require.NoError(t, err)

	posts := got["posts"]
	require.Len(t, posts[executor.ParentKey(value.Int(10))], 2)
	assert.Equal(t, "a", posts[executor.ParentKey(value.Int(10))][0]["title"])
	assert.Len(t, posts[executor.ParentKey(value.Int(20))], 1)
	assert.Empty(t, posts[executor.ParentKey(value.Int(30))])

	tags := got["tags"]
	assert.Len(t, tags[executor.ParentKey(value.Int(1))], 2)
	require.Len(t, tags[executor.ParentKey(value.Int(2))], 1)
	assert.Equal(t, "sql", tags[executor.ParentKey(value.Int(2))][0]["name"])

	none, err := e.Prefetch(ctx, []ast.PrefetchRelatedField{{Field: "posts", RelatedTable: "posts", RelatedColumn: "user_id"}}, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
