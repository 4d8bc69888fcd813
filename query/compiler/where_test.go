package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

func TestCompileWhere_Groups(t *testing.T) {
	comp := compiler.New(sqlgen.Postgres)

	tests := []struct {
		name       string
		node       ast.WhereNode
		wantSQL    string
		wantParams []value.Value
	}{
		{
			name:       "empty and is true",
			node:       ast.And{},
			wantSQL:    "1=1",
			wantParams: []value.Value{},
		},
		{
			name:       "empty or is false",
			node:       ast.Or{},
			wantSQL:    "1=0",
			wantParams: []value.Value{},
		},
		{
			name:       "single child unwrapped",
			node:       ast.AllOf(ast.Eq("a", value.Int(1))),
			wantSQL:    `"a" = $1`,
			wantParams: []value.Value{value.Int(1)},
		},
		{
			name: "nested groups",
			node: ast.AllOf(
				ast.Eq("a", value.Int(1)),
				ast.AnyOf(ast.Eq("b", value.Int(2)), ast.Cond("c", ast.Gt{Value: value.Int(3)})),
			),
			wantSQL:    `("a" = $1 AND ("b" = $2 OR "c" > $3))`,
			wantParams: []value.Value{value.Int(1), value.Int(2), value.Int(3)},
		},
		{
			name:       "not",
			node:       ast.Negate(ast.Eq("a", value.Int(1))),
			wantSQL:    `NOT ("a" = $1)`,
			wantParams: []value.Value{value.Int(1)},
		},
		{
			name:       "not of empty or",
			node:       ast.Negate(ast.Or{}),
			wantSQL:    "NOT (1=0)",
			wantParams: []value.Value{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := comp.CompileWhere(tt.node)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestCompileWhere_Lookups(t *testing.T) {
	tests := []struct {
		name       string
		backend    sqlgen.Backend
		lookup     ast.Lookup
		wantSQL    string
		wantParams []value.Value
	}{
		{"exact", sqlgen.Postgres, ast.Exact{Value: value.String("Alice")}, `"col" = $1`, []value.Value{value.String("Alice")}},
		{"exact null", sqlgen.Postgres, ast.Exact{Value: value.Null{}}, `"col" IS NULL`, []value.Value{}},
		{"iexact", sqlgen.SQLite, ast.IExact{Value: value.String("a")}, `LOWER("col") = LOWER(?)`, []value.Value{value.String("a")}},
		{"iexact null", sqlgen.MySQL, ast.IExact{Value: value.Null{}}, `"col" IS NULL`, []value.Value{}},
		{"contains", sqlgen.Postgres, ast.Contains{Value: "li"}, `"col" LIKE $1 ESCAPE '\'`, []value.Value{value.String("%li%")}},
		{"icontains postgres", sqlgen.Postgres, ast.IContains{Value: "li"}, `"col" ILIKE $1 ESCAPE '\'`, []value.Value{value.String("%li%")}},
		{"icontains sqlite", sqlgen.SQLite, ast.IContains{Value: "li"}, `LOWER("col") LIKE LOWER(?) ESCAPE '\'`, []value.Value{value.String("%li%")}},
		{"startswith", sqlgen.MySQL, ast.StartsWith{Value: "A"}, `"col" LIKE ?`, []value.Value{value.String("A%")}},
		{"istartswith mysql", sqlgen.MySQL, ast.IStartsWith{Value: "A"}, `LOWER("col") LIKE LOWER(?)`, []value.Value{value.String("A%")}},
		{"endswith", sqlgen.Postgres, ast.EndsWith{Value: "z"}, `"col" LIKE $1 ESCAPE '\'`, []value.Value{value.String("%z")}},
		{"iendswith", sqlgen.Postgres, ast.IEndsWith{Value: "z"}, `"col" ILIKE $1 ESCAPE '\'`, []value.Value{value.String("%z")}},
		{"contains percent", sqlgen.Postgres, ast.Contains{Value: "50%"}, `"col" LIKE $1 ESCAPE '\'`, []value.Value{value.String(`%50\%%`)}},
		{"startswith underscore sqlite", sqlgen.SQLite, ast.StartsWith{Value: "a_b"}, `"col" LIKE ? ESCAPE '\'`, []value.Value{value.String(`a\_b%`)}},
		{"endswith backslash mysql", sqlgen.MySQL, ast.EndsWith{Value: `c:\`}, `"col" LIKE ?`, []value.Value{value.String(`%c:\\`)}},
		{"in", sqlgen.Postgres, ast.In{Values: value.Ints(1, 2, 3)}, `"col" IN ($1, $2, $3)`, []value.Value{value.Int(1), value.Int(2), value.Int(3)}},
		{"in sqlite", sqlgen.SQLite, ast.In{Values: value.Ints(1, 2)}, `"col" IN (?, ?)`, []value.Value{value.Int(1), value.Int(2)}},
		{"empty in", sqlgen.Postgres, ast.In{}, "1=0", []value.Value{}},
		{"gt", sqlgen.Postgres, ast.Gt{Value: value.Int(1)}, `"col" > $1`, []value.Value{value.Int(1)}},
		{"gte", sqlgen.Postgres, ast.Gte{Value: value.Int(1)}, `"col" >= $1`, []value.Value{value.Int(1)}},
		{"lt", sqlgen.Postgres, ast.Lt{Value: value.Int(1)}, `"col" < $1`, []value.Value{value.Int(1)}},
		{"lte", sqlgen.Postgres, ast.Lte{Value: value.Int(1)}, `"col" <= $1`, []value.Value{value.Int(1)}},
		{"range", sqlgen.Postgres, ast.Range{Low: value.Int(1), High: value.Int(9)}, `"col" BETWEEN $1 AND $2`, []value.Value{value.Int(1), value.Int(9)}},
		{"isnull", sqlgen.SQLite, ast.IsNull{IsNull: true}, `"col" IS NULL`, []value.Value{}},
		{"isnotnull", sqlgen.SQLite, ast.IsNull{IsNull: false}, `"col" IS NOT NULL`, []value.Value{}},
		{"regex postgres", sqlgen.Postgres, ast.Regex{Pattern: "^a"}, `"col" ~ $1`, []value.Value{value.String("^a")}},
		{"iregex postgres", sqlgen.Postgres, ast.IRegex{Pattern: "^a"}, `"col" ~* $1`, []value.Value{value.String("^a")}},
		{"regex mysql", sqlgen.MySQL, ast.Regex{Pattern: "^a"}, `"col" REGEXP ?`, []value.Value{value.String("^a")}},
		{"iregex sqlite", sqlgen.SQLite, ast.IRegex{Pattern: "^a"}, `"col" REGEXP '(?i)' || ?`, []value.Value{value.String("^a")}},
		{"equals column", sqlgen.Postgres, ast.EqualsColumn{Column: "t.id"}, `"col" = "t"."id"`, []value.Value{}},
		{"array contains", sqlgen.Postgres, ast.ArrayContains{Value: value.Strings("a")}, `"col" @> $1`, []value.Value{value.Strings("a")}},
		{"array contained by", sqlgen.Postgres, ast.ArrayContainedBy{Value: value.Strings("a")}, `"col" <@ $1`, []value.Value{value.Strings("a")}},
		{"array overlap", sqlgen.Postgres, ast.ArrayOverlap{Value: value.Strings("a")}, `"col" && $1`, []value.Value{value.Strings("a")}},
		{"has key", sqlgen.Postgres, ast.HasKey{Key: "k"}, `"col" ? $1`, []value.Value{value.String("k")}},
		{"has keys", sqlgen.Postgres, ast.HasKeys{Keys: []string{"a", "b"}}, `"col" ?& $1`, []value.Value{value.Strings("a", "b")}},
		{"has any keys", sqlgen.Postgres, ast.HasAnyKeys{Keys: []string{"a"}}, `"col" ?| $1`, []value.Value{value.Strings("a")}},
		{"fully lt", sqlgen.Postgres, ast.RangeStrictlyLeft{Value: value.Int(1)}, `"col" << $1`, []value.Value{value.Int(1)}},
		{"fully gt", sqlgen.Postgres, ast.RangeStrictlyRight{Value: value.Int(1)}, `"col" >> $1`, []value.Value{value.Int(1)}},
		{"search", sqlgen.Postgres, ast.Search{Query: "cat"}, `to_tsvector("col") @@ plainto_tsquery($1)`, []value.Value{value.String("cat")}},
		{"postgres operator on sqlite", sqlgen.SQLite, ast.ArrayOverlap{Value: value.Strings("a")}, `"col" && ?`, []value.Value{value.Strings("a")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := compiler.New(tt.backend).CompileWhere(ast.Cond("col", tt.lookup))
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantParams, params)
		})
	}
}

func TestCompileWhere_ColumnSQL(t *testing.T) {
	comp := compiler.New(sqlgen.Postgres)

	sql, params := comp.CompileWhere(ast.Condition{
		Column:    "name",
		ColumnSQL: `LOWER("name")`,
		Lookup:    ast.Exact{Value: value.String("bob")},
	})
	assert.Equal(t, `LOWER("name") = $1`, sql)
	assert.Equal(t, []value.Value{value.String("bob")}, params)
}

func TestCompileWhere_CustomLookup(t *testing.T) {
	ne := ast.Custom{Name: "ne", Template: "{column} <> {value}", Value: value.Int(3)}

	sql, params := compiler.New(sqlgen.Postgres).CompileWhere(ast.Cond("n", ne))
	assert.Equal(t, `"n" <> $1`, sql)
	assert.Equal(t, []value.Value{value.Int(3)}, params)

	twice := ast.Custom{Name: "between_self", Template: "{column} >= {value} AND {column} <= {value} * 2", Value: value.Int(3)}

	sql, params = compiler.New(sqlgen.Postgres).CompileWhere(ast.Cond("n", twice))
	assert.Equal(t, `"n" >= $1 AND "n" <= $1 * 2`, sql)
	assert.Len(t, params, 1)

	sql, params = compiler.New(sqlgen.SQLite).CompileWhere(ast.Cond("n", twice))
	assert.Equal(t, `"n" >= ? AND "n" <= ? * 2`, sql)
	assert.Len(t, params, 2)

	sql, params = compiler.New(sqlgen.SQLite).CompileWhere(ast.Cond("{value}", ne))
	assert.Equal(t, `"{value}" <> ?`, sql)
	assert.Len(t, params, 1)
}

func TestCompileWhere_PlaceholderOrder(t *testing.T) {
	var nodes []ast.WhereNode
	for i := 1; i <= 12; i++ {
		nodes = append(nodes, ast.Eq("c", value.Int(int64(i))))
	}

	sql, params := compiler.New(sqlgen.Postgres).CompileWhere(ast.And(nodes))
	assert.Len(t, params, 12)
	last := -1
	for i := 1; i <= 12; i++ {
		ph := "$" + itoa(i) + " "
		if i == 12 {
			ph = "$12)"
		}
		idx := strings.Index(sql, ph)
		assert.Greater(t, idx, last, "placeholder %d out of order", i)
		last = idx
		assert.Equal(t, value.Int(int64(i)), params[i-1])
	}

	sql, params = compiler.New(sqlgen.MySQL).CompileWhere(ast.And(nodes))
	assert.NotContains(t, sql, "$")
	assert.Equal(t, len(params), strings.Count(sql, "?"))
}
