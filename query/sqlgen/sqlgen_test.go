package sqlgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		provider string
		want     sqlgen.Backend
	}{
		{"postgresql", sqlgen.Postgres},
		{"postgres", sqlgen.Postgres},
		{" PG ", sqlgen.Postgres},
		{"mysql", sqlgen.MySQL},
		{"sqlite", sqlgen.SQLite},
		{"sqlite3", sqlgen.SQLite},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got, err := sqlgen.ParseBackend(tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := sqlgen.ParseBackend("mongodb")
	assert.ErrorIs(t, err, sqlgen.ErrUnknownBackend)
}

func TestBackend_Placeholder(t *testing.T) {
	assert.Equal(t, "$1", sqlgen.Postgres.Placeholder(1))
	assert.Equal(t, "$12", sqlgen.Postgres.Placeholder(12))
	assert.Equal(t, "?", sqlgen.MySQL.Placeholder(3))
	assert.Equal(t, "?", sqlgen.SQLite.Placeholder(1))

	assert.True(t, sqlgen.Postgres.Numbered())
	assert.False(t, sqlgen.SQLite.Numbered())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"users"`, sqlgen.Quote("users"))
	assert.Equal(t, `"we""ird"`, sqlgen.Quote(`we"ird`))

	assert.Equal(t, `"users"."id"`, sqlgen.QuoteRef("users.id"))
	assert.Equal(t, `"users".*`, sqlgen.QuoteRef("users.*"))
	assert.Equal(t, `*`, sqlgen.QuoteRef("*"))
}

func TestArgs(t *testing.T) {
	args := sqlgen.NewArgs(sqlgen.Postgres)
	assert.Equal(t, []value.Value{}, args.Values())
	assert.Equal(t, 0, args.Len())

	assert.Equal(t, "$1", args.Bind(value.Int(1)))
	assert.Equal(t, "$2", args.Bind(nil))
	args.Extend([]value.Value{value.String("a"), value.String("b")})
	assert.Equal(t, "$5", args.Bind(value.Bool(true)))

	assert.Equal(t, []value.Value{
		value.Int(1), value.Null{}, value.String("a"), value.String("b"), value.Bool(true),
	}, args.Values())
	assert.Equal(t, sqlgen.Postgres, args.Backend())

	q := sqlgen.NewArgs(sqlgen.SQLite)
	assert.Equal(t, "?", q.Bind(value.Int(1)))
	assert.Equal(t, "?", q.Bind(value.Int(2)))
	assert.Equal(t, 2, q.Len())
}

func TestRenumberPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		offset int
		want   string
	}{
		{
			name:   "zero offset",
			sql:    `SELECT * FROM "t" WHERE "a" = $1`,
			offset: 0,
			want:   `SELECT * FROM "t" WHERE "a" = $1`,
		},
		{
			name:   "no placeholders",
			sql:    `SELECT 1`,
			offset: 3,
			want:   `SELECT 1`,
		},
		{
			name:   "multi digit placeholders are whole tokens",
			sql:    `"a" = $1 AND "b" = $11 AND "c" = $2`,
			offset: 10,
			want:   `"a" = $11 AND "b" = $21 AND "c" = $12`,
		},
		{
			name:   "quoted literals untouched",
			sql:    `"a" = '$1' AND "b" = $1`,
			offset: 2,
			want:   `"a" = '$1' AND "b" = $3`,
		},
		{
			name:   "apostrophe inside identifier",
			sql:    `"o'neil" = $1 AND "y" = $2`,
			offset: 1,
			want:   `"o'neil" = $2 AND "y" = $3`,
		},
		{
			name:   "dollar inside identifier",
			sql:    `"a$1" = $1`,
			offset: 4,
			want:   `"a$1" = $5`,
		},
		{
			name:   "doubled quotes stay inside the span",
			sql:    `"a""b'" = $1 AND 'it''s $1' = $2`,
			offset: 3,
			want:   `"a""b'" = $4 AND 'it''s $1' = $5`,
		},
		{
			name:   "bare dollar kept",
			sql:    `"a" = '$' || $1 || $`,
			offset: 1,
			want:   `"a" = '$' || $2 || $`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlgen.RenumberPlaceholders(tt.sql, tt.offset))
		})
	}
}

func TestBackend_Operators(t *testing.T) {
	assert.Equal(t, `"n" ILIKE $1`, sqlgen.Postgres.CaseInsensitiveLike(`"n"`, "$1"))
	assert.Equal(t, `LOWER("n") LIKE LOWER(?)`, sqlgen.MySQL.CaseInsensitiveLike(`"n"`, "?"))

	assert.Equal(t, `"n" ~ $1`, sqlgen.Postgres.RegexMatch(`"n"`, "$1", false))
	assert.Equal(t, `"n" ~* $1`, sqlgen.Postgres.RegexMatch(`"n"`, "$1", true))
	assert.Equal(t, `"n" REGEXP '(?i)' || ?`, sqlgen.SQLite.RegexMatch(`"n"`, "?", true))
	assert.Equal(t, `"n" REGEXP ?`, sqlgen.MySQL.RegexMatch(`"n"`, "?", true))

	assert.Equal(t, "", sqlgen.Postgres.OffsetWithoutLimit())
	assert.Equal(t, "LIMIT -1", sqlgen.SQLite.OffsetWithoutLimit())
	assert.Equal(t, "LIMIT 18446744073709551615", sqlgen.MySQL.OffsetWithoutLimit())
}

func TestLikeEscaping(t *testing.T) {
	assert.Equal(t, `50\%`, sqlgen.EscapeLike("50%"))
	assert.Equal(t, `a\_b`, sqlgen.EscapeLike("a_b"))
	assert.Equal(t, `c:\\`, sqlgen.EscapeLike(`c:\`))
	assert.Equal(t, "plain", sqlgen.EscapeLike("plain"))

	assert.Equal(t, ` ESCAPE '\'`, sqlgen.Postgres.LikeEscape())
	assert.Equal(t, ` ESCAPE '\'`, sqlgen.SQLite.LikeEscape())
	assert.Equal(t, "", sqlgen.MySQL.LikeEscape())
}

func TestExpandTemplate(t *testing.T) {
	n := 0
	bind := func() string {
		n++
		return sqlgen.SQLite.Placeholder(n)
	}

	assert.Equal(t, `"a" >= ? AND "a" <= ? * 2`, sqlgen.ExpandTemplate("{column} >= {value} AND {column} <= {value} * 2", `"a"`, bind))
	assert.Equal(t, 2, n)

	n = 0
	assert.Equal(t, `"{value}" = ?`, sqlgen.ExpandTemplate("{column} = {value}", `"{value}"`, bind))
	assert.Equal(t, 1, n)

	assert.Equal(t, `"a" IS NULL`, sqlgen.ExpandTemplate("{column} IS NULL", `"a"`, bind))
	assert.Equal(t, 1, n)
}

func TestBackend_Dates(t *testing.T) {
	assert.Equal(t, `EXTRACT(YEAR FROM "d")`, sqlgen.Postgres.Extract("year", `"d"`))
	assert.Equal(t, `(EXTRACT(DOW FROM "d") + 1)`, sqlgen.Postgres.Extract("week_day", `"d"`))
	assert.Equal(t, `CAST(strftime('%m', "d") AS INTEGER)`, sqlgen.SQLite.Extract("Month", `"d"`))
	assert.Equal(t, `(CAST(strftime('%w', "d") AS INTEGER) + 1)`, sqlgen.SQLite.Extract("week_day", `"d"`))
	assert.Equal(t, `DAYOFWEEK("d")`, sqlgen.MySQL.Extract("week_day", `"d"`))
	assert.Equal(t, `EXTRACT(HOUR FROM "d")`, sqlgen.MySQL.Extract("hour", `"d"`))

	assert.Equal(t, `DATE_TRUNC('month', "d")`, sqlgen.Postgres.DateTrunc("month", `"d"`))
	assert.Equal(t, `strftime('%Y-01-01 00:00:00', "d")`, sqlgen.SQLite.DateTrunc("year", `"d"`))
	assert.Equal(t, `CAST(DATE_FORMAT("d", '%Y-%m-%d 00:00:00') AS DATETIME)`, sqlgen.MySQL.DateTrunc("day", `"d"`))

	// Part names are sanitised before they reach SQL text.
	assert.Equal(t, `DATE_TRUNC('day', "d")`, sqlgen.Postgres.DateTrunc("da'y; --", `"d"`))
}
