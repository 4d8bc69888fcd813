package ui

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/executor"
	"github.com/satishbabariya/querycompiler/query/value"
)

func init() {
	color.NoColor = true
}

func TestRenderCompiled_Text(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCompiled(&buf, &compiler.Compiled{
		SQL:    `SELECT * FROM "t" WHERE "a" = $1 AND "b" IS NULL AND "c" = $2`,
		Params: []value.Value{value.String("x"), value.Int(3)},
	}, FormatText)
	require.NoError(t, err)

	assert.Equal(t, "SELECT * FROM \"t\" WHERE \"a\" = $1 AND \"b\" IS NULL AND \"c\" = $2\n-- 1: \"x\"\n-- 2: 3\n", buf.String())
}

func TestRenderCompiled_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCompiled(&buf, &compiler.Compiled{SQL: "SELECT 1", Params: []value.Value{}}, FormatJSON)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "SELECT 1", got["sql"])
	assert.Equal(t, []any{}, got["params"])
}

func TestRenderCompiled_Table(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCompiled(&buf, &compiler.Compiled{SQL: "SELECT ?", Params: []value.Value{value.Bool(true)}}, FormatTable)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "SELECT ?")
	assert.Contains(t, buf.String(), "true")
}

func TestRenderCompiled_UnknownFormat(t *testing.T) {
	err := RenderCompiled(&bytes.Buffer{}, &compiler.Compiled{}, "xml")
	assert.Error(t, err)
}

func TestRenderRows(t *testing.T) {
	rows := []executor.Row{
		{"name": "Ann", "id": int64(1), "email": nil},
		{"name": "Bo", "id": int64(2), "email": "bo@example.com"},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderRows(&buf, rows, FormatTable))
	out := buf.String()
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")

	buf.Reset()
	require.NoError(t, RenderRows(&buf, nil, FormatText))
	assert.Equal(t, "(0 rows)\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderRows(&buf, rows, FormatJSON))
	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 2)
	assert.Equal(t, "bo@example.com", got[1]["email"])
}
