package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/executor"
)

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

// Formats lists the accepted --format values.
func Formats() []string { return []string{FormatText, FormatJSON, FormatTable} }

type compiledJSON struct {
	SQL    string   `json:"sql"`
	Params []string `json:"params"`
}

// RenderCompiled writes a compiled statement in the given format.
//
// Text output is the SQL followed by one "-- N: value" line per parameter.
func RenderCompiled(w io.Writer, c *compiler.Compiled, format string) error {
	params := make([]string, len(c.Params))
	for i, p := range c.Params {
		params[i] = p.String()
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(compiledJSON{SQL: c.SQL, Params: params})

	case FormatTable:
		if _, err := fmt.Fprintln(w, c.SQL); err != nil {
			return err
		}
		if len(params) == 0 {
			return nil
		}
		rows := make([][]string, len(params))
		for i, p := range params {
			rows[i] = []string{strconv.Itoa(i + 1), p}
		}
		return PrintTable(w, []string{"#", "Value"}, rows)

	case FormatText, "":
		if _, err := fmt.Fprintln(w, c.SQL); err != nil {
			return err
		}
		for i, p := range params {
			if _, err := paramColor.Fprintf(w, "-- %d: %s\n", i+1, p); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

// RenderRows writes result rows in the given format. Text and table both
// render a table with columns in sorted order.
func RenderRows(w io.Writer, rows []executor.Row, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)

	case FormatText, FormatTable, "":
		if len(rows) == 0 {
			_, err := fmt.Fprintln(w, "(0 rows)")
			return err
		}

		headers := make([]string, 0, len(rows[0]))
		for col := range rows[0] {
			headers = append(headers, col)
		}
		sort.Strings(headers)

		data := make([][]string, len(rows))
		for i, row := range rows {
			data[i] = make([]string, len(headers))
			for j, col := range headers {
				data[i][j] = cell(row[col])
			}
		}
		if err := PrintTable(w, headers, data); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "(%d rows)\n", len(rows))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

func cell(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprint(v)
}
