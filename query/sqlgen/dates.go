package sqlgen

import (
	"fmt"
	"strings"
)

var sqliteParts = map[string]string{
	"year":   "%Y",
	"month":  "%m",
	"day":    "%d",
	"hour":   "%H",
	"minute": "%M",
	"second": "%S",
	"week":   "%W",
	"doy":    "%j",
}

// Extract renders the extraction of a date part from expr.
func (b Backend) Extract(part, expr string) string {
	part = datePart(part)
	switch b {
	case SQLite:
		if part == "week_day" {
			return fmt.Sprintf("(CAST(strftime('%%w', %s) AS INTEGER) + 1)", expr)
		}
		if f, ok := sqliteParts[part]; ok {
			return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", f, expr)
		}
	case MySQL:
		if part == "week_day" {
			return fmt.Sprintf("DAYOFWEEK(%s)", expr)
		}
	case Postgres:
		if part == "week_day" {
			return fmt.Sprintf("(EXTRACT(DOW FROM %s) + 1)", expr)
		}
	}
	return fmt.Sprintf("EXTRACT(%s FROM %s)", strings.ToUpper(part), expr)
}

var sqliteTrunc = map[string]string{
	"year":   "%Y-01-01 00:00:00",
	"month":  "%Y-%m-01 00:00:00",
	"day":    "%Y-%m-%d 00:00:00",
	"hour":   "%Y-%m-%d %H:00:00",
	"minute": "%Y-%m-%d %H:%M:00",
	"second": "%Y-%m-%d %H:%M:%S",
}

var mysqlTrunc = map[string]string{
	"year":   "%Y-01-01 00:00:00",
	"month":  "%Y-%m-01 00:00:00",
	"day":    "%Y-%m-%d 00:00:00",
	"hour":   "%Y-%m-%d %H:00:00",
	"minute": "%Y-%m-%d %H:%i:00",
	"second": "%Y-%m-%d %H:%i:%s",
}

// DateTrunc renders the truncation of expr to kind.
func (b Backend) DateTrunc(kind, expr string) string {
	kind = datePart(kind)
	switch b {
	case SQLite:
		if f, ok := sqliteTrunc[kind]; ok {
			return fmt.Sprintf("strftime('%s', %s)", f, expr)
		}
	case MySQL:
		if f, ok := mysqlTrunc[kind]; ok {
			return fmt.Sprintf("CAST(DATE_FORMAT(%s, '%s') AS DATETIME)", expr, f)
		}
	}
	return fmt.Sprintf("DATE_TRUNC('%s', %s)", kind, expr)
}

// datePart lowercases a part name and drops anything that is not a letter or
// underscore; part names are spliced into SQL text.
func datePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}
