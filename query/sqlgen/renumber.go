package sqlgen

import (
	"strconv"
	"strings"
)

// RenumberPlaceholders shifts every Postgres "$N" placeholder in sql by offset.
//
// Whole digit runs are rewritten as one token, so "$1" never touches the
// prefix of "$11", and already-shifted numbers are never shifted twice.
// Single-quoted literals and double-quoted identifiers are copied unchanged;
// a doubled quote inside either closes and reopens the span, which keeps the
// scanner inside it.
func RenumberPlaceholders(sql string, offset int) string {
	if offset == 0 || !strings.Contains(sql, "$") {
		return sql
	}

	var out strings.Builder
	out.Grow(len(sql) + 8)
	var quote byte

	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			out.WriteByte(ch)
			continue
		case ch == '\'' || ch == '"':
			quote = ch
			out.WriteByte(ch)
			continue
		}
		if ch != '$' {
			out.WriteByte(ch)
			continue
		}

		j := i + 1
		for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
			j++
		}
		if j == i+1 {
			out.WriteByte(ch)
			continue
		}

		n, err := strconv.Atoi(sql[i+1 : j])
		if err != nil {
			out.WriteString(sql[i:j])
		} else {
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n + offset))
		}
		i = j - 1
	}

	return out.String()
}
