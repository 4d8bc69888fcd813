// Package sqlgen holds the dialect knowledge shared by the compilers:
// placeholder syntax, identifier quoting and the handful of operators that
// differ between providers.
package sqlgen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned for providers without a backend.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend selects the SQL dialect a statement is generated for.
type Backend string

const (
	Postgres Backend = "postgresql"
	MySQL    Backend = "mysql"
	SQLite   Backend = "sqlite"
)

// ParseBackend resolves a provider name to a Backend.
func ParseBackend(provider string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "postgresql", "postgres", "pg":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, provider)
	}
}

// Backends lists the supported backends.
func Backends() []Backend {
	return []Backend{Postgres, MySQL, SQLite}
}

func (b Backend) String() string { return string(b) }

// Numbered reports whether placeholders carry their parameter position.
func (b Backend) Numbered() bool { return b == Postgres }

// Placeholder returns the placeholder for the n-th (1-based) parameter.
func (b Backend) Placeholder(n int) string {
	if b == Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Quote quotes an identifier. Double quotes are used on every backend.
func Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuoteRef quotes a possibly table-qualified reference ("t.c"), leaving a
// bare "*" unquoted.
func QuoteRef(ref string) string {
	if ref == "*" {
		return ref
	}
	parts := strings.Split(ref, ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = Quote(p)
	}
	return strings.Join(parts, ".")
}

// CaseInsensitiveLike renders a case-insensitive LIKE of lhs against placeholder ph.
func (b Backend) CaseInsensitiveLike(lhs, ph string) string {
	if b == Postgres {
		return fmt.Sprintf("%s ILIKE %s", lhs, ph)
	}
	return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s)", lhs, ph)
}

// ExpandTemplate renders a lookup template: {column} becomes columnSQL and
// each {value} marker, left to right, becomes the result of bind. Column text
// is substituted after splitting, so it can never introduce a {value} marker.
func ExpandTemplate(tmpl, columnSQL string, bind func() string) string {
	parts := strings.Split(tmpl, "{value}")
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteString(bind())
		}
		b.WriteString(strings.ReplaceAll(part, "{column}", columnSQL))
	}
	return b.String()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// LikeEscape returns the ESCAPE clause that makes backslash the LIKE escape
// character. MySQL already uses backslash and would read '\' as an
// unterminated literal under its default sql_mode.
func (b Backend) LikeEscape() string {
	if b == MySQL {
		return ""
	}
	return ` ESCAPE '\'`
}

// RegexMatch renders a regular expression match of lhs against placeholder ph.
func (b Backend) RegexMatch(lhs, ph string, insensitive bool) string {
	switch b {
	case Postgres:
		if insensitive {
			return fmt.Sprintf("%s ~* %s", lhs, ph)
		}
		return fmt.Sprintf("%s ~ %s", lhs, ph)
	case SQLite:
		if insensitive {
			return fmt.Sprintf("%s REGEXP '(?i)' || %s", lhs, ph)
		}
		return fmt.Sprintf("%s REGEXP %s", lhs, ph)
	default:
		return fmt.Sprintf("%s REGEXP %s", lhs, ph)
	}
}

// OffsetWithoutLimit returns the LIMIT clause a backend needs before a bare
// OFFSET, or "" when OFFSET may stand alone.
func (b Backend) OffsetWithoutLimit() string {
	switch b {
	case MySQL:
		// MySQL requires LIMIT when using OFFSET
		return "LIMIT 18446744073709551615"
	case SQLite:
		return "LIMIT -1"
	default:
		return ""
	}
}
