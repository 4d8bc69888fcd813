package executor

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

// ansiQuotes makes MySQL accept the double-quoted identifiers the compiler emits.
const ansiQuotes = "CONCAT(@@sql_mode, ',ANSI_QUOTES')"

// DriverName returns the database/sql driver registered for backend b.
func DriverName(b sqlgen.Backend) (string, error) {
	switch b {
	case sqlgen.Postgres:
		return "postgres", nil
	case sqlgen.MySQL:
		return "mysql", nil
	case sqlgen.SQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("%w: %q", sqlgen.ErrUnknownBackend, b)
	}
}

// NormalizeDSN rewrites a connection string into the form the backend's
// driver expects.
//
// Postgres URLs are converted to key/value form. MySQL DSNs are parsed,
// get parseTime and, unless sql_mode is given, ANSI_QUOTES appended to the
// session sql_mode. An empty SQLite DSN opens an in-memory database.
func NormalizeDSN(b sqlgen.Backend, dsn string) (string, error) {
	switch b {
	case sqlgen.Postgres:
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			conn, err := pq.ParseURL(dsn)
			if err != nil {
				return "", fmt.Errorf("invalid postgres url: %w", err)
			}
			return conn, nil
		}
		return dsn, nil

	case sqlgen.MySQL:
		cfg, err := mysql.ParseDSN(strings.TrimPrefix(dsn, "mysql://"))
		if err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		if cfg.Params == nil {
			cfg.Params = make(map[string]string)
		}
		if _, ok := cfg.Params["sql_mode"]; !ok {
			cfg.Params["sql_mode"] = ansiQuotes
		}
		return cfg.FormatDSN(), nil

	case sqlgen.SQLite:
		dsn = strings.TrimPrefix(dsn, "sqlite://")
		if dsn == "" {
			return ":memory:", nil
		}
		return dsn, nil
	}
	return "", fmt.Errorf("%w: %q", sqlgen.ErrUnknownBackend, b)
}
