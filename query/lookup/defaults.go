package lookup

import (
	"sync"

	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry seeded with the builtin transforms.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewWithBuiltins()
	})
	return defaultRegistry
}

// NewWithBuiltins creates a registry holding the builtin transforms and the
// "ne" custom lookup.
func NewWithBuiltins() *Registry {
	r := New()

	r.RegisterTransform("lower", Transform{Template: "LOWER({column})"})
	r.RegisterTransform("upper", Transform{Template: "UPPER({column})"})
	r.RegisterTransform("trim", Transform{Template: "TRIM({column})"})
	r.RegisterTransform("abs", Transform{Template: "ABS({column})"})
	r.RegisterTransform("length", Transform{
		Template: "LENGTH({column})",
		Backends: map[sqlgen.Backend]string{sqlgen.MySQL: "CHAR_LENGTH({column})"},
	})
	r.RegisterTransform("date", Transform{
		Template: "DATE({column})",
		Backends: map[sqlgen.Backend]string{
			sqlgen.Postgres: "CAST({column} AS DATE)",
			sqlgen.SQLite:   "date({column})",
		},
	})
	for _, part := range []string{"year", "month", "day", "hour", "minute", "second", "week_day"} {
		r.RegisterTransform(part, datePartTransform(part))
	}

	r.RegisterLookup("ne", CustomLookup{SQLTemplate: "{column} <> {value}"})
	return r
}

func datePartTransform(part string) Transform {
	t := Transform{Backends: make(map[sqlgen.Backend]string)}
	for _, b := range sqlgen.Backends() {
		t.Backends[b] = b.Extract(part, "{column}")
	}
	t.Template = t.Backends[sqlgen.Postgres]
	return t
}
