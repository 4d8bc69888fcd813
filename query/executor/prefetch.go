package executor

import (
	"context"
	"fmt"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/compiler"
	"github.com/satishbabariya/querycompiler/query/value"
)

// Prefetched holds the related rows of one field grouped by parent key.
type Prefetched map[any][]Row

// Prefetch runs one batched query per field and groups the related rows by
// the parent key they belong to. Keys are normalised so an int64 parent key
// matches whatever integer type the driver returns.
func (e *Executor) Prefetch(ctx context.Context, fields []ast.PrefetchRelatedField, parentPKs []value.Value) (map[string]Prefetched, error) {
	queries := e.compiler.CompilePrefetchQueries(fields, parentPKs)
	out := make(map[string]Prefetched, len(queries))

	for i, pq := range queries {
		rows, err := e.QueryCompiled(ctx, &compiler.Compiled{SQL: pq.SQL, Params: pq.Params})
		if err != nil {
			return nil, fmt.Errorf("prefetch %s: %w", pq.Field, err)
		}

		keyColumn := fields[i].RelatedColumn
		if fields[i].Through != nil {
			keyColumn = compiler.PrefetchSourceColumn
		}

		grouped := make(Prefetched)
		for _, row := range rows {
			key := groupKey(row[keyColumn])
			grouped[key] = append(grouped[key], row)
		}
		out[pq.Field] = grouped
	}
	return out, nil
}

// ParentKey normalises a parent primary key for lookups in a Prefetched map.
func ParentKey(v value.Value) any {
	return groupKey(value.Native(v))
}

func groupKey(v any) any {
	switch k := v.(type) {
	case int, int32, int64, uint64:
		n, _ := toInt64(k)
		return n
	case []byte:
		return string(k)
	}
	return v
}
