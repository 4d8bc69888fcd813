package executor

import (
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// driverArgs converts compiled parameters into database/sql arguments.
//
// Lists bind as a single parameter: a Postgres array through pq.Array, and
// JSON text on the other backends.
func driverArgs(b sqlgen.Backend, params []value.Value) ([]any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		l, ok := p.(value.List)
		if !ok {
			args[i] = value.Native(p)
			continue
		}

		if b == sqlgen.Postgres {
			args[i] = pq.Array(typedSlice(l))
			continue
		}
		raw, err := json.Marshal(value.Native(l))
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		args[i] = string(raw)
	}
	return args, nil
}

// typedSlice narrows a homogeneous list to the slice types pq.Array encodes
// natively. Mixed lists fall back to a generic array.
func typedSlice(l value.List) any {
	if len(l) == 0 {
		return []string{}
	}

	switch l[0].(type) {
	case value.Int:
		out := make([]int64, 0, len(l))
		for _, v := range l {
			n, ok := v.(value.Int)
			if !ok {
				return value.Native(l)
			}
			out = append(out, int64(n))
		}
		return out
	case value.Float:
		out := make([]float64, 0, len(l))
		for _, v := range l {
			f, ok := v.(value.Float)
			if !ok {
				return value.Native(l)
			}
			out = append(out, float64(f))
		}
		return out
	case value.Bool:
		out := make([]bool, 0, len(l))
		for _, v := range l {
			bv, ok := v.(value.Bool)
			if !ok {
				return value.Native(l)
			}
			out = append(out, bool(bv))
		}
		return out
	case value.String, value.UUID:
		out := make([]string, 0, len(l))
		for _, v := range l {
			switch s := v.(type) {
			case value.String:
				out = append(out, string(s))
			case value.UUID:
				out = append(out, s.String())
			default:
				return value.Native(l)
			}
		}
		return out
	}
	return value.Native(l)
}
