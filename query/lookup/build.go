package lookup

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// Build turns a lookup name and its right-hand value into an ast.Lookup.
func (r *Registry) Build(name string, v value.Value) (ast.Lookup, error) {
	if v == nil {
		v = value.Null{}
	}

	switch name {
	case "exact":
		return ast.Exact{Value: v}, nil
	case "iexact":
		return ast.IExact{Value: v}, nil
	case "gt":
		return ast.Gt{Value: v}, nil
	case "gte":
		return ast.Gte{Value: v}, nil
	case "lt":
		return ast.Lt{Value: v}, nil
	case "lte":
		return ast.Lte{Value: v}, nil
	case "array_contains":
		return ast.ArrayContains{Value: v}, nil
	case "contained_by":
		return ast.ArrayContainedBy{Value: v}, nil
	case "overlap":
		return ast.ArrayOverlap{Value: v}, nil
	case "fully_lt":
		return ast.RangeStrictlyLeft{Value: v}, nil
	case "fully_gt":
		return ast.RangeStrictlyRight{Value: v}, nil

	case "contains", "icontains", "startswith", "istartswith", "endswith", "iendswith",
		"regex", "iregex", "has_key", "search":
		s, err := text(name, v)
		if err != nil {
			return nil, err
		}
		return textLookup(name, s), nil

	case "in":
		l, ok := v.(value.List)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects a list, got %s", ErrInvalidValue, name, v)
		}
		return ast.In{Values: l}, nil

	case "range":
		l, ok := v.(value.List)
		if !ok || len(l) != 2 {
			return nil, fmt.Errorf("%w: range expects a two element list, got %s", ErrInvalidValue, v)
		}
		return ast.Range{Low: l[0], High: l[1]}, nil

	case "isnull":
		b, ok := v.(value.Bool)
		if !ok {
			return nil, fmt.Errorf("%w: isnull expects a bool, got %s", ErrInvalidValue, v)
		}
		return ast.IsNull{IsNull: bool(b)}, nil

	case "has_keys", "has_any_keys":
		keys, err := textList(name, v)
		if err != nil {
			return nil, err
		}
		if name == "has_keys" {
			return ast.HasKeys{Keys: keys}, nil
		}
		return ast.HasAnyKeys{Keys: keys}, nil
	}

	if def, ok := r.CustomLookup(name); ok {
		return ast.Custom{Name: def.Name, Template: def.SQLTemplate, Value: v}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLookup, name)
}

// Condition resolves a field path and builds the condition it describes.
// Unlike ResolveFieldPath it rejects segments between the field and the
// lookup that name no transform.
func (r *Registry) Condition(path string, v value.Value, b sqlgen.Backend) (ast.Condition, error) {
	if segments := strings.Split(path, PathSeparator); len(segments) > 2 {
		for _, seg := range segments[1 : len(segments)-1] {
			if !r.HasTransform(seg) {
				return ast.Condition{}, fmt.Errorf("%s: %w: %q", path, ErrUnknownTransform, seg)
			}
		}
	}

	base, columnSQL, name := r.ResolveFieldPath(path, b)
	lk, err := r.Build(name, v)
	if err != nil {
		return ast.Condition{}, fmt.Errorf("%s: %w", path, err)
	}

	cond := ast.Condition{Column: base, Lookup: lk}
	if columnSQL != sqlgen.QuoteRef(base) {
		cond.ColumnSQL = columnSQL
	}
	return cond, nil
}

func textLookup(name, s string) ast.Lookup {
	switch name {
	case "contains":
		return ast.Contains{Value: s}
	case "icontains":
		return ast.IContains{Value: s}
	case "startswith":
		return ast.StartsWith{Value: s}
	case "istartswith":
		return ast.IStartsWith{Value: s}
	case "endswith":
		return ast.EndsWith{Value: s}
	case "iendswith":
		return ast.IEndsWith{Value: s}
	case "regex":
		return ast.Regex{Pattern: s}
	case "iregex":
		return ast.IRegex{Pattern: s}
	case "has_key":
		return ast.HasKey{Key: s}
	default:
		return ast.Search{Query: s}
	}
}

// text returns the textual form of scalar values used by pattern lookups.
func text(name string, v value.Value) (string, error) {
	switch x := v.(type) {
	case value.String:
		return x.Text(), nil
	case value.Int, value.Float, value.Bool, value.UUID:
		return x.String(), nil
	}
	return "", fmt.Errorf("%w: %s expects text, got %s", ErrInvalidValue, name, v)
}

func textList(name string, v value.Value) ([]string, error) {
	l, ok := v.(value.List)
	if !ok {
		return nil, fmt.Errorf("%w: %s expects a list, got %s", ErrInvalidValue, name, v)
	}
	out := make([]string, len(l))
	for i, e := range l {
		s, err := text(name, e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
