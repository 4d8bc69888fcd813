// Package value defines the scalar values that flow from the query AST into
// compiled parameter lists.
package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Value is a sealed interface over the parameter types a compiled statement
// can carry. Only the types in this package implement it.
type Value interface {
	value()
	// String renders the value for logs and CLI output; it is never spliced into SQL.
	String() string
}

// Null is the SQL NULL.
type Null struct{}

func (Null) value()         {}
func (Null) String() string { return "NULL" }

// Bool is a boolean value.
type Bool bool

func (Bool) value()           {}
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Int is a 64-bit integer value.
type Int int64

func (Int) value()           {}
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Float is a 64-bit floating point value.
type Float float64

func (Float) value()           {}
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }

// String is a text value.
type String string

func (String) value()           {}
func (s String) String() string { return strconv.Quote(string(s)) }

// Text returns the raw string without quoting.
func (s String) Text() string { return string(s) }

// Bytes is a binary value.
type Bytes []byte

func (Bytes) value()           {}
func (b Bytes) String() string { return fmt.Sprintf("x'%x'", []byte(b)) }

// UUID is a uuid value.
type UUID uuid.UUID

func (UUID) value()           {}
func (u UUID) String() string { return uuid.UUID(u).String() }

// Time is a timestamp value.
type Time time.Time

func (Time) value()           {}
func (t Time) String() string { return time.Time(t).Format(time.RFC3339Nano) }

// List is an ordered list of values, bound as a single array parameter.
type List []Value

func (List) value() {}

func (l List) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range l {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(v.String())
	}
	buf.WriteByte(']')
	return buf.String()
}

// JSON is a raw JSON document.
type JSON json.RawMessage

func (JSON) value()           {}
func (j JSON) String() string { return string(j) }

// NewUUID wraps a uuid.UUID.
func NewUUID(u uuid.UUID) UUID {
	return UUID(u)
}

// NewTime wraps a time.Time.
func NewTime(t time.Time) Time {
	return Time(t)
}

// NewList creates a List from values.
func NewList(vals ...Value) List {
	return List(vals)
}

// Strings creates a List of String values.
func Strings(ss ...string) List {
	l := make(List, len(ss))
	for i, s := range ss {
		l[i] = String(s)
	}
	return l
}

// Ints creates a List of Int values.
func Ints(ns ...int64) List {
	l := make(List, len(ns))
	for i, n := range ns {
		l[i] = Int(n)
	}
	return l
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Equal reports structural equality of two values.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch av := a.(type) {
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && bytes.Equal(av, bv)
	case JSON:
		bv, ok := b.(JSON)
		return ok && bytes.Equal(av, bv)
	case Time:
		bv, ok := b.(Time)
		return ok && time.Time(av).Equal(time.Time(bv))
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Of converts a native Go value into a Value.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case uuid.UUID:
		return UUID(x), nil
	case time.Time:
		return Time(x), nil
	case json.RawMessage:
		return JSON(x), nil
	case []any:
		l := make(List, len(x))
		for i, e := range x {
			ev, err := Of(e)
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			l[i] = ev
		}
		return l, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		l := make(List, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := Of(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("list element %d: %w", i, err)
			}
			l[i] = ev
		}
		return l, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// MustOf is like Of but panics on unsupported types.
func MustOf(v any) Value {
	val, err := Of(v)
	if err != nil {
		panic(err)
	}
	return val
}

// Native converts a Value into an argument accepted by database/sql drivers.
// Lists become []any; callers targeting Postgres wrap them with pq.Array.
func Native(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Bytes:
		return []byte(x)
	case UUID:
		return uuid.UUID(x).String()
	case Time:
		return time.Time(x)
	case JSON:
		return string(x)
	case List:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Native(e)
		}
		return out
	default:
		return nil
	}
}
