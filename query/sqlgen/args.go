package sqlgen

import "github.com/satishbabariya/querycompiler/query/value"

// Args accumulates the parameters of one statement.
//
// Bind appends the value before rendering its placeholder, so a Postgres
// placeholder number always equals the parameter count at bind time. Every
// compiler threads a single Args through its recursion; the text must be
// emitted in the same left-to-right order the values were bound.
type Args struct {
	backend Backend
	values  []value.Value
}

// NewArgs creates an empty accumulator for a backend.
func NewArgs(b Backend) *Args {
	return &Args{backend: b}
}

// Bind appends v and returns its placeholder.
func (a *Args) Bind(v value.Value) string {
	if v == nil {
		v = value.Null{}
	}
	a.values = append(a.values, v)
	return a.backend.Placeholder(len(a.values))
}

// Len returns the number of bound parameters.
func (a *Args) Len() int { return len(a.values) }

// Values returns the bound parameters in placeholder order.
func (a *Args) Values() []value.Value {
	if a.values == nil {
		return []value.Value{}
	}
	return a.values
}

// Backend returns the backend placeholders are rendered for.
func (a *Args) Backend() Backend { return a.backend }

// Extend appends already-rendered parameters, for statements compiled
// independently and spliced in after renumbering.
func (a *Args) Extend(vals []value.Value) {
	a.values = append(a.values, vals...)
}
