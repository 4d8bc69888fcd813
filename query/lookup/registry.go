// Package lookup maps "field__transform__lookup" paths onto SQL fragments.
//
// Transforms wrap a column in a SQL function before a lookup applies
// ("name__lower" renders LOWER("name")). Lookups are the comparison at the
// end of the path. The builtin lookups map onto ast.Lookup variants; custom
// lookups are registered as {column}/{value} templates.
package lookup

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/satishbabariya/querycompiler/internal/debug"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

const (
	// PathSeparator splits a field path into field, transforms and lookup.
	PathSeparator = "__"

	// DefaultLookup applies when a path names only a field.
	DefaultLookup = "exact"
)

var (
	ErrUnknownLookup    = errors.New("unknown lookup")
	ErrUnknownTransform = errors.New("unknown transform")
	ErrInvalidValue     = errors.New("invalid lookup value")
)

// builtinLookups are always known and cannot be unregistered.
var builtinLookups = map[string]bool{
	"exact":          true,
	"iexact":         true,
	"contains":       true,
	"icontains":      true,
	"startswith":     true,
	"istartswith":    true,
	"endswith":       true,
	"iendswith":      true,
	"in":             true,
	"gt":             true,
	"gte":            true,
	"lt":             true,
	"lte":            true,
	"range":          true,
	"isnull":         true,
	"regex":          true,
	"iregex":         true,
	"array_contains": true,
	"contained_by":   true,
	"overlap":        true,
	"has_key":        true,
	"has_keys":       true,
	"has_any_keys":   true,
	"fully_lt":       true,
	"fully_gt":       true,
	"search":         true,
}

// Transform wraps a column in SQL. Templates use a {column} marker; Backends
// overrides Template per backend.
type Transform struct {
	Name     string
	Template string
	Backends map[sqlgen.Backend]string
}

// Apply wraps columnSQL with the template for backend b.
func (t Transform) Apply(columnSQL string, b sqlgen.Backend) string {
	tmpl := t.Template
	if override, ok := t.Backends[b]; ok {
		tmpl = override
	}
	return strings.ReplaceAll(tmpl, "{column}", columnSQL)
}

// CustomLookup is a lookup rendered from a template with {column} and {value} markers.
type CustomLookup struct {
	Name        string
	SQLTemplate string
}

// Compile substitutes the rendered column and value placeholder into the template.
func (l CustomLookup) Compile(columnSQL, valueSQL string) string {
	return sqlgen.ExpandTemplate(l.SQLTemplate, columnSQL, func() string { return valueSQL })
}

// Registry holds the transforms and custom lookups known to the ORM layer.
//
// Reads are safe from concurrent compilations. Ordering registrations
// against in-flight compilations is the caller's concern.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]Transform
	lookups    map[string]CustomLookup
}

// New creates an empty registry. Builtin lookups are still recognised.
func New() *Registry {
	return &Registry{
		transforms: make(map[string]Transform),
		lookups:    make(map[string]CustomLookup),
	}
}

// HasLookup reports whether name is a builtin or registered lookup.
func (r *Registry) HasLookup(name string) bool {
	if builtinLookups[name] {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lookups[name]
	return ok
}

// HasTransform reports whether name is a registered transform.
func (r *Registry) HasTransform(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.transforms[name]
	return ok
}

// RegisterLookup registers (or replaces) a custom lookup under name.
func (r *Registry) RegisterLookup(name string, def CustomLookup) {
	def.Name = name
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups[name] = def
}

// RegisterTransform registers (or replaces) a transform under name.
func (r *Registry) RegisterTransform(name string, def Transform) {
	def.Name = name
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[name] = def
}

// UnregisterLookup removes a custom lookup and returns it. Builtin lookups
// cannot be removed.
func (r *Registry) UnregisterLookup(name string) (CustomLookup, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.lookups[name]
	if ok {
		delete(r.lookups, name)
	}
	return def, ok
}

// UnregisterTransform removes a transform and returns it.
func (r *Registry) UnregisterTransform(name string) (Transform, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	def, ok := r.transforms[name]
	if ok {
		delete(r.transforms, name)
	}
	return def, ok
}

// CustomLookup returns the registered custom lookup called name.
func (r *Registry) CustomLookup(name string) (CustomLookup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.lookups[name]
	return def, ok
}

// Transform returns the transform called name.
func (r *Registry) Transform(name string) (Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.transforms[name]
	return def, ok
}

// Lookups returns every known lookup name, sorted.
func (r *Registry) Lookups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(builtinLookups)+len(r.lookups))
	for name := range builtinLookups {
		names = append(names, name)
	}
	for name := range r.lookups {
		if !builtinLookups[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Transforms returns every registered transform, sorted by name.
func (r *Registry) Transforms() []Transform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Transform, 0, len(r.transforms))
	for _, t := range r.transforms {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolveChain splits the segments following a field name into transforms
// and a lookup name.
//
// All but the last segment are tried as transforms in order. The last
// segment is the lookup unless it names a transform, in which case it is
// applied too and ok is false (the caller defaults the lookup). A last
// segment that is neither is still returned as the lookup name so callers
// can report it.
func (r *Registry) ResolveChain(segments []string) (transforms []Transform, lookup string, ok bool) {
	if len(segments) == 0 {
		return nil, "", false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, seg := range segments[:len(segments)-1] {
		t, found := r.transforms[seg]
		if !found {
			debug.Debug("dropping unknown transform segment", "segment", seg)
			continue
		}
		transforms = append(transforms, t)
	}

	last := segments[len(segments)-1]
	if _, custom := r.lookups[last]; builtinLookups[last] || custom {
		return transforms, last, true
	}
	if t, found := r.transforms[last]; found {
		return append(transforms, t), "", false
	}
	return transforms, last, true
}

// ResolveFieldPath resolves "field__transform__lookup" into the base field,
// the rendered column SQL with transforms applied (outermost last) and the
// lookup name, which defaults to "exact".
func (r *Registry) ResolveFieldPath(path string, b sqlgen.Backend) (base, columnSQL, lookup string) {
	segments := strings.Split(path, PathSeparator)
	base = segments[0]
	columnSQL = sqlgen.QuoteRef(base)

	transforms, lookup, ok := r.ResolveChain(segments[1:])
	for _, t := range transforms {
		columnSQL = t.Apply(columnSQL, b)
	}
	if !ok {
		lookup = DefaultLookup
	}
	return base, columnSQL, lookup
}
