package ast

import "github.com/satishbabariya/querycompiler/query/value"

// WhereNode is a boolean filter tree.
//
// Variants: Condition, And, Or, Not. An empty And is always true and an
// empty Or is always false.
type WhereNode interface {
	whereNode()
}

// Condition applies a lookup to a column.
//
// ColumnSQL, when set, is the already-rendered left-hand side (for example a
// transform chain such as LOWER("name")) and is emitted verbatim in place of
// the quoted Column.
type Condition struct {
	Column    string
	ColumnSQL string
	Lookup    Lookup
}

func (Condition) whereNode() {}

// And is a conjunction.
type And []WhereNode

func (And) whereNode() {}

// Or is a disjunction.
type Or []WhereNode

func (Or) whereNode() {}

// Not negates a node.
type Not struct {
	Node WhereNode
}

func (Not) whereNode() {}

// Cond builds a Condition on a bare column.
func Cond(column string, lookup Lookup) Condition {
	return Condition{Column: column, Lookup: lookup}
}

// Eq builds an Exact condition.
func Eq(column string, v value.Value) Condition {
	return Condition{Column: column, Lookup: Exact{Value: v}}
}

// AllOf builds an And node.
func AllOf(nodes ...WhereNode) And { return And(nodes) }

// AnyOf builds an Or node.
func AnyOf(nodes ...WhereNode) Or { return Or(nodes) }

// Negate builds a Not node.
func Negate(node WhereNode) Not { return Not{Node: node} }

// Lookup is a comparison operator applied to a column.
type Lookup interface {
	lookup()
}

// Exact compiles to "col = ?", or "col IS NULL" when Value is Null.
type Exact struct{ Value value.Value }

// IExact is a case-insensitive Exact.
type IExact struct{ Value value.Value }

// Contains matches a substring with LIKE.
type Contains struct{ Value string }

// IContains is a case-insensitive Contains.
type IContains struct{ Value string }

// StartsWith matches a prefix.
type StartsWith struct{ Value string }

// IStartsWith is a case-insensitive StartsWith.
type IStartsWith struct{ Value string }

// EndsWith matches a suffix.
type EndsWith struct{ Value string }

// IEndsWith is a case-insensitive EndsWith.
type IEndsWith struct{ Value string }

// In matches any of Values, one placeholder each.
type In struct{ Values []value.Value }

// Gt is "col > ?".
type Gt struct{ Value value.Value }

// Gte is "col >= ?".
type Gte struct{ Value value.Value }

// Lt is "col < ?".
type Lt struct{ Value value.Value }

// Lte is "col <= ?".
type Lte struct{ Value value.Value }

// Range is "col BETWEEN ? AND ?".
type Range struct{ Low, High value.Value }

// IsNull is "col IS NULL" when true, "col IS NOT NULL" otherwise.
type IsNull struct{ IsNull bool }

// Regex is a case-sensitive regular expression match.
type Regex struct{ Pattern string }

// IRegex is a case-insensitive regular expression match.
type IRegex struct{ Pattern string }

// EqualsColumn compares two columns, typically in a JOIN ON clause.
type EqualsColumn struct{ Column string }

// Custom is a registered lookup rendered from a template with {column} and
// {value} markers.
type Custom struct {
	Name     string
	Template string
	Value    value.Value
}

// ArrayContains is the Postgres "@>" operator.
type ArrayContains struct{ Value value.Value }

// ArrayContainedBy is the Postgres "<@" operator.
type ArrayContainedBy struct{ Value value.Value }

// ArrayOverlap is the Postgres "&&" operator.
type ArrayOverlap struct{ Value value.Value }

// HasKey is the Postgres hstore/jsonb "?" operator.
type HasKey struct{ Key string }

// HasKeys is the Postgres "?&" operator.
type HasKeys struct{ Keys []string }

// HasAnyKeys is the Postgres "?|" operator.
type HasAnyKeys struct{ Keys []string }

// RangeStrictlyLeft is the Postgres range "<<" operator.
type RangeStrictlyLeft struct{ Value value.Value }

// RangeStrictlyRight is the Postgres range ">>" operator.
type RangeStrictlyRight struct{ Value value.Value }

// Search is a Postgres full-text match.
type Search struct{ Query string }

func (Exact) lookup()              {}
func (IExact) lookup()             {}
func (Contains) lookup()           {}
func (IContains) lookup()          {}
func (StartsWith) lookup()         {}
func (IStartsWith) lookup()        {}
func (EndsWith) lookup()           {}
func (IEndsWith) lookup()          {}
func (In) lookup()                 {}
func (Gt) lookup()                 {}
func (Gte) lookup()                {}
func (Lt) lookup()                 {}
func (Lte) lookup()                {}
func (Range) lookup()              {}
func (IsNull) lookup()             {}
func (Regex) lookup()              {}
func (IRegex) lookup()             {}
func (EqualsColumn) lookup()       {}
func (Custom) lookup()             {}
func (ArrayContains) lookup()      {}
func (ArrayContainedBy) lookup()   {}
func (ArrayOverlap) lookup()       {}
func (HasKey) lookup()             {}
func (HasKeys) lookup()            {}
func (HasAnyKeys) lookup()         {}
func (RangeStrictlyLeft) lookup()  {}
func (RangeStrictlyRight) lookup() {}
func (Search) lookup()             {}

// PostgresOnly reports whether l uses an operator only Postgres understands.
func PostgresOnly(l Lookup) bool {
	switch l.(type) {
	case ArrayContains, ArrayContainedBy, ArrayOverlap,
		HasKey, HasKeys, HasAnyKeys,
		RangeStrictlyLeft, RangeStrictlyRight, Search:
		return true
	}
	return false
}
