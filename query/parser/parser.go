// Package parser parses the textual filter language into WHERE trees.
//
// A filter is a boolean combination of field path comparisons:
//
//	name__icontains = "al" AND NOT (age < 18 OR status IN ["x"])
//
// "=" keeps the path's own lookup ("exact" by default); the other operators
// append gt, gte, lt or lte, and "!=" negates an exact match. Paths are
// resolved through a lookup registry.
package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/satishbabariya/querycompiler/query/ast"
	"github.com/satishbabariya/querycompiler/query/lookup"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
	"github.com/satishbabariya/querycompiler/query/value"
)

// Filter is the raw parse tree of a filter expression.
type Filter struct {
	Pos lexer.Position
	Or  []*AndExpr `@@ ( "OR" @@ )*`
}

// AndExpr is a conjunction of unary terms.
type AndExpr struct {
	And []*Unary `@@ ( "AND" @@ )*`
}

// Unary is a negation, a parenthesised group or a comparison.
type Unary struct {
	Not        *Unary      `  "NOT" @@`
	Group      *Filter     `| "(" @@ ")"`
	Comparison *Comparison `| @@`
}

// Comparison compares a field path with a literal.
type Comparison struct {
	Pos   lexer.Position
	Path  string   `@Ident`
	Op    string   `@( Operator | "IN" )`
	Value *Literal `@@`
}

// Literal is a scalar or list value.
type Literal struct {
	String *string `  @String`
	Number *string `| @Number`
	Bool   *string `| @("TRUE" | "FALSE")`
	Null   bool    `| @"NULL"`
	List   *List   `| @@`
}

// List is a bracketed list of literals.
type List struct {
	Open  string     `@"["`
	Items []*Literal `( @@ ( "," @@ )* )? "]"`
}

var filterParser = participle.MustBuild[Filter](
	participle.Lexer(FilterLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.CaseInsensitive("Keyword"),
	participle.UseLookahead(2),
)

// Parser turns filter text into WHERE trees for one backend.
type Parser struct {
	registry *lookup.Registry
	backend  sqlgen.Backend
}

// Option configures a Parser.
type Option func(*Parser)

// WithRegistry resolves field paths against r instead of the default registry.
func WithRegistry(r *lookup.Registry) Option {
	return func(p *Parser) { p.registry = r }
}

// New creates a parser for backend b.
func New(b sqlgen.Backend, opts ...Option) *Parser {
	p := &Parser{registry: lookup.Default(), backend: b}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a filter from r.
func (p *Parser) Parse(filename string, r io.Reader) (ast.WhereNode, error) {
	raw, err := filterParser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}
	return p.convert(raw)
}

// ParseString parses a filter from a string.
func (p *Parser) ParseString(input string) (ast.WhereNode, error) {
	return p.Parse("", strings.NewReader(input))
}

func (p *Parser) convert(f *Filter) (ast.WhereNode, error) {
	nodes := make([]ast.WhereNode, 0, len(f.Or))
	for _, and := range f.Or {
		node, err := p.convertAnd(and)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return ast.Or(nodes), nil
}

func (p *Parser) convertAnd(a *AndExpr) (ast.WhereNode, error) {
	nodes := make([]ast.WhereNode, 0, len(a.And))
	for _, u := range a.And {
		node, err := p.convertUnary(u)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return ast.And(nodes), nil
}

func (p *Parser) convertUnary(u *Unary) (ast.WhereNode, error) {
	switch {
	case u.Not != nil:
		node, err := p.convertUnary(u.Not)
		if err != nil {
			return nil, err
		}
		return ast.Negate(node), nil
	case u.Group != nil:
		return p.convert(u.Group)
	default:
		return p.convertComparison(u.Comparison)
	}
}

var operatorLookups = map[string]string{
	">":  "gt",
	">=": "gte",
	"<":  "lt",
	"<=": "lte",
}

func (p *Parser) convertComparison(c *Comparison) (ast.WhereNode, error) {
	v, err := c.Value.value()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Pos, err)
	}

	path := c.Path
	switch {
	case strings.EqualFold(c.Op, "IN"):
		path += lookup.PathSeparator + "in"
	case c.Op == "!=" || c.Op == "=":
	default:
		path += lookup.PathSeparator + operatorLookups[c.Op]
	}

	cond, err := p.registry.Condition(path, v, p.backend)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Pos, err)
	}
	if c.Op == "!=" {
		return ast.Negate(cond), nil
	}
	return cond, nil
}

func (l *Literal) value() (value.Value, error) {
	switch {
	case l.String != nil:
		return value.String(*l.String), nil
	case l.Number != nil:
		if !strings.Contains(*l.Number, ".") {
			n, err := strconv.ParseInt(*l.Number, 10, 64)
			if err != nil {
				return nil, err
			}
			return value.Int(n), nil
		}
		f, err := strconv.ParseFloat(*l.Number, 64)
		if err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case l.Bool != nil:
		return value.Bool(strings.EqualFold(*l.Bool, "true")), nil
	case l.Null:
		return value.Null{}, nil
	case l.List != nil:
		list := make(value.List, 0, len(l.List.Items))
		for _, item := range l.List.Items {
			v, err := item.value()
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	}
	return nil, fmt.Errorf("empty literal")
}
