package parser

import "github.com/alecthomas/participle/v2/lexer"

// FilterLexer defines the token types of the filter language.
var FilterLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Keywords
	{Name: "Keyword", Pattern: `(?i)\b(AND|OR|NOT|IN|TRUE|FALSE|NULL)\b`},

	// Literals
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `-?\d+(?:\.\d+)?`},

	// Field paths: name, name__lower__exact, author.name__iexact
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*`},

	{Name: "Operator", Pattern: `!=|>=|<=|=|>|<`},
	{Name: "Punct", Pattern: `[\[\](),]`},

	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
})
