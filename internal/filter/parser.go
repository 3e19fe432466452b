package filter

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ivoronin/prodfilter/internal/catalog"
)

// Expr is a parsed single-property filter expression: <property> <operator> [value].
type Expr struct {
	Property string // property name or numeric id
	Operator string // canonical operator id
	Value    string // raw value text, possibly empty
}

// AST types for Participle grammar

// exprAST is the root of the grammar: property, operator, then value words.
type exprAST struct {
	Property string   `parser:"@(String | Word)"`
	Operator string   `parser:"@(Symbol | Word)"`
	Value    []string `parser:"@(String | Word | Symbol)*"`
}

// Build the lexer
// Word stops at symbols so "price>3" lexes as three tokens.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Symbol", Pattern: `>|<|=|~`},
	{Name: "Word", Pattern: `[^\s"<>=~]+`},
})

// Build the parser
var exprParser = participle.MustBuild[exprAST](
	participle.Lexer(exprLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
)

// operatorAliases maps symbolic and word spellings to operator ids.
var operatorAliases = map[string]string{
	"=":  catalog.OpEquals,
	">":  catalog.OpGreaterThan,
	"<":  catalog.OpLessThan,
	"~":  catalog.OpContains,
	"eq": catalog.OpEquals,
	"gt": catalog.OpGreaterThan,
	"lt": catalog.OpLessThan,
}

// knownOperators lists operator ids accepted verbatim.
var knownOperators = map[string]bool{
	catalog.OpEquals:      true,
	catalog.OpGreaterThan: true,
	catalog.OpLessThan:    true,
	catalog.OpContains:    true,
	catalog.OpIn:          true,
	catalog.OpAny:         true,
	catalog.OpNone:        true,
}

// ParseExpr parses an expression like `category in tools,kitchenware`,
// `"weight (oz)" > 3` or `color contains bla`. Unquoted value words are
// joined by single spaces; quote the value to keep it verbatim.
func ParseExpr(expr string) (*Expr, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	ast, err := exprParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}

	op, err := canonicalOperator(ast.Operator)
	if err != nil {
		return nil, err
	}

	return &Expr{
		Property: ast.Property,
		Operator: op,
		Value:    strings.Join(ast.Value, " "),
	}, nil
}

// canonicalOperator converts an operator spelling to its id.
func canonicalOperator(s string) (string, error) {
	id := strings.ToLower(s)
	if alias, ok := operatorAliases[id]; ok {
		return alias, nil
	}
	if knownOperators[id] {
		return id, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}
