// Package calc is a small calculator language built on the lexer and parser
// packages. Statements are arithmetic expressions and labelled functions:
//
//	1 + 2 * 3
//	main: func {
//	  4 / 2
//	}
package calc

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shibukawa/snapparse/parser"
	"github.com/shibukawa/snapparse/tokenizer"
)

// ErrDivisionByZero is returned by the expression reducer.
var ErrDivisionByZero = errors.New("division by zero")

// Rules is the lexical table in match order.
var Rules = []tokenizer.RuleDef{
	{Name: "COL", Pattern: `[:]`},
	{Name: "DIV", Pattern: `[/]`},
	{Name: "FUNC", Pattern: `func`},
	{Name: "ID", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "LCBR", Pattern: `[{]`},
	{Name: "LPAR", Pattern: `[(]`},
	{Name: "MINUS", Pattern: `[-]`},
	{Name: "MULT", Pattern: `[*]`},
	{Name: "NL", Pattern: `[\r\n]+`},
	{Name: "NUM", Pattern: `\d+(\.\d+)?`},
	{Name: "PLUS", Pattern: `[+]`},
	{Name: "RCBR", Pattern: `[}]`},
	{Name: "RPAR", Pattern: `[)]`},
}

// Ignore is skipped between tokens.
const Ignore = `[ \t]+`

// Patterns is the ordered pattern table.
var Patterns = []parser.PatternDef[*Node]{
	{Name: "expr", Elems: "NUM PLUS expr", Reduce: reduceOp},
	{Name: "expr", Elems: "NUM MINUS expr", Reduce: reduceOp},
	{Name: "expr", Elems: "NUM MULT expr", Reduce: reduceOp},
	{Name: "expr", Elems: "NUM DIV expr", Reduce: reduceOp},
	{Name: "expr", Elems: "NUM", Reduce: reduceNum},
	{Name: "func", Elems: "FUNC opt_nl LCBR opt_nl stmts opt_nl RCBR", Reduce: reduceFunc},
	{Name: "func_proto", Elems: "FUNC", Reduce: reduceFuncProto},
	{Name: "item", Elems: "func", Reduce: first},
	{Name: "item", Elems: "func_proto", Reduce: first},
	{Name: "label", Elems: "opt_nl ID COL item opt_nl", Reduce: reduceLabel},
	{Name: "opt_nl", Elems: "NL", Reduce: reduceNewLine(true)},
	{Name: "opt_nl", Elems: "", Reduce: reduceNewLine(false)},
	{Name: "program", Elems: "stmts", Reduce: reduceProgram},
	{Name: "program", Elems: "", Reduce: reduceProgram},
	{Name: "stmt", Elems: "expr", Reduce: first},
	{Name: "stmt", Elems: "label", Reduce: first},
	{Name: "stmts", Elems: "stmt NL stmts", Reduce: reduceStmts},
	{Name: "stmts", Elems: "stmt stmts", Reduce: reduceStmts},
	{Name: "stmts", Elems: "stmt", Reduce: reduceStmts},
	{Name: "stmts", Elems: "", Reduce: reduceStmts},
}

// NewLexer builds the calculator lexer.
func NewLexer() (*tokenizer.Lexer, error) {
	b := tokenizer.NewBuilder()

	if err := b.AddRules(Rules); err != nil {
		return nil, err
	}

	if err := b.IgnoreRule(Ignore); err != nil {
		return nil, err
	}

	return b.Build(), nil
}

// NewParser builds the calculator parser.
func NewParser(opts ...parser.Option) (*parser.Parser[*Node], error) {
	terminals := make([]string, len(Rules))
	for i, rule := range Rules {
		terminals[i] = rule.Name
	}

	return parser.NewBuilder[*Node](terminals...).
		AddPatterns(Patterns).
		Options(opts...).
		Build()
}

// Parse tokenizes and parses input. source names the input in positions.
func Parse(source, input string, opts ...parser.Option) (*Program, error) {
	lexer, err := NewLexer()
	if err != nil {
		return nil, err
	}

	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}

	root, err := p.ParseStream(lexer.LexNamed(source, input))
	if err != nil {
		return nil, err
	}

	return root.Syntax.(*Program), nil
}

func syntaxNode(s Syntax) *Node {
	return &Node{Syntax: s}
}

func first(children []*Node) (*Node, error) {
	return children[0], nil
}

func number(n *Node) (decimal.Decimal, tokenizer.Token, error) {
	tok, _ := n.Token()

	value, err := decimal.NewFromString(tok.Symbol)
	if err != nil {
		return decimal.Decimal{}, tok, fmt.Errorf("invalid number '%s': %w", tok.Symbol, err)
	}

	return value, tok, nil
}

func reduceNum(children []*Node) (*Node, error) {
	value, tok, err := number(children[0])
	if err != nil {
		return nil, err
	}

	return syntaxNode(&Expr{Value: value, Pos: tok.Location.At}), nil
}

func reduceOp(children []*Node) (*Node, error) {
	lhs, tok, err := number(children[0])
	if err != nil {
		return nil, err
	}

	op, _ := children[1].Token()
	rhs := children[2].Syntax.(*Expr).Value

	var value decimal.Decimal

	switch op.Name {
	case "PLUS":
		value = lhs.Add(rhs)
	case "MINUS":
		value = lhs.Sub(rhs)
	case "MULT":
		value = lhs.Mul(rhs)
	case "DIV":
		if rhs.IsZero() {
			return nil, fmt.Errorf("%w at %s", ErrDivisionByZero, op.Location)
		}

		value = lhs.Div(rhs)
	}

	return syntaxNode(&Expr{Value: value, Pos: tok.Location.At}), nil
}

func reduceFunc(children []*Node) (*Node, error) {
	return syntaxNode(&Func{Body: children[4].Syntax.(*Stmts)}), nil
}

func reduceFuncProto([]*Node) (*Node, error) {
	return syntaxNode(&FuncProto{}), nil
}

func reduceLabel(children []*Node) (*Node, error) {
	id, _ := children[1].Token()

	return syntaxNode(&Label{
		ID:   id.Symbol,
		Pos:  id.Location.At,
		Item: children[3].Syntax.(Item),
	}), nil
}

func reduceNewLine(present bool) parser.Reducer[*Node] {
	return func([]*Node) (*Node, error) {
		return syntaxNode(&OptNewLine{Present: present}), nil
	}
}

func reduceProgram(children []*Node) (*Node, error) {
	program := &Program{}
	if len(children) > 0 {
		program.Stmts = children[0].Syntax.(*Stmts)
	}

	return syntaxNode(program), nil
}

// reduceStmts flattens the right recursive statement list.
func reduceStmts(children []*Node) (*Node, error) {
	stmts := &Stmts{}

	for _, child := range children {
		switch s := child.Syntax.(type) {
		case Stmt:
			stmts.List = append(stmts.List, s)
		case *Stmts:
			stmts.List = append(stmts.List, s.List...)
		}
	}

	return syntaxNode(stmts), nil
}
