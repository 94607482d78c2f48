package calc

import (
	"github.com/shopspring/decimal"

	"github.com/shibukawa/snapparse/tokenizer"
)

// Node is the value flowing through the parser: either a raw token or one of
// the syntax types below.
type Node struct {
	tok    *tokenizer.Token
	Syntax Syntax
}

// WrapToken implements parser.Node.
func (n *Node) WrapToken(tok tokenizer.Token) *Node {
	return &Node{tok: &tok}
}

// Token implements parser.Node.
func (n *Node) Token() (tokenizer.Token, bool) {
	if n == nil || n.tok == nil {
		return tokenizer.Token{}, false
	}

	return *n.tok, true
}

// Syntax is implemented by every reduced construct.
type Syntax interface {
	syntax()
}

// Program is the whole input. Stmts is nil for an empty input.
type Program struct {
	Stmts *Stmts
}

// Stmts is a statement sequence.
type Stmts struct {
	List []Stmt
}

// Stmt is either *Expr or *Label.
type Stmt interface {
	Syntax
	stmt()
}

// Expr is an arithmetic expression folded to its value. Operators associate
// to the right: 8 - 2 - 1 is 8 - (2 - 1).
type Expr struct {
	Value decimal.Decimal
	Pos   tokenizer.Position
}

// Label names an item: "main: func { ... }".
type Label struct {
	ID   string
	Pos  tokenizer.Position
	Item Item
}

// Item is either *Func or *FuncProto.
type Item interface {
	Syntax
	item()
}

// Func is a function with a body.
type Func struct {
	Body *Stmts
}

// FuncProto is a bare "func" declaration.
type FuncProto struct{}

// OptNewLine records whether an optional line break was present.
type OptNewLine struct {
	Present bool
}

func (*Program) syntax()    {}
func (*Stmts) syntax()      {}
func (*Expr) syntax()       {}
func (*Label) syntax()      {}
func (*Func) syntax()       {}
func (*FuncProto) syntax()  {}
func (*OptNewLine) syntax() {}

func (*Expr) stmt()  {}
func (*Label) stmt() {}

func (*Func) item()      {}
func (*FuncProto) item() {}

// Values returns the values of the top level expression statements.
func (p *Program) Values() []decimal.Decimal {
	if p == nil || p.Stmts == nil {
		return nil
	}

	var values []decimal.Decimal

	for _, s := range p.Stmts.List {
		if e, ok := s.(*Expr); ok {
			values = append(values, e.Value)
		}
	}

	return values
}
