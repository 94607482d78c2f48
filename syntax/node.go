package syntax

import (
	"strings"

	"github.com/shibukawa/snapparse/tokenizer"
)

// Node is a grammar-agnostic AST node. A leaf wraps a token in Tok and its Kind is
// the token name; an inner node carries the nonterminal name as Kind.
// Value holds whatever a reducer computed and may be nil.
type Node struct {
	Kind     string
	Tok      *tokenizer.Token
	Children []*Node
	Value    any
}

// New creates an inner node.
func New(kind string, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Leaf creates a node wrapping tok.
func Leaf(tok tokenizer.Token) *Node {
	return &Node{Kind: tok.Name, Tok: &tok}
}

// WrapToken implements parser.Node. It does not touch its receiver.
func (n *Node) WrapToken(tok tokenizer.Token) *Node {
	return Leaf(tok)
}

// Token implements parser.Node.
func (n *Node) Token() (tokenizer.Token, bool) {
	if n == nil || n.Tok == nil {
		return tokenizer.Token{}, false
	}

	return *n.Tok, true
}

// IsLeaf reports whether the node wraps a token.
func (n *Node) IsLeaf() bool {
	return n != nil && n.Tok != nil
}

// Leaves returns the tokens under n in source order.
func (n *Node) Leaves() []tokenizer.Token {
	var tokens []tokenizer.Token

	n.Walk(func(node *Node, _ int) bool {
		if node.IsLeaf() {
			tokens = append(tokens, *node.Tok)
		}

		return true
	})

	return tokens
}

// Text joins the symbols of all leaves with a single space.
func (n *Node) Text() string {
	leaves := n.Leaves()

	symbols := make([]string, len(leaves))
	for i, tok := range leaves {
		symbols[i] = tok.Symbol
	}

	return strings.Join(symbols, " ")
}

// Span returns the location from the first to the last leaf. It reports
// false for a node without leaves, such as an epsilon reduction.
func (n *Node) Span() (tokenizer.Location, bool) {
	leaves := n.Leaves()
	if len(leaves) == 0 {
		return tokenizer.Location{}, false
	}

	first, last := leaves[0].Location, leaves[len(leaves)-1].Location

	return tokenizer.Location{
		Source: first.Source,
		Start:  first.Start,
		At:     first.At,
		End:    last.End,
	}, true
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}

	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}
