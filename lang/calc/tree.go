package calc

import (
	"github.com/shibukawa/snapparse/syntax"
)

// Tree converts the program into a generic tree for the syntax encoders.
// Expression values are rendered as decimal strings.
func (p *Program) Tree() *syntax.Node {
	root := syntax.New("program")
	if p.Stmts != nil {
		root.Children = append(root.Children, stmtsTree(p.Stmts))
	}

	return root
}

func stmtsTree(stmts *Stmts) *syntax.Node {
	node := syntax.New("stmts")

	for _, s := range stmts.List {
		switch s := s.(type) {
		case *Expr:
			node.Children = append(node.Children, &syntax.Node{Kind: "expr", Value: s.Value.String()})
		case *Label:
			node.Children = append(node.Children, &syntax.Node{Kind: "label", Value: s.ID, Children: []*syntax.Node{itemTree(s.Item)}})
		}
	}

	return node
}

func itemTree(item Item) *syntax.Node {
	switch item := item.(type) {
	case *Func:
		return syntax.New("func", stmtsTree(item.Body))
	default:
		return syntax.New("func_proto")
	}
}
