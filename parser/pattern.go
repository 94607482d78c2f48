package parser

import (
	"slices"
	"strings"

	"github.com/shibukawa/snapparse/tokenizer"
)

// Node is the capability a caller's AST type needs to flow through the
// parser: wrapping a raw token, and recovering it again.
//
// WrapToken is called on the zero value of N, so for pointer types it must
// not dereference its receiver.
type Node[N any] interface {
	WrapToken(tok tokenizer.Token) N
	Token() (tokenizer.Token, bool)
}

// Reducer folds the matched children of a pattern into one node.
type Reducer[N any] func(children []N) (N, error)

// Pattern is one alternative of a nonterminal. An empty Elems list is an
// epsilon production and always matches without consuming tokens.
type Pattern[N any] struct {
	Name   string
	Elems  []string
	Reduce Reducer[N]
}

// NewPattern creates a Pattern. elems is copied.
func NewPattern[N any](name string, elems []string, reduce Reducer[N]) Pattern[N] {
	return Pattern[N]{
		Name:   name,
		Elems:  slices.Clone(elems),
		Reduce: reduce,
	}
}

// Elems splits a space separated symbol sequence. An empty string yields an
// empty sequence.
func Elems(symbols string) []string {
	return strings.Fields(symbols)
}

// Equal reports whether both patterns have the same name and elements.
// Reducers are not compared.
func (p Pattern[N]) Equal(other Pattern[N]) bool {
	return p.Name == other.Name && slices.Equal(p.Elems, other.Elems)
}

// IsEpsilon reports whether the pattern has no elements.
func (p Pattern[N]) IsEpsilon() bool {
	return len(p.Elems) == 0
}

// String returns "name := elem elem" with ε for an empty pattern.
func (p Pattern[N]) String() string {
	if p.IsEpsilon() {
		return p.Name + " := ε"
	}

	return p.Name + " := " + strings.Join(p.Elems, " ")
}
