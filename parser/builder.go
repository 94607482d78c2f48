package parser

import (
	"fmt"
)

// PatternDef describes one alternative for Builder.AddPatterns.
// Elems is a space separated symbol list; an empty string is epsilon.
type PatternDef[N Node[N]] struct {
	Name   string
	Elems  string
	Reduce Reducer[N]
}

// Builder collects terminals and patterns and checks them before building
// a Parser.
type Builder[N Node[N]] struct {
	terminals []string
	patterns  []Pattern[N]
	options   []Option
}

// NewBuilder creates a Builder for the given token classes.
func NewBuilder[N Node[N]](terminals ...string) *Builder[N] {
	return &Builder[N]{terminals: append([]string(nil), terminals...)}
}

// Terminals adds token classes.
func (b *Builder[N]) Terminals(names ...string) *Builder[N] {
	b.terminals = append(b.terminals, names...)
	return b
}

// Add appends an alternative for name.
func (b *Builder[N]) Add(name, elems string, reduce Reducer[N]) *Builder[N] {
	b.patterns = append(b.patterns, NewPattern(name, Elems(elems), reduce))
	return b
}

// AddPatterns appends alternatives in order.
func (b *Builder[N]) AddPatterns(defs []PatternDef[N]) *Builder[N] {
	for _, def := range defs {
		b.Add(def.Name, def.Elems, def.Reduce)
	}

	return b
}

// Options sets parser options for Build.
func (b *Builder[N]) Options(opts ...Option) *Builder[N] {
	b.options = append(b.options, opts...)
	return b
}

// Build checks the grammar and creates the Parser. A nonterminal that is also
// a terminal fails with ErrNameCollision, a pattern without a reducer with
// ErrMissingReducer, and an unresolvable element with ErrUnknownElem.
func (b *Builder[N]) Build() (*Parser[N], error) {
	terminals := make(map[string]struct{}, len(b.terminals))
	for _, name := range b.terminals {
		terminals[name] = struct{}{}
	}

	for _, pattern := range b.patterns {
		if pattern.Name == "" {
			return nil, fmt.Errorf("%w: empty nonterminal name", ErrInvalidPatternName)
		}

		if _, ok := terminals[pattern.Name]; ok {
			return nil, fmt.Errorf("%w: '%s' is both a terminal and a nonterminal", ErrNameCollision, pattern.Name)
		}

		if pattern.Reduce == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingReducer, pattern)
		}
	}

	p := New(b.terminals, b.patterns, b.options...)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
