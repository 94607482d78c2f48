package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/snapparse/tokenizer"
)

// Parser resolves nonterminals against a token slice by ordered choice.
// Alternatives of a nonterminal are tried in declaration order and the first
// one that matches is final: a child that matched is never re-derived with a
// different span. There is no memoization.
//
// A Parser is immutable after construction and safe for concurrent use.
type Parser[N Node[N]] struct {
	terminals map[string]struct{}
	patterns  []Pattern[N]
	byName    map[string][]int
	options   Options
}

// New creates a Parser. Structurally equal patterns are collapsed to the
// first occurrence; the order of the remaining ones is kept.
func New[N Node[N]](terminals []string, patterns []Pattern[N], opts ...Option) *Parser[N] {
	p := &Parser[N]{
		terminals: make(map[string]struct{}, len(terminals)),
		byName:    make(map[string][]int),
	}

	for _, opt := range opts {
		opt(&p.options)
	}

	for _, name := range terminals {
		p.terminals[name] = struct{}{}
	}

	for _, pattern := range patterns {
		if p.contains(pattern) {
			continue
		}

		p.byName[pattern.Name] = append(p.byName[pattern.Name], len(p.patterns))
		p.patterns = append(p.patterns, NewPattern(pattern.Name, pattern.Elems, pattern.Reduce))
	}

	return p
}

func (p *Parser[N]) contains(pattern Pattern[N]) bool {
	for _, i := range p.byName[pattern.Name] {
		if p.patterns[i].Equal(pattern) {
			return true
		}
	}

	return false
}

// Patterns returns the deduplicated pattern table.
func (p *Parser[N]) Patterns() []Pattern[N] {
	return append([]Pattern[N](nil), p.patterns...)
}

// IsTerminal reports whether name is a token class.
func (p *Parser[N]) IsTerminal(name string) bool {
	_, ok := p.terminals[name]
	return ok
}

// IsNonterminal reports whether at least one pattern is named name.
func (p *Parser[N]) IsNonterminal(name string) bool {
	_, ok := p.byName[name]
	return ok
}

// Validate reports every pattern element that is neither a terminal nor a
// nonterminal. Resolution would fail on them with UnknownElemError.
func (p *Parser[N]) Validate() error {
	var errs []error

	for _, pattern := range p.patterns {
		for _, elem := range pattern.Elems {
			if !p.IsTerminal(elem) && !p.IsNonterminal(elem) {
				errs = append(errs, UnknownElemError{Elem: elem, Pattern: pattern.String()})
			}
		}
	}

	return errors.Join(errs...)
}

// Parse resolves Start against all tokens.
func (p *Parser[N]) Parse(tokens []tokenizer.Token) (N, error) {
	return p.ParseAs(Start, tokens)
}

// ParseAs resolves start against all tokens. It fails with
// TokenRemainingError when only a proper prefix matches.
func (p *Parser[N]) ParseAs(start string, tokens []tokenizer.Token) (N, error) {
	var zero N

	node, consumed, err := p.Resolve(tokens, start)
	if err != nil {
		return zero, err
	}

	if consumed < len(tokens) {
		return zero, TokenRemainingError{Consumed: consumed, Total: len(tokens), Next: tokens[consumed]}
	}

	return node, nil
}

// ParseStream reads the whole stream, failing on the first lexical error,
// and parses the tokens.
func (p *Parser[N]) ParseStream(stream *tokenizer.Stream) (N, error) {
	var zero N

	tokens, err := stream.Collect()
	if err != nil {
		return zero, err
	}

	return p.Parse(tokens)
}

// Resolve matches the nonterminal name at the start of tokens and returns the
// reduced node with the number of tokens consumed.
func (p *Parser[N]) Resolve(tokens []tokenizer.Token, name string) (N, int, error) {
	return p.resolve(tokens, name, 0)
}

func (p *Parser[N]) resolve(tokens []tokenizer.Token, name string, depth int) (N, int, error) {
	var zero N

	candidates, ok := p.byName[name]
	if !ok {
		return zero, 0, InvalidPatternNameError{Name: name}
	}

	if p.options.MaxDepth > 0 && depth >= p.options.MaxDepth {
		return zero, 0, fmt.Errorf("%w: %d while resolving '%s'", ErrMaxDepth, p.options.MaxDepth, name)
	}

	var furthest *NotMatchingError

	for _, i := range candidates {
		pattern := p.patterns[i]
		p.tracef(depth, "try %s", pattern)

		node, consumed, err := p.matchPattern(tokens, pattern, depth)
		if err == nil {
			p.tracef(depth, "match %s consumed %d", pattern, consumed)
			return node, consumed, nil
		}

		var soft NotMatchingError
		if !errors.As(err, &soft) {
			return zero, 0, err
		}

		p.tracef(depth, "reject %s: %v", pattern, err)

		if furthest == nil || soft.Pos.Offset > furthest.Pos.Offset {
			furthest = &soft
		}
	}

	result := NotMatchingError{Name: name}
	if furthest != nil {
		result.Expected = furthest.Expected
		result.Pos = furthest.Pos
		result.Found = furthest.Found
	}

	return zero, 0, result
}

func (p *Parser[N]) matchPattern(tokens []tokenizer.Token, pattern Pattern[N], depth int) (N, int, error) {
	var zero N

	cursor := 0
	children := make([]N, 0, len(pattern.Elems))

	for _, elem := range pattern.Elems {
		switch {
		case p.IsTerminal(elem):
			if cursor >= len(tokens) || tokens[cursor].Name != elem {
				return zero, 0, p.notMatching(pattern.Name, elem, tokens, cursor)
			}

			children = append(children, zero.WrapToken(tokens[cursor]))
			cursor++

		case p.IsNonterminal(elem):
			child, consumed, err := p.resolve(tokens[cursor:], elem, depth+1)
			if err != nil {
				var soft NotMatchingError
				if !errors.As(err, &soft) {
					return zero, 0, err
				}

				if soft.Pos.IsZero() {
					soft.Pos = positionAt(tokens, cursor)
				}

				soft.Name = pattern.Name

				return zero, 0, soft
			}

			children = append(children, child)
			cursor += consumed

		default:
			return zero, 0, UnknownElemError{Elem: elem, Pattern: pattern.String()}
		}
	}

	if pattern.Reduce == nil {
		return zero, 0, PatternFuncError{Pattern: pattern.String(), Pos: positionAt(tokens, 0), Err: ErrMissingReducer}
	}

	node, err := pattern.Reduce(children)
	if err != nil {
		return zero, 0, PatternFuncError{Pattern: pattern.String(), Pos: positionAt(tokens, 0), Err: err}
	}

	return node, cursor, nil
}

func (p *Parser[N]) notMatching(name, expected string, tokens []tokenizer.Token, cursor int) NotMatchingError {
	err := NotMatchingError{Name: name, Expected: expected, Pos: positionAt(tokens, cursor)}
	if cursor < len(tokens) {
		found := tokens[cursor]
		err.Found = &found
	}

	return err
}

// positionAt returns where tokens[cursor] begins, or the end of the last
// token when cursor is past the end. It is zero for an empty slice.
func positionAt(tokens []tokenizer.Token, cursor int) tokenizer.Position {
	if cursor < len(tokens) {
		return tokens[cursor].Location.At
	}

	if len(tokens) > 0 {
		return tokens[len(tokens)-1].Location.End
	}

	return tokenizer.Position{}
}

func (p *Parser[N]) tracef(depth int, format string, args ...any) {
	if p.options.Trace == nil {
		return
	}

	p.options.Trace(strings.Repeat("  ", depth)+format, args...)
}
