package tokenizer

import (
	"errors"
	"io"
	"iter"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// Lexer turns text into tokens using ordered token rules and ignore rules.
// The first token rule that matches wins, so declaration order is priority.
// A Lexer is immutable and may be shared; each Stream it creates is not.
type Lexer struct {
	rules       []Rule
	ignoreRules []Rule
}

// NewLexer creates a Lexer. The rule slices are copied.
func NewLexer(rules []Rule, ignoreRules []Rule) *Lexer {
	return &Lexer{
		rules:       append([]Rule(nil), rules...),
		ignoreRules: append([]Rule(nil), ignoreRules...),
	}
}

// Rules returns the token rules in declaration order.
func (l *Lexer) Rules() []Rule {
	return append([]Rule(nil), l.rules...)
}

// IgnoreRules returns the ignore rules in declaration order.
func (l *Lexer) IgnoreRules() []Rule {
	return append([]Rule(nil), l.ignoreRules...)
}

// Terminals returns the distinct token rule names in declaration order.
func (l *Lexer) Terminals() []string {
	seen := make(map[string]struct{}, len(l.rules))
	names := make([]string, 0, len(l.rules))

	for _, r := range l.rules {
		if _, ok := seen[r.name]; ok {
			continue
		}

		seen[r.name] = struct{}{}
		names = append(names, r.name)
	}

	return names
}

// Lex returns a stream over an anonymous input.
func (l *Lexer) Lex(input string) *Stream {
	return l.LexNamed("", input)
}

// LexNamed returns a stream whose token locations carry source.
func (l *Lexer) LexNamed(source, input string) *Stream {
	return &Stream{
		lexer:  l,
		source: source,
		input:  input,
		pos:    StartPosition(),
	}
}

// Tokenize runs the lexer to completion and stops at the first error.
// Tokens read before the error are returned with it.
func (l *Lexer) Tokenize(source, input string) ([]Token, error) {
	return l.LexNamed(source, input).Collect()
}

// Stream is a lazy, forward-only cursor over one input.
type Stream struct {
	lexer  *Lexer
	source string
	input  string
	pos    Position
	err    error
}

// Position returns the current read position.
func (s *Stream) Position() Position {
	return s.pos
}

// Source returns the source name given to LexNamed.
func (s *Stream) Source() string {
	return s.source
}

// Next returns the next token, io.EOF at the end of input, or an
// InvalidTokenError. After an error every further call returns the same error.
func (s *Stream) Next() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}

	start := s.pos
	s.skip()

	rest := s.input[s.pos.Offset:]
	if rest == "" {
		s.err = io.EOF
		return Token{}, io.EOF
	}

	for _, rule := range s.lexer.rules {
		n, ok := rule.Match(rest)
		if !ok {
			continue
		}

		at := s.pos
		symbol := rest[:n]
		s.pos = s.pos.Advance(symbol)

		return Token{
			Name:   rule.name,
			Symbol: symbol,
			Location: Location{
				Source: s.source,
				Start:  start,
				At:     at,
				End:    s.pos,
			},
		}, nil
	}

	found, _ := utf8.DecodeRuneInString(rest)
	s.err = InvalidTokenError{Source: s.source, Pos: s.pos, Found: found}

	return Token{}, s.err
}

// skip consumes ignorable text. After every match the scan restarts from the
// first ignore rule, and it stops after one full pass without a match.
func (s *Stream) skip() {
	for {
		rest := s.input[s.pos.Offset:]
		if rest == "" {
			return
		}

		matched := false
		for _, rule := range s.lexer.ignoreRules {
			if n, ok := rule.Match(rest); ok {
				s.pos = s.pos.Advance(rest[:n])
				matched = true
				break
			}
		}

		if !matched {
			return
		}
	}
}

// All returns an iterator of tokens. Iteration ends at end of input or after
// yielding the first error.
func (s *Stream) All() TokenIterator {
	return func(yield func(Token, error) bool) {
		for {
			token, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(token, err) || err != nil {
				return
			}
		}
	}
}

// Collect reads the remaining tokens, failing fast on the first error.
func (s *Stream) Collect() ([]Token, error) {
	tokens := make([]Token, 0, 64)

	for token, err := range s.All() {
		if err != nil {
			return tokens, err
		}

		tokens = append(tokens, token)
	}

	return tokens, nil
}
