package parser

import (
	"errors"
	"fmt"

	"github.com/shibukawa/snapparse/tokenizer"
)

// NotMatchingError is the soft failure of one alternative or of every
// alternative of a nonterminal. Pos and Found describe the furthest point the
// failed attempt reached; Found is nil at the end of input.
type NotMatchingError struct {
	Name     string
	Expected string
	Pos      tokenizer.Position
	Found    *tokenizer.Token
}

func (e NotMatchingError) Error() string {
	found := "end of input"
	if e.Found != nil {
		found = fmt.Sprintf("%s %q", e.Found.Name, e.Found.Symbol)
	}

	return fmt.Sprintf("'%s' does not match at %s: expected %s, found %s", e.Name, e.Pos, e.Expected, found)
}

func (e NotMatchingError) Unwrap() error {
	return ErrNotMatching
}

// InvalidPatternNameError reports resolution of an undeclared nonterminal.
type InvalidPatternNameError struct {
	Name string
}

func (e InvalidPatternNameError) Error() string {
	return fmt.Sprintf("invalid pattern name '%s'", e.Name)
}

func (e InvalidPatternNameError) Unwrap() error {
	return ErrInvalidPatternName
}

// UnknownElemError reports a pattern element that is neither a terminal nor
// a nonterminal.
type UnknownElemError struct {
	Elem    string
	Pattern string
}

func (e UnknownElemError) Error() string {
	return fmt.Sprintf("unknown element '%s' in pattern %s", e.Elem, e.Pattern)
}

func (e UnknownElemError) Unwrap() error {
	return ErrUnknownElem
}

// PatternFuncError wraps an error returned by a reducer. Pos is the start of
// the text the pattern matched.
type PatternFuncError struct {
	Pattern string
	Pos     tokenizer.Position
	Err     error
}

func (e PatternFuncError) Error() string {
	return fmt.Sprintf("pattern %s at %s: %v", e.Pattern, e.Pos, e.Err)
}

func (e PatternFuncError) Unwrap() []error {
	return []error{ErrPatternFunc, e.Err}
}

// TokenRemainingError reports a start symbol that matched a proper prefix.
type TokenRemainingError struct {
	Consumed int
	Total    int
	Next     tokenizer.Token
}

func (e TokenRemainingError) Error() string {
	return fmt.Sprintf("tokens remaining at %s: %d of %d consumed, next is %s %q",
		e.Next.Location.At, e.Consumed, e.Total, e.Next.Name, e.Next.Symbol)
}

func (e TokenRemainingError) Unwrap() error {
	return ErrTokenRemaining
}

// IsSoft reports whether err only means that an alternative did not match.
func IsSoft(err error) bool {
	return errors.Is(err, ErrNotMatching)
}

// ErrorPosition extracts the source position carried by a lexer or parser
// error. It reports false for errors without one, such as grammar bugs.
func ErrorPosition(err error) (tokenizer.Position, bool) {
	var (
		invalid   tokenizer.InvalidTokenError
		notMatch  NotMatchingError
		funcErr   PatternFuncError
		remaining TokenRemainingError
	)

	switch {
	case errors.As(err, &invalid):
		return invalid.Pos, true
	case errors.As(err, &notMatch):
		return notMatch.Pos, !notMatch.Pos.IsZero()
	case errors.As(err, &funcErr):
		return funcErr.Pos, !funcErr.Pos.IsZero()
	case errors.As(err, &remaining):
		return remaining.Next.Location.At, true
	}

	return tokenizer.Position{}, false
}
