package tokenizer

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidRegex      = errors.New("invalid regex")
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedAction = errors.New("unsupported lexer rule action")
	ErrStateNotFound     = errors.New("lexer state not found")
	ErrMissingRuleName   = errors.New("token rule requires a name")
)

// InvalidTokenError is returned by a Stream when no rule matches at Pos.
type InvalidTokenError struct {
	Source string
	Pos    Position
	Found  rune
}

func (e InvalidTokenError) Error() string {
	where := e.Pos.String()
	if e.Source != "" {
		where = e.Source + ":" + where
	}

	return fmt.Sprintf("invalid token %q at %s", e.Found, where)
}

func (e InvalidTokenError) Unwrap() error {
	return ErrInvalidToken
}

// InvalidRegexError reports a rule whose pattern does not compile.
type InvalidRegexError struct {
	Pattern string
	Err     error
}

func (e InvalidRegexError) Error() string {
	return fmt.Sprintf("invalid regex '%s'", e.Pattern)
}

func (e InvalidRegexError) Unwrap() []error {
	return []error{ErrInvalidRegex, e.Err}
}
