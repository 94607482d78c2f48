package grammar

import (
	"errors"
	"fmt"

	"github.com/shibukawa/snapparse/tokenizer"
)

// Sentinel errors - grammar loading and compilation
var (
	ErrUnsupportedFormat = errors.New("unsupported grammar format")
	ErrGrammarSyntax     = errors.New("grammar syntax error")
	ErrNoGrammarBlock    = errors.New("no grammar block found in markdown")
	ErrEmptyGrammar      = errors.New("grammar declares no patterns")
	ErrMissingTokenName  = errors.New("token definition without name")
	ErrMissingPattern    = errors.New("token definition without pattern")
	ErrDuplicateDecl     = errors.New("duplicate declaration")
	ErrReducerCompile    = errors.New("reducer expression does not compile")
	ErrReducerEval       = errors.New("reducer expression failed")
)

// SyntaxError reports a malformed grammar text.
type SyntaxError struct {
	Source string
	Pos    tokenizer.Position
	Found  string
	Msg    string
}

func (e SyntaxError) Error() string {
	at := e.Pos.String()
	if e.Source != "" {
		at = e.Source + ":" + at
	}

	if e.Found == "" {
		return fmt.Sprintf("%s at %s", e.Msg, at)
	}

	return fmt.Sprintf("%s at %s near %q", e.Msg, at, e.Found)
}

func (e SyntaxError) Unwrap() error {
	return ErrGrammarSyntax
}
