package lsp

import (
	"errors"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/shibukawa/snapparse/grammar"
	"github.com/shibukawa/snapparse/parser"
	"github.com/shibukawa/snapparse/tokenizer"
)

// Diagnose parses text and converts a failure into a single diagnostic. The
// result is empty, not nil, for a clean document so clients clear markers.
//
// Columns are rune based; input outside the BMP shifts the character offset
// reported to UTF-16 clients.
func Diagnose(lang *grammar.Language, uri, text string) []protocol.Diagnostic {
	_, err := lang.Parse(uri, text)
	if err == nil {
		return []protocol.Diagnostic{}
	}

	severity := protocol.DiagnosticSeverityError
	source := lsName

	start := protocol.Position{}
	end := protocol.Position{}

	if pos, ok := parser.ErrorPosition(err); ok {
		start = toProtocol(pos)
		end = start
		end.Character += protocol.UInteger(width(err))
	}

	return []protocol.Diagnostic{{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Source:   &source,
		Code:     &protocol.IntegerOrString{Value: code(err)},
		Message:  err.Error(),
	}}
}

func toProtocol(pos tokenizer.Position) protocol.Position {
	line, column := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}

	if column < 0 {
		column = 0
	}

	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column)}
}

// width is the rune length of the offending symbol, at least one.
func width(err error) int {
	var (
		notMatch  parser.NotMatchingError
		remaining parser.TokenRemainingError
	)

	n := 0

	switch {
	case errors.As(err, &notMatch) && notMatch.Found != nil:
		n = len([]rune(notMatch.Found.Symbol))
	case errors.As(err, &remaining):
		n = len([]rune(remaining.Next.Symbol))
	}

	return max(n, 1)
}

func code(err error) string {
	switch {
	case errors.Is(err, tokenizer.ErrInvalidToken):
		return "invalid-token"
	case errors.Is(err, parser.ErrTokenRemaining):
		return "tokens-remaining"
	case errors.Is(err, parser.ErrNotMatching):
		return "not-matching"
	case errors.Is(err, parser.ErrPatternFunc):
		return "reducer"
	}

	return "error"
}
