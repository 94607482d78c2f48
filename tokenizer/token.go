package tokenizer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position represents a position in the source text.
// Offset is a 0-based byte offset, Line and Column are 1-based.
// Column counts characters (runes), not display cells.
type Position struct {
	Offset int
	Line   int
	Column int
}

// StartPosition returns the position of the first character of an input.
func StartPosition() Position {
	return Position{Offset: 0, Line: 1, Column: 1}
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether p was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0 && p.Offset == 0
}

// Advance returns the position after consuming text starting at p.
func (p Position) Advance(text string) Position {
	next := p
	next.Offset += len(text)

	lines := strings.Count(text, "\n")
	if lines == 0 {
		next.Column += utf8.RuneCountInString(text)
		return next
	}

	next.Line += lines
	last := strings.LastIndexByte(text, '\n')
	next.Column = utf8.RuneCountInString(text[last+1:]) + 1

	return next
}

// Location is the span of a token. Source is empty for anonymous inputs.
// Start is where the lexer began reading, before skipping ignorable text, and
// At is where the matched text itself begins.
type Location struct {
	Source string
	Start  Position
	At     Position
	End    Position
}

// String returns "source:line:column" or "line:column" of At.
func (l Location) String() string {
	if l.Source != "" {
		return l.Source + ":" + l.At.String()
	}

	return l.At.String()
}

// Token is a lexical unit. Name is the name of the rule that produced it and
// Symbol is the exact matched text.
type Token struct {
	Name     string
	Symbol   string
	Location Location
}

// String returns the string representation of Token
func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Location, t.Name, t.Symbol)
}
