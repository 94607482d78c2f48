package tokenizer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
)

func newTestLexer(t *testing.T) *Lexer {
	t.Helper()

	b := NewBuilder()
	assert.NoError(t, b.AddRules([]RuleDef{
		{Name: "FUNC", Pattern: `func`},
		{Name: "ID", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "NUM", Pattern: `\d+(\.\d+)?`},
		{Name: "PLUS", Pattern: `[+]`},
		{Name: "NL", Pattern: `[\r\n]+`},
	}))
	assert.NoError(t, b.IgnoreRules(`[ \t]+`, `#[^\n]*`))

	return b.Build()
}

func names(tokens []Token) []string {
	result := make([]string, len(tokens))
	for i, token := range tokens {
		result[i] = token.Name
	}

	return result
}

func TestTokenIterator(t *testing.T) {
	lexer := newTestLexer(t)

	var actual []string
	for token, err := range lexer.Lex("func add 1 + 2.5").All() {
		assert.NoError(t, err)

		actual = append(actual, token.Name+":"+token.Symbol)
	}

	assert.Equal(t, []string{"FUNC:func", "ID:add", "NUM:1", "PLUS:+", "NUM:2.5"}, actual)
}

func TestIteratorEarlyTermination(t *testing.T) {
	lexer := newTestLexer(t)
	stream := lexer.Lex("a b c d e f")

	count := 0
	for _, err := range stream.All() {
		assert.NoError(t, err)

		count++
		if count >= 3 {
			break
		}
	}

	assert.Equal(t, 3, count)

	token, err := stream.Next()
	assert.NoError(t, err)
	assert.Equal(t, "d", token.Symbol)
}

func TestIgnoredInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tabs and spaces", " \t \t"},
		{"comment only", "# nothing here"},
		{"space then comment", "   # note"},
	}

	lexer := newTestLexer(t)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, err := lexer.Tokenize("", test.input)
			assert.NoError(t, err)
			assert.Equal(t, 0, len(tokens))

			_, err = lexer.Lex(test.input).Next()
			assert.IsError(t, err, io.EOF)
		})
	}
}

func TestIgnoreRulesRestartScan(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddRule("ID", `[a-z]+`))
	// comment rule first, whitespace second: a comment after whitespace
	// is only reachable because the scan restarts after each match
	assert.NoError(t, b.IgnoreRules(`#[^\n]*`, `\s+`))

	tokens, err := b.Build().Tokenize("", "  # one\n  # two\n  word")
	assert.NoError(t, err)
	assert.Equal(t, []string{"ID"}, names(tokens))
	assert.Equal(t, "word", tokens[0].Symbol)
}

func TestFirstMatchPriority(t *testing.T) {
	tests := []struct {
		name     string
		rules    []RuleDef
		expected string
	}{
		{
			name:     "keyword before identifier",
			rules:    []RuleDef{{Name: "FUNC", Pattern: `func`}, {Name: "ID", Pattern: `[a-z]+`}},
			expected: "FUNC",
		},
		{
			name:     "identifier before keyword",
			rules:    []RuleDef{{Name: "ID", Pattern: `[a-z]+`}, {Name: "FUNC", Pattern: `func`}},
			expected: "ID",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBuilder()
			assert.NoError(t, b.AddRules(test.rules))

			tokens, err := b.Build().Tokenize("", "func")
			assert.NoError(t, err)
			assert.Equal(t, []string{test.expected}, names(tokens))
		})
	}
}

func TestFirstMatchIsNotLongestMatch(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddRules([]RuleDef{{Name: "FUNC", Pattern: `func`}, {Name: "ID", Pattern: `[a-z]+`}}))

	tokens, err := b.Build().Tokenize("", "funcs")
	assert.NoError(t, err)
	assert.Equal(t, []string{"FUNC", "ID"}, names(tokens))
	assert.Equal(t, "s", tokens[1].Symbol)
}

func TestRuleNeverMatchesAhead(t *testing.T) {
	rule := MustRule("NUM", `\d+`)

	_, ok := rule.Match("abc 123")
	assert.False(t, ok)

	n, ok := rule.Match("123 abc")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestEmptyMatchIsNoMatch(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddRule("AS", `a*`))
	assert.NoError(t, b.IgnoreRule(`\s*`))

	tokens, err := b.Build().Tokenize("", "aa b")
	assert.Equal(t, []string{"AS"}, names(tokens))

	var invalid InvalidTokenError
	assert.True(t, errors.As(err, &invalid))
	assert.Equal(t, 'b', invalid.Found)
	assert.Equal(t, Position{Offset: 3, Line: 1, Column: 4}, invalid.Pos)
}

func TestTokenLocations(t *testing.T) {
	lexer := newTestLexer(t)

	tokens, err := lexer.Tokenize("main.calc", "a\n  b")
	assert.NoError(t, err)
	assert.Equal(t, []string{"ID", "NL", "ID"}, names(tokens))

	assert.Equal(t, Location{
		Source: "main.calc",
		Start:  Position{Offset: 0, Line: 1, Column: 1},
		At:     Position{Offset: 0, Line: 1, Column: 1},
		End:    Position{Offset: 1, Line: 1, Column: 2},
	}, tokens[0].Location)
	assert.Equal(t, Position{Offset: 2, Line: 2, Column: 1}, tokens[1].Location.End)
	// the span of a token starts where the previous token ended
	assert.Equal(t, Position{Offset: 2, Line: 2, Column: 1}, tokens[2].Location.Start)
	assert.Equal(t, Position{Offset: 4, Line: 2, Column: 3}, tokens[2].Location.At)
	assert.Equal(t, "main.calc:2:3", tokens[2].Location.String())
	assert.Equal(t, Position{Offset: 5, Line: 2, Column: 4}, tokens[2].Location.End)
}

func TestPositionMonotonicity(t *testing.T) {
	lexer := newTestLexer(t)

	tokens, err := lexer.Tokenize("", "func f\n  1 + 22 # done\n\n x")
	assert.NoError(t, err)

	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1].Location, tokens[i].Location
		assert.True(t, cur.Start.Offset >= prev.End.Offset, "token %d starts before previous end", i)
		assert.True(t, cur.End.Offset > prev.End.Offset, "token %d does not advance", i)
		assert.True(t, cur.End.Line >= prev.End.Line)
	}
}

func TestColumnCountsCharacters(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddRule("WORD", `\pL+`))
	assert.NoError(t, b.IgnoreRule(` +`))

	tokens, err := b.Build().Tokenize("", "éé x")
	assert.NoError(t, err)
	assert.Equal(t, Position{Offset: 4, Line: 1, Column: 3}, tokens[0].Location.End)
	assert.Equal(t, Position{Offset: 6, Line: 1, Column: 5}, tokens[1].Location.End)
}

func TestInvalidToken(t *testing.T) {
	lexer := newTestLexer(t)
	stream := lexer.LexNamed("input", "1 +\n $ 2")

	var got []string
	var lastErr error
	for token, err := range stream.All() {
		if err != nil {
			lastErr = err
			continue
		}
		got = append(got, token.Name)
	}

	assert.Equal(t, []string{"NUM", "PLUS", "NL"}, got)
	assert.IsError(t, lastErr, ErrInvalidToken)

	var invalid InvalidTokenError
	assert.True(t, errors.As(lastErr, &invalid))
	assert.Equal(t, Position{Offset: 5, Line: 2, Column: 2}, invalid.Pos)
	assert.Equal(t, '$', invalid.Found)
	assert.Equal(t, `invalid token '$' at input:2:2`, invalid.Error())

	// the stream stays failed
	_, err := stream.Next()
	assert.IsError(t, err, ErrInvalidToken)
	assert.Equal(t, Position{Offset: 5, Line: 2, Column: 2}, stream.Position())
}

func TestTerminals(t *testing.T) {
	b := NewBuilder()
	assert.NoError(t, b.AddRules([]RuleDef{
		{Name: "NUM", Pattern: `0x[0-9a-f]+`},
		{Name: "ID", Pattern: `[a-z]+`},
		{Name: "NUM", Pattern: `\d+`},
	}))

	assert.Equal(t, []string{"NUM", "ID"}, b.Build().Terminals())
}

func TestBuilderErrors(t *testing.T) {
	t.Run("invalid rule pattern", func(t *testing.T) {
		b := NewBuilder()
		err := b.AddRules([]RuleDef{{Name: "OK", Pattern: `a`}, {Name: "BAD", Pattern: `(`}, {Name: "LATER", Pattern: `[`}})
		assert.IsError(t, err, ErrInvalidRegex)
		assert.Equal(t, "invalid regex '('", err.Error())
		assert.Equal(t, 1, len(b.Build().Rules()))
	})

	t.Run("invalid ignore pattern", func(t *testing.T) {
		err := NewBuilder().IgnoreRules(`\s+`, `[a-`)
		assert.IsError(t, err, ErrInvalidRegex)
		assert.Contains(t, err.Error(), "[a-")
	})

	t.Run("unnamed token rule", func(t *testing.T) {
		err := NewBuilder().AddRule("", `x`)
		assert.IsError(t, err, ErrMissingRuleName)
	})
}

func TestLexFile(t *testing.T) {
	lexer := newTestLexer(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := lexer.LexFile(filepath.Join(t.TempDir(), "missing.calc"))
		assert.IsError(t, err, ErrFileNotFound)
	})

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "input.calc")
		assert.NoError(t, os.WriteFile(path, []byte("x + 1"), 0o644))

		stream, err := lexer.LexFile(path)
		assert.NoError(t, err)

		tokens, err := stream.Collect()
		assert.NoError(t, err)
		assert.Equal(t, []string{"ID", "PLUS", "NUM"}, names(tokens))
		assert.Equal(t, path, tokens[0].Location.Source)
	})
}

func TestFromStateful(t *testing.T) {
	rules := plexer.Rules{
		"Root": {
			{Name: "Comment", Pattern: `//[^\n]*`},
			{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
			{Name: "Integer", Pattern: `[0-9]+`},
			{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		},
	}

	lexer, err := FromStateful(rules, "Root", "Comment", "Whitespace")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Ident", "Integer"}, lexer.Terminals())

	tokens, err := lexer.Tokenize("", "x 42 // answer\ny")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Ident", "Integer", "Ident"}, names(tokens))

	t.Run("missing state", func(t *testing.T) {
		_, err := FromStateful(rules, "String")
		assert.IsError(t, err, ErrStateNotFound)
	})

	t.Run("state transitions", func(t *testing.T) {
		_, err := FromStateful(plexer.Rules{
			"Root": {{Name: "String", Pattern: `"`, Action: plexer.Push("String")}},
		}, "Root")
		assert.IsError(t, err, ErrUnsupportedAction)
	})
}

func TestPositionAdvance(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Position
	}{
		{"no line break", "abc", Position{Offset: 3, Line: 1, Column: 4}},
		{"trailing line break", "ab\n", Position{Offset: 3, Line: 2, Column: 1}},
		{"text after line break", "ab\ncd", Position{Offset: 5, Line: 2, Column: 3}},
		{"crlf counts once", "a\r\n\r\nb", Position{Offset: 6, Line: 3, Column: 2}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, StartPosition().Advance(test.text))
		})
	}
}
