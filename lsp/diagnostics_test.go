package lsp

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/shibukawa/snapparse/grammar"
)

func calcLanguage(t *testing.T) *grammar.Language {
	t.Helper()

	lang, err := grammar.LoadLanguage("../grammar/testdata/calc.grammar")
	assert.NoError(t, err)

	return lang
}

func TestDiagnoseClean(t *testing.T) {
	diagnostics := Diagnose(calcLanguage(t), "file:///a.calc", "1 + 2")
	assert.True(t, diagnostics != nil)
	assert.Equal(t, 0, len(diagnostics))
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start protocol.Position
		end   protocol.Position
		code  string
	}{
		{
			name:  "invalid token",
			input: "1 +\n  x",
			start: protocol.Position{Line: 1, Character: 2},
			end:   protocol.Position{Line: 1, Character: 3},
			code:  "invalid-token",
		},
		{
			name:  "tokens remaining",
			input: "12 34",
			start: protocol.Position{Line: 0, Character: 3},
			end:   protocol.Position{Line: 0, Character: 5},
			code:  "tokens-remaining",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			diagnostics := Diagnose(calcLanguage(t), "file:///a.calc", test.input)
			assert.Equal(t, 1, len(diagnostics))

			d := diagnostics[0]
			assert.Equal(t, test.start, d.Range.Start)
			assert.Equal(t, test.end, d.Range.End)
			assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
			assert.Equal(t, any(test.code), d.Code.Value)
			assert.Equal(t, lsName, *d.Source)
		})
	}
}
