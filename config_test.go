package snapparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapparse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	config, err := LoadConfig("non-existent-file.yaml")
	require.NoError(t, err)

	assert.Equal(t, "json", config.Output.Format)
	assert.True(t, config.Output.ShowPositions())
	assert.False(t, config.Trace)
	assert.Empty(t, config.Grammar)
	assert.NotNil(t, config.Languages)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GRAMMAR_DIR", "/opt/grammars")

	path := writeConfig(t, `
grammar: ${GRAMMAR_DIR}/calc.grammar
languages:
  .md: $GRAMMAR_DIR/doc.md
output:
  format: xml
  positions: false
trace: true
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/grammars/calc.grammar", config.Grammar)
	assert.Equal(t, "/opt/grammars/doc.md", config.Languages[".md"])
	assert.Equal(t, "xml", config.Output.Format)
	assert.False(t, config.Output.ShowPositions())
	assert.True(t, config.Trace)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		validation bool
	}{
		{name: "unknown field", content: "grammars: a.grammar\n"},
		{name: "invalid format", content: "output:\n  format: csv\n", validation: true},
		{name: "extension without dot", content: "languages:\n  calc: calc.grammar\n", validation: true},
		{name: "empty grammar path", content: "languages:\n  .calc: \"\"\n", validation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)

			if tt.validation {
				assert.ErrorIs(t, err, ErrConfigValidation)
			} else {
				assert.NotErrorIs(t, err, ErrConfigValidation)
			}
		})
	}
}

func TestConfig_GrammarFor(t *testing.T) {
	config := getDefaultConfig()
	config.Grammar = "default.grammar"
	config.Languages[".calc"] = "calc.grammar"

	assert.Equal(t, "calc.grammar", config.GrammarFor("dir/input.calc"))
	assert.Equal(t, "calc.grammar", config.GrammarFor("INPUT.CALC"))
	assert.Equal(t, "default.grammar", config.GrammarFor("input.txt"))
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SNAPPARSE_TEST", "value")

	assert.Equal(t, "a/value/b", expandEnvVars("a/${SNAPPARSE_TEST}/b"))
	assert.Equal(t, "value.grammar", expandEnvVars("$SNAPPARSE_TEST.grammar"))
	assert.Equal(t, "plain", expandEnvVars("plain"))
}
