package grammar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/snapparse/tokenizer"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{path: "a.yaml", expected: FormatYAML},
		{path: "a.YML", expected: FormatYAML},
		{path: "dir/a.grammar", expected: FormatDSL},
		{path: "a.peg", expected: FormatDSL},
		{path: "README.md", expected: FormatMarkdown},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			format, err := FormatOf(test.path)
			require.NoError(t, err)
			assert.Equal(t, test.expected, format)
		})
	}

	_, err := FormatOf("a.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMarkdown(t *testing.T) {
	def, err := Load("testdata/greeting.md")
	require.NoError(t, err)
	assert.Equal(t, "Greeting", def.Name)
	assert.Len(t, def.Tokens, 2)

	lang, err := Compile(def)
	require.NoError(t, err)

	tree, err := lang.Parse("", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello, world", tree.Value)
}

func TestLoadMarkdownYAMLBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.md")

	content := "# Words\n\n```yaml\nname: words\ntokens:\n  - {name: W, pattern: '[a-z]+'}\nignore: [' ']\npatterns:\n  - {name: program, elems: W W}\n```\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "words", def.Name)
	assert.Equal(t, "program", def.Patterns[0].Name)
}

func TestLoadNameFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.grammar")
	require.NoError(t, os.WriteFile(path, []byte("%token A /a/\nprogram : A ;\n"), 0o644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", def.Name)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		return path
	}

	tests := []struct {
		name     string
		path     string
		expected error
	}{
		{
			name:     "missing file",
			path:     filepath.Join(dir, "missing.grammar"),
			expected: tokenizer.ErrFileNotFound,
		},
		{
			name:     "unsupported extension",
			path:     write("g.toml", ""),
			expected: ErrUnsupportedFormat,
		},
		{
			name:     "unknown yaml field",
			path:     write("g.yaml", "name: x\nrules: []\n"),
			expected: ErrGrammarSyntax,
		},
		{
			name:     "token without pattern",
			path:     write("t.yaml", "tokens:\n  - name: A\npatterns:\n  - {name: program, elems: A}\n"),
			expected: ErrMissingPattern,
		},
		{
			name:     "token with both pattern and literal",
			path:     write("b.yaml", "tokens:\n  - {name: A, pattern: a, literal: a}\npatterns:\n  - {name: program, elems: A}\n"),
			expected: ErrDuplicateDecl,
		},
		{
			name:     "markdown without grammar",
			path:     write("doc.md", "# Title\n\n```go\npackage main\n```\n"),
			expected: ErrNoGrammarBlock,
		},
		{
			name:     "markdown with bad grammar",
			path:     write("bad.md", "```grammar\n%token\n```\n"),
			expected: ErrGrammarSyntax,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(test.path)
			assert.ErrorIs(t, err, test.expected)
		})
	}
}
