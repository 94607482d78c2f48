package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/snapparse"
	"github.com/shibukawa/snapparse/tokenizer"
)

const calcGrammar = "../../grammar/testdata/calc.grammar"

func newContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	return &Context{
		Config: filepath.Join(t.TempDir(), "snapparse.yaml"),
		Stdout: &out,
	}, &out
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestTokensCmd(t *testing.T) {
	ctx, out := newContext(t)

	cmd := &TokensCmd{File: writeInput(t, "a.calc", "1 +\n2"), Lang: "calc"}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "1:1\tNUM\t\"1\"\n1:3\tPLUS\t\"+\"\n1:4\tNL\t\"\\n\"\n2:1\tNUM\t\"2\"\n", out.String())
}

func TestTokensCmdInvalidToken(t *testing.T) {
	ctx, _ := newContext(t)
	ctx.Grammar = calcGrammar

	cmd := &TokensCmd{File: writeInput(t, "a.txt", "1 ? 2")}
	assert.IsError(t, cmd.Run(ctx), tokenizer.ErrInvalidToken)
}

func TestParseCmd(t *testing.T) {
	t.Run("built-in calc", func(t *testing.T) {
		ctx, out := newContext(t)

		cmd := &ParseCmd{File: writeInput(t, "a.calc", "1 + 2"), Lang: "calc", Format: "tree"}
		assert.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "program\n  stmts\n    expr = 3\n", out.String())
	})

	t.Run("grammar file", func(t *testing.T) {
		ctx, out := newContext(t)
		ctx.Grammar = calcGrammar

		cmd := &ParseCmd{File: writeInput(t, "a.txt", "10 + 20 + 12"), Format: "tree"}
		assert.NoError(t, cmd.Run(ctx))
		assert.True(t, strings.HasPrefix(out.String(), "program = 42\n"))
		assert.Contains(t, out.String(), `NUM "10" @`)
	})

	t.Run("json from config default", func(t *testing.T) {
		ctx, out := newContext(t)
		ctx.Grammar = calcGrammar

		cmd := &ParseCmd{File: writeInput(t, "a.txt", "1")}
		assert.NoError(t, cmd.Run(ctx))
		assert.Contains(t, out.String(), `"kind":"program"`)
	})

	t.Run("no grammar", func(t *testing.T) {
		ctx, _ := newContext(t)

		cmd := &ParseCmd{File: writeInput(t, "a.txt", "1")}
		assert.IsError(t, cmd.Run(ctx), snapparse.ErrNoGrammar)
	})

	t.Run("unknown language", func(t *testing.T) {
		ctx, _ := newContext(t)

		cmd := &ParseCmd{File: writeInput(t, "a.txt", "1"), Lang: "lisp"}
		assert.Error(t, cmd.Run(ctx))
	})

	t.Run("missing input", func(t *testing.T) {
		ctx, _ := newContext(t)

		cmd := &ParseCmd{File: filepath.Join(t.TempDir(), "missing.calc"), Lang: "calc"}
		assert.IsError(t, cmd.Run(ctx), tokenizer.ErrFileNotFound)
	})
}

func TestParseCmdLanguageMapping(t *testing.T) {
	ctx, out := newContext(t)

	abs, err := filepath.Abs(calcGrammar)
	assert.NoError(t, err)
	assert.NoError(t, os.WriteFile(ctx.Config, []byte("languages:\n  .sum: "+abs+"\noutput:\n  format: yaml\n"), 0o644))

	cmd := &ParseCmd{File: writeInput(t, "a.sum", "1 - 1")}
	assert.NoError(t, cmd.Run(ctx))
	assert.Contains(t, out.String(), "kind: program")
}

func TestCheckCmd(t *testing.T) {
	ctx, out := newContext(t)

	bad := writeInput(t, "bad.grammar", "%token A /(/\nprogram : A ;\n")

	cmd := &CheckCmd{Grammars: []string{calcGrammar, bad}}
	err := cmd.Run(ctx)
	assert.IsError(t, err, snapparse.ErrCheckFailed)
	assert.Contains(t, out.String(), "ok   "+calcGrammar+": 3 tokens, 5 patterns, 2 nonterminals")
	assert.Contains(t, out.String(), "FAIL "+bad)

	ctx, _ = newContext(t)
	assert.IsError(t, (&CheckCmd{}).Run(ctx), snapparse.ErrNoGrammar)
}

func TestGenCmd(t *testing.T) {
	ctx, out := newContext(t)

	assert.NoError(t, (&GenCmd{Grammar: calcGrammar}).Run(ctx))
	assert.Contains(t, out.String(), "package calc\n")
	assert.Contains(t, out.String(), "// source: calc.grammar\n")

	output := filepath.Join(t.TempDir(), "gen", "calc.go")
	assert.NoError(t, (&GenCmd{Grammar: calcGrammar, Output: output, Package: "calcgen"}).Run(ctx))

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "package calcgen\n")
}

func TestVersionCmd(t *testing.T) {
	ctx, out := newContext(t)
	assert.NoError(t, (&VersionCmd{}).Run(ctx))
	assert.Equal(t, "snapparse v0.1.0\n", out.String())
}
