package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/snapparse"
	"github.com/shibukawa/snapparse/codegen"
	"github.com/shibukawa/snapparse/grammar"
	"github.com/shibukawa/snapparse/lsp"
	"github.com/shibukawa/snapparse/syntax"
)

// TokensCmd represents the tokens command
type TokensCmd struct {
	File string `arg:"" help:"Input file" type:"path"`
	Lang string `help:"Built-in language to use instead of a grammar file"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	fe, err := loadFrontend(ctx, config, cmd.Lang, cmd.File)
	if err != nil {
		return err
	}

	stream, err := fe.lexer.LexFile(cmd.File)
	if err != nil {
		return err
	}

	for tok, err := range stream.All() {
		if err != nil {
			return err
		}

		at := tok.Location.At
		fmt.Fprintf(ctx.Stdout, "%d:%d\t%s\t%q\n", at.Line, at.Column, tok.Name, tok.Symbol)
	}

	return nil
}

// ParseCmd represents the parse command
type ParseCmd struct {
	File   string `arg:"" help:"Input file" type:"path"`
	Lang   string `help:"Built-in language to use instead of a grammar file"`
	Format string `help:"Output format: json, yaml, xml or tree (default from config)" short:"f"`
	Pretty bool   `help:"Indent JSON output"`
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	name := cmd.Format
	if name == "" {
		name = config.Output.Format
	}

	format, err := syntax.ParseFormat(name)
	if err != nil {
		return err
	}

	fe, err := loadFrontend(ctx, config, cmd.Lang, cmd.File)
	if err != nil {
		return err
	}

	input, err := readInput(cmd.File)
	if err != nil {
		return err
	}

	tree, err := fe.parse(cmd.File, input)
	if err != nil {
		return err
	}

	return syntax.Encode(ctx.Stdout, tree, format, syntax.Options{
		Source:    cmd.File,
		Positions: config.Output.ShowPositions(),
		Pretty:    cmd.Pretty || config.Output.Pretty,
	})
}

// CheckCmd represents the check command
type CheckCmd struct {
	Grammars []string `arg:"" optional:"" help:"Grammar files (default: configured grammars)" type:"path"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	paths := cmd.Grammars
	if len(paths) == 0 {
		paths = configuredGrammars(ctx, config)
	}

	if len(paths) == 0 {
		return snapparse.ErrNoGrammar
	}

	failed := 0

	for _, path := range paths {
		lang, err := grammar.LoadLanguage(path)
		if err != nil {
			failed++

			if !ctx.Quiet {
				color.New(color.FgRed).Fprintf(ctx.Stdout, "FAIL %s: %v\n", path, err)
			}

			continue
		}

		if !ctx.Quiet {
			def := lang.Definition
			color.New(color.FgGreen).Fprintf(ctx.Stdout, "ok   %s: %d tokens, %d patterns, %d nonterminals\n",
				path, len(def.Tokens), len(def.Patterns), len(def.Nonterminals()))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", snapparse.ErrCheckFailed, failed, len(paths))
	}

	return nil
}

func configuredGrammars(ctx *Context, config *snapparse.Config) []string {
	var paths []string

	seen := make(map[string]bool)
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	add(ctx.Grammar)
	add(config.Grammar)

	for _, path := range config.Languages {
		add(path)
	}

	return paths
}

// GenCmd represents the gen command
type GenCmd struct {
	Grammar string `arg:"" help:"Grammar file" type:"path"`
	Output  string `short:"o" help:"Output file (default: stdout)" type:"path"`
	Package string `help:"Package name (default: derived from the grammar name)"`
}

// Run executes the gen command
func (cmd *GenCmd) Run(ctx *Context) error {
	def, err := grammar.Load(cmd.Grammar)
	if err != nil {
		return err
	}

	// Compiling first reports grammar errors before any file is written.
	if _, err := grammar.Compile(def); err != nil {
		return err
	}

	var buf strings.Builder

	err = codegen.Generate(&buf, def, codegen.Options{
		Package: cmd.Package,
		Source:  filepath.Base(cmd.Grammar),
	})
	if err != nil {
		return err
	}

	if cmd.Output == "" {
		_, err = fmt.Fprint(ctx.Stdout, buf.String())
		return err
	}

	if err := writeFile(cmd.Output, buf.String()); err != nil {
		return err
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stdout, "Generated %s\n", cmd.Output)
	}

	return nil
}

// LSPCmd represents the lsp command
type LSPCmd struct{}

// Run executes the lsp command
func (cmd *LSPCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	path := ctx.Grammar
	if path == "" {
		path = config.Grammar
	}

	if path == "" {
		return snapparse.ErrNoGrammar
	}

	lang, err := grammar.LoadLanguage(path)
	if err != nil {
		return fmt.Errorf("failed to load grammar %s: %w", path, err)
	}

	return lsp.NewServer(lang, version).RunStdio()
}

// writeFile writes content to a file, creating directories if necessary
func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
