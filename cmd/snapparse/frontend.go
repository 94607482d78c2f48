package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/shibukawa/snapparse"
	"github.com/shibukawa/snapparse/grammar"
	"github.com/shibukawa/snapparse/lang/calc"
	"github.com/shibukawa/snapparse/parser"
	"github.com/shibukawa/snapparse/syntax"
	"github.com/shibukawa/snapparse/tokenizer"
)

var log = commonlog.GetLogger("snapparse")

// builtinLanguages can be selected with --lang instead of a grammar file.
var builtinLanguages = []string{"calc"}

// frontend is what tokens and parse need from a language.
type frontend struct {
	name  string
	lexer *tokenizer.Lexer
	parse func(source, input string) (*syntax.Node, error)
}

func loadConfig(ctx *Context) (*snapparse.Config, error) {
	config, err := snapparse.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return config, nil
}

// parserOptions routes the resolution trace into the debug log.
func parserOptions(ctx *Context, config *snapparse.Config) []parser.Option {
	if !ctx.Verbose && !config.Trace {
		return nil
	}

	return []parser.Option{parser.WithTrace(log.Debugf)}
}

// grammarPath picks the grammar for input: --grammar, then the configured
// extension mapping, then the configured default.
func grammarPath(ctx *Context, config *snapparse.Config, input string) (string, error) {
	if ctx.Grammar != "" {
		return ctx.Grammar, nil
	}

	if path := config.GrammarFor(input); path != "" {
		return path, nil
	}

	return "", snapparse.ErrNoGrammar
}

func loadFrontend(ctx *Context, config *snapparse.Config, lang, input string) (*frontend, error) {
	opts := parserOptions(ctx, config)

	switch lang {
	case "":
	case "calc":
		return calcFrontend(opts)
	default:
		return nil, fmt.Errorf("unknown built-in language '%s': must be one of %v", lang, builtinLanguages)
	}

	path, err := grammarPath(ctx, config, input)
	if err != nil {
		return nil, err
	}

	log.Infof("loading grammar %s", path)

	language, err := grammar.LoadLanguage(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load grammar %s: %w", path, err)
	}

	return &frontend{name: language.Name(), lexer: language.Lexer, parse: language.Parse}, nil
}

func calcFrontend(opts []parser.Option) (*frontend, error) {
	lexer, err := calc.NewLexer()
	if err != nil {
		return nil, err
	}

	return &frontend{
		name:  "calc",
		lexer: lexer,
		parse: func(source, input string) (*syntax.Node, error) {
			program, err := calc.Parse(source, input, opts...)
			if err != nil {
				return nil, err
			}

			return program.Tree(), nil
		},
	}, nil
}

func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", tokenizer.ErrFileNotFound, path)
		}

		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	return string(data), nil
}
