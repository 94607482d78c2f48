package grammar

import (
	"fmt"

	"github.com/shibukawa/snapparse/parser"
	"github.com/shibukawa/snapparse/syntax"
	"github.com/shibukawa/snapparse/tokenizer"
)

// Language is a compiled Definition: a lexer and a parser producing
// syntax trees. It is immutable and safe for concurrent use.
type Language struct {
	Definition *Definition
	Lexer      *tokenizer.Lexer
	Parser     *parser.Parser[*syntax.Node]
}

// Compile validates def, compiles its regular expressions and reducer
// expressions and builds the parser.
func Compile(def *Definition, opts ...parser.Option) (*Language, error) {
	d := *def
	d.applyDefaults()

	if err := d.Validate(); err != nil {
		return nil, err
	}

	lb := tokenizer.NewBuilder()
	for _, t := range d.Tokens {
		if err := lb.AddRule(t.Name, t.Regex()); err != nil {
			return nil, fmt.Errorf("token %s: %w", t.Name, err)
		}
	}

	if err := lb.IgnoreRules(d.Ignore...); err != nil {
		return nil, fmt.Errorf("ignore rule: %w", err)
	}

	lexer := lb.Build()

	env, err := newReducerEnv()
	if err != nil {
		return nil, err
	}

	pb := parser.NewBuilder[*syntax.Node](lexer.Terminals()...).Options(opts...)

	for _, p := range d.Patterns {
		reduce := treeReducer(p.Name)
		if p.Reduce != "" {
			reduce, err = celReducer(env, p.Name, p.Reduce)
			if err != nil {
				return nil, err
			}
		}

		pb.Add(p.Name, p.Elems, reduce)
	}

	ps, err := pb.Build()
	if err != nil {
		return nil, err
	}

	if !ps.IsNonterminal(d.Start) {
		return nil, fmt.Errorf("%w: start symbol '%s' has no pattern", parser.ErrInvalidPatternName, d.Start)
	}

	return &Language{Definition: &d, Lexer: lexer, Parser: ps}, nil
}

// Name returns the grammar name.
func (l *Language) Name() string {
	return l.Definition.Name
}

// Tokenize lexes input completely.
func (l *Language) Tokenize(source, input string) ([]tokenizer.Token, error) {
	return l.Lexer.Tokenize(source, input)
}

// Parse lexes and parses input from the start symbol.
func (l *Language) Parse(source, input string) (*syntax.Node, error) {
	tokens, err := l.Tokenize(source, input)
	if err != nil {
		return nil, err
	}

	return l.Parser.ParseAs(l.Definition.Start, tokens)
}

// ParseFile reads path once and parses it.
func (l *Language) ParseFile(path string) (*syntax.Node, error) {
	stream, err := l.Lexer.LexFile(path)
	if err != nil {
		return nil, err
	}

	tokens, err := stream.Collect()
	if err != nil {
		return nil, err
	}

	return l.Parser.ParseAs(l.Definition.Start, tokens)
}

// LoadLanguage loads and compiles a grammar file.
func LoadLanguage(path string, opts ...parser.Option) (*Language, error) {
	def, err := Load(path)
	if err != nil {
		return nil, err
	}

	return Compile(def, opts...)
}
