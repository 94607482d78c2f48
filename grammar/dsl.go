package grammar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	pc "github.com/shibukawa/parsercombinator"

	"github.com/shibukawa/snapparse/tokenizer"
)

// The grammar text format:
//
//	%name calc
//	%start program
//	%token NUM /\d+/
//	%token PLUS "+"
//	%ignore /\s+/
//	expr : NUM PLUS expr => `int(children[0].text) + children[2].value`
//	     | NUM           => `int(children[0].text)`
//	     ;
//
// Alternatives are separated by '|' and a rule ends with ';'. An empty
// alternative is epsilon. Line comments start with "//".
var dslLexer = tokenizer.NewLexer(
	[]tokenizer.Rule{
		tokenizer.MustRule("DIRECTIVE", `%[a-z]+`),
		tokenizer.MustRule("REGEX", `/(?:\\.|[^/\\\n])+/`),
		tokenizer.MustRule("STRING", `"(?:\\.|[^"\\\n])*"`),
		tokenizer.MustRule("CEL", "`[^`]*`"),
		tokenizer.MustRule("ARROW", `=>`),
		tokenizer.MustRule("COLON", `:`),
		tokenizer.MustRule("BAR", `\|`),
		tokenizer.MustRule("SEMI", `;`),
		tokenizer.MustRule("IDENT", `[A-Za-z_][A-Za-z0-9_]*`),
	},
	[]tokenizer.Rule{
		tokenizer.MustRule("", `\s+`),
		tokenizer.MustRule("", `//[^\n]*`),
	},
)

type ptoken = pc.Token[tokenizer.Token]

// expect matches one token named name and tags it as typ.
func expect(name, typ string) pc.Parser[tokenizer.Token] {
	return func(pctx *pc.ParseContext[tokenizer.Token], tokens []ptoken) (int, []ptoken, error) {
		if len(tokens) > 0 && tokens[0].Val.Name == name {
			matched := tokens[0]
			matched.Type = typ

			return 1, []ptoken{matched}, nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

// directive matches the directive keyword word.
func directive(word string) pc.Parser[tokenizer.Token] {
	return func(pctx *pc.ParseContext[tokenizer.Token], tokens []ptoken) (int, []ptoken, error) {
		if len(tokens) > 0 && tokens[0].Val.Name == "DIRECTIVE" && tokens[0].Val.Symbol == word {
			matched := tokens[0]
			matched.Type = "directive"

			return 1, []ptoken{matched}, nil
		}

		return 0, nil, pc.ErrNotMatch
	}
}

func lexical() pc.Parser[tokenizer.Token] {
	return pc.Or(expect("REGEX", "regex"), expect("STRING", "literal"))
}

var (
	declaration = pc.Or(
		pc.Seq(directive("%name"), expect("IDENT", "name")),
		pc.Seq(directive("%start"), expect("IDENT", "start")),
		pc.Seq(directive("%token"), expect("IDENT", "token"), lexical()),
		pc.Seq(directive("%ignore"), lexical()),
	)

	alternative = pc.Seq(
		pc.ZeroOrMore("elements", expect("IDENT", "elem")),
		pc.Optional(pc.Seq(pc.Drop(expect("ARROW", "arrow")), expect("CEL", "reduce"))),
	)

	rule = pc.Seq(
		expect("IDENT", "rule"),
		pc.Drop(expect("COLON", "colon")),
		alternative,
		pc.ZeroOrMore("alternatives", pc.Seq(expect("BAR", "bar"), alternative)),
		expect("SEMI", "end"),
	)

	definition = pc.Or(declaration, rule)
)

func toParserTokens(tokens []tokenizer.Token) []ptoken {
	results := make([]ptoken, len(tokens))

	for i, token := range tokens {
		at := token.Location.At
		results[i] = ptoken{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  at.Line,
				Col:   at.Column,
				Index: at.Offset,
			},
			Val: token,
			Raw: token.Symbol,
		}
	}

	return results
}

// ParseDSL reads a grammar in the text format. source names the input in
// error messages.
func ParseDSL(source, text string) (*Definition, error) {
	tokens, err := dslLexer.Tokenize(source, text)
	if err != nil {
		var invalid tokenizer.InvalidTokenError
		if errors.As(err, &invalid) {
			return nil, SyntaxError{Source: source, Pos: invalid.Pos, Found: string(invalid.Found), Msg: "unexpected character"}
		}

		return nil, err
	}

	pctx := pc.NewParseContext[tokenizer.Token]()
	pctx.OrMode = pc.OrModeTryFast

	def := &Definition{}
	rest := toParserTokens(tokens)

	for len(rest) > 0 {
		consumed, matched, err := definition(pctx, rest)
		if err != nil {
			if errors.Is(err, pc.ErrCritical) {
				return nil, err
			}

			return nil, syntaxError(source, rest[0].Val)
		}

		if err := apply(def, matched); err != nil {
			return nil, err
		}

		rest = rest[consumed:]
	}

	def.applyDefaults()

	return def, nil
}

func syntaxError(source string, head tokenizer.Token) SyntaxError {
	err := SyntaxError{Source: source, Pos: head.Location.At, Found: head.Symbol}

	switch head.Name {
	case "DIRECTIVE":
		switch head.Symbol {
		case "%name", "%start", "%token", "%ignore":
			err.Msg = fmt.Sprintf("malformed %s declaration", head.Symbol)
		default:
			err.Msg = "unknown directive"
		}
	case "IDENT":
		err.Msg = fmt.Sprintf("malformed rule '%s'", head.Symbol)
	default:
		err.Msg = "expected a directive or a rule"
	}

	return err
}

// apply folds one matched declaration or rule into def.
func apply(def *Definition, matched []ptoken) error {
	head := matched[0]

	switch head.Type {
	case "directive":
		return applyDirective(def, head.Val.Symbol, matched[1:])
	case "rule":
		applyRule(def, head.Val.Symbol, matched[1:])
		return nil
	}

	return fmt.Errorf("%w: unexpected %s", ErrGrammarSyntax, head.Val.Symbol)
}

func applyDirective(def *Definition, word string, args []ptoken) error {
	switch word {
	case "%name":
		if def.Name != "" {
			return fmt.Errorf("%w: %%name at %s", ErrDuplicateDecl, args[0].Val.Location)
		}

		def.Name = args[0].Val.Symbol

	case "%start":
		if def.Start != "" {
			return fmt.Errorf("%w: %%start at %s", ErrDuplicateDecl, args[0].Val.Location)
		}

		def.Start = args[0].Val.Symbol

	case "%token":
		t := TokenDef{Name: args[0].Val.Symbol}

		value, err := lexicalValue(args[1])
		if err != nil {
			return err
		}

		if args[1].Type == "regex" {
			t.Pattern = value
		} else {
			t.Literal = value
		}

		def.Tokens = append(def.Tokens, t)

	case "%ignore":
		value, err := lexicalValue(args[0])
		if err != nil {
			return err
		}

		if args[0].Type == "literal" {
			value = TokenDef{Literal: value}.Regex()
		}

		def.Ignore = append(def.Ignore, value)
	}

	return nil
}

func lexicalValue(tok ptoken) (string, error) {
	symbol := tok.Val.Symbol

	if tok.Type == "regex" {
		return strings.ReplaceAll(symbol[1:len(symbol)-1], `\/`, "/"), nil
	}

	value, err := strconv.Unquote(symbol)
	if err != nil {
		return "", SyntaxError{Pos: tok.Val.Location.At, Found: symbol, Msg: "invalid string literal"}
	}

	return value, nil
}

func applyRule(def *Definition, name string, body []ptoken) {
	current := PatternDef{Name: name}
	var elems []string

	flush := func() {
		current.Elems = strings.Join(elems, " ")
		def.Patterns = append(def.Patterns, current)
		current = PatternDef{Name: name}
		elems = nil
	}

	for _, tok := range body {
		switch tok.Type {
		case "elem":
			elems = append(elems, tok.Val.Symbol)
		case "reduce":
			current.Reduce = strings.TrimSpace(strings.Trim(tok.Val.Symbol, "`"))
		case "bar", "end":
			flush()
		}
	}
}
