package codegen

import (
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/snapparse/grammar"
)

// Options controls code generation.
type Options struct {
	// Package is the package clause of the generated file. It defaults to the
	// grammar name reduced to lower case letters and digits.
	Package string
	// Source is mentioned in the header comment when set.
	Source string
}

type constant struct {
	Ident string
	Value string
}

type templateData struct {
	Package   string
	Source    string
	Grammar   string
	Start     string
	Tokens    []constant
	Rules     []constant
	Lexical   []grammar.TokenDef
	Ignore    []string
	Patterns  []grammar.PatternDef
	Terminals []string
}

// Generate writes a gofmt'ed Go file declaring token and rule name constants,
// the pattern table and constructors for the lexer and a parser builder.
func Generate(w io.Writer, def *grammar.Definition, opts Options) error {
	pkg := opts.Package
	if pkg == "" {
		pkg = packageName(def.Name)
	}

	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("%w: '%s'", ErrInvalidPackageName, pkg)
	}

	start := def.Start
	if start == "" {
		start = "program"
	}

	data := templateData{
		Package:   pkg,
		Source:    opts.Source,
		Grammar:   def.Name,
		Start:     start,
		Lexical:   def.Tokens,
		Ignore:    def.Ignore,
		Patterns:  def.Patterns,
		Terminals: def.Terminals(),
	}

	seen := make(map[string]string)

	var err error

	data.Tokens, err = constants("Token", data.Terminals, seen)
	if err != nil {
		return err
	}

	data.Rules, err = constants("Rule", def.Nonterminals(), seen)
	if err != nil {
		return err
	}

	tmpl, err := template.New("go").Funcs(template.FuncMap{
		"quote":  goString,
		"lexeme": func(t grammar.TokenDef) string { return goString(t.Regex()) },
	}).Parse(goTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	src, err := format.Source([]byte(buf.String()))
	if err != nil {
		return fmt.Errorf("failed to format generated code: %w", err)
	}

	_, err = w.Write(src)

	return err
}

func constants(prefix string, names []string, seen map[string]string) ([]constant, error) {
	result := make([]constant, 0, len(names))

	for _, name := range names {
		ident := prefix + identifier(name)
		if other, ok := seen[ident]; ok {
			return nil, fmt.Errorf("%w: '%s' and '%s' both become %s", ErrIdentifierCollision, other, name, ident)
		}

		seen[ident] = name
		result = append(result, constant{Ident: ident, Value: name})
	}

	return result, nil
}

// identifier converts "opt_nl" or "NUM" into "OptNl" and "Num".
func identifier(name string) string {
	caser := cases.Title(language.English)

	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for i, part := range parts {
		parts[i] = caser.String(part)
	}

	return strings.Join(parts, "")
}

func packageName(name string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}

	pkg := b.String()
	if pkg == "" || unicode.IsDigit(rune(pkg[0])) {
		return "grammar" + pkg
	}

	return pkg
}

// goString returns a raw string literal unless s contains a backtick.
func goString(s string) string {
	if strings.Contains(s, "`") {
		return strconv.Quote(s)
	}

	return "`" + s + "`"
}

const goTemplate = `// Code generated by snapparse gen; DO NOT EDIT.
{{- if .Source }}
// source: {{ .Source }}
{{- end }}

package {{ .Package }}

import (
	"github.com/shibukawa/snapparse/parser"
	"github.com/shibukawa/snapparse/tokenizer"
)

// Token classes of the {{ .Grammar }} grammar.
const (
{{- range .Tokens }}
	{{ .Ident }} = {{ quote .Value }}
{{- end }}
)

// Nonterminals of the {{ .Grammar }} grammar.
const (
{{- range .Rules }}
	{{ .Ident }} = {{ quote .Value }}
{{- end }}
)

// StartRule is the nonterminal a whole input must match.
const StartRule = {{ quote .Start }}

// Terminals lists the token classes in declaration order.
var Terminals = []string{
{{- range .Terminals }}
	{{ quote . }},
{{- end }}
}

// Patterns is the ordered pattern table as name and space separated elements.
var Patterns = [][2]string{
{{- range .Patterns }}
	{ {{ quote .Name }}, {{ quote .Elems }} },
{{- end }}
}

// NewLexer builds the lexer of the {{ .Grammar }} grammar.
func NewLexer() (*tokenizer.Lexer, error) {
	b := tokenizer.NewBuilder()

	if err := b.AddRules([]tokenizer.RuleDef{
{{- range .Lexical }}
		{Name: {{ quote .Name }}, Pattern: {{ lexeme . }}},
{{- end }}
	}); err != nil {
		return nil, err
	}
{{ if .Ignore }}
	if err := b.IgnoreRules(
{{- range .Ignore }}
		{{ quote . }},
{{- end }}
	); err != nil {
		return nil, err
	}
{{ end }}
	return b.Build(), nil
}

// NewParserBuilder registers every pattern with the reducer returned by
// reduce for its name and elements.
func NewParserBuilder[N parser.Node[N]](reduce func(name, elems string) parser.Reducer[N]) *parser.Builder[N] {
	b := parser.NewBuilder[N](Terminals...)

	for _, p := range Patterns {
		b.Add(p[0], p[1], reduce(p[0], p[1]))
	}

	return b
}
`
