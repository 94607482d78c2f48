package grammar

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shibukawa/snapparse/parser"
)

// TokenDef declares one lexical rule. Exactly one of Pattern (a regular
// expression) or Literal (matched verbatim) is set.
type TokenDef struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Literal string `yaml:"literal,omitempty" json:"literal,omitempty"`
}

// Regex returns the regular expression the rule is built from.
func (t TokenDef) Regex() string {
	if t.Pattern != "" {
		return t.Pattern
	}

	return regexp.QuoteMeta(t.Literal)
}

// PatternDef declares one alternative of a nonterminal. Elems is a space
// separated symbol list and Reduce an optional CEL expression.
type PatternDef struct {
	Name   string `yaml:"name" json:"name"`
	Elems  string `yaml:"elems" json:"elems"`
	Reduce string `yaml:"reduce,omitempty" json:"reduce,omitempty"`
}

// Definition is a declarative grammar: ordered token rules, ignore rules and
// ordered patterns.
type Definition struct {
	Name     string       `yaml:"name" json:"name"`
	Start    string       `yaml:"start,omitempty" json:"start,omitempty"`
	Tokens   []TokenDef   `yaml:"tokens" json:"tokens"`
	Ignore   []string     `yaml:"ignore,omitempty" json:"ignore,omitempty"`
	Patterns []PatternDef `yaml:"patterns" json:"patterns"`
}

func (d *Definition) applyDefaults() {
	if d.Start == "" {
		d.Start = parser.Start
	}
}

// Validate checks the definition for authoring errors that do not need
// regular expression compilation.
func (d *Definition) Validate() error {
	var errs []error

	for i, t := range d.Tokens {
		switch {
		case t.Name == "":
			errs = append(errs, fmt.Errorf("%w: tokens[%d]", ErrMissingTokenName, i))
		case t.Pattern == "" && t.Literal == "":
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingPattern, t.Name))
		case t.Pattern != "" && t.Literal != "":
			errs = append(errs, fmt.Errorf("%w: %s has both pattern and literal", ErrDuplicateDecl, t.Name))
		}
	}

	for i, pattern := range d.Ignore {
		if pattern == "" {
			errs = append(errs, fmt.Errorf("%w: ignore[%d]", ErrMissingPattern, i))
		}
	}

	if len(d.Patterns) == 0 {
		errs = append(errs, ErrEmptyGrammar)
	}

	for i, p := range d.Patterns {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%w: patterns[%d] has no name", parser.ErrInvalidPatternName, i))
		}
	}

	return errors.Join(errs...)
}

// Terminals returns the distinct token names in declaration order.
func (d *Definition) Terminals() []string {
	return distinct(len(d.Tokens), func(yield func(string)) {
		for _, t := range d.Tokens {
			yield(t.Name)
		}
	})
}

// Nonterminals returns the distinct pattern names in declaration order.
func (d *Definition) Nonterminals() []string {
	return distinct(len(d.Patterns), func(yield func(string)) {
		for _, p := range d.Patterns {
			yield(p.Name)
		}
	})
}

func distinct(size int, each func(yield func(string))) []string {
	seen := make(map[string]struct{}, size)
	names := make([]string, 0, size)

	each(func(name string) {
		if _, ok := seen[name]; ok {
			return
		}

		seen[name] = struct{}{}
		names = append(names, name)
	})

	return names
}
