package tokenizer

import (
	"regexp"
)

// Rule is a named lexical pattern. Ignore rules have an empty name.
// The compiled expression is anchored at the start of the input it is
// matched against, so a rule never matches text further ahead.
type Rule struct {
	name    string
	pattern string
	re      *regexp.Regexp
}

// NewRule compiles pattern into a Rule.
func NewRule(name, pattern string) (Rule, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return Rule{}, InvalidRegexError{Pattern: pattern, Err: err}
	}

	re, err := regexp.Compile(`\A(?:` + pattern + `)`)
	if err != nil {
		return Rule{}, InvalidRegexError{Pattern: pattern, Err: err}
	}

	return Rule{name: name, pattern: pattern, re: re}, nil
}

// MustRule is like NewRule but panics on an invalid pattern.
func MustRule(name, pattern string) Rule {
	r, err := NewRule(name, pattern)
	if err != nil {
		panic(err)
	}

	return r
}

// Name returns the token class produced by the rule.
func (r Rule) Name() string {
	return r.name
}

// Pattern returns the pattern text as written.
func (r Rule) Pattern() string {
	return r.pattern
}

// Match returns the length in bytes of the prefix of input matched by the rule.
// Empty matches are reported as no match.
func (r Rule) Match(input string) (int, bool) {
	if r.re == nil {
		return 0, false
	}

	loc := r.re.FindStringIndex(input)
	if loc == nil || loc[0] != 0 || loc[1] == 0 {
		return 0, false
	}

	return loc[1], true
}
