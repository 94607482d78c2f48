package tokenizer

import (
	"fmt"
	"os"
)

// RuleDef is a (token class name, pattern) pair.
type RuleDef struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
}

// Builder collects rules and validates their patterns before a Lexer is built.
type Builder struct {
	rules       []Rule
	ignoreRules []Rule
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddRule appends a token rule.
func (b *Builder) AddRule(name, pattern string) error {
	if name == "" {
		return fmt.Errorf("%w: pattern '%s'", ErrMissingRuleName, pattern)
	}

	rule, err := NewRule(name, pattern)
	if err != nil {
		return err
	}

	b.rules = append(b.rules, rule)

	return nil
}

// AddRules appends token rules in order and stops at the first invalid one.
func (b *Builder) AddRules(defs []RuleDef) error {
	for _, def := range defs {
		if err := b.AddRule(def.Name, def.Pattern); err != nil {
			return err
		}
	}

	return nil
}

// IgnoreRule appends an ignore rule.
func (b *Builder) IgnoreRule(pattern string) error {
	rule, err := NewRule("", pattern)
	if err != nil {
		return err
	}

	b.ignoreRules = append(b.ignoreRules, rule)

	return nil
}

// IgnoreRules appends ignore rules in order and stops at the first invalid one.
func (b *Builder) IgnoreRules(patterns ...string) error {
	for _, pattern := range patterns {
		if err := b.IgnoreRule(pattern); err != nil {
			return err
		}
	}

	return nil
}

// Build creates a Lexer from the collected rules.
func (b *Builder) Build() *Lexer {
	return NewLexer(b.rules, b.ignoreRules)
}

// LexFile reads path once and returns a stream named after it.
func (l *Lexer) LexFile(path string) (*Stream, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return l.LexNamed(path, string(data)), nil
}
