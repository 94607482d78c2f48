package tokenizer

import (
	"fmt"
	"slices"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// FromStateful builds a Lexer from one state of a participle stateful rule set.
// Rules keep their order; rules whose name is listed in ignore become ignore
// rules. State transitions (Push, Pop, Include) are not supported.
func FromStateful(rules plexer.Rules, state string, ignore ...string) (*Lexer, error) {
	defs, ok := rules[state]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStateNotFound, state)
	}

	b := NewBuilder()

	for _, def := range defs {
		if def.Action != nil {
			return nil, fmt.Errorf("%w: rule %q in state %q", ErrUnsupportedAction, def.Name, state)
		}

		var err error
		if slices.Contains(ignore, def.Name) {
			err = b.IgnoreRule(def.Pattern)
		} else {
			err = b.AddRule(def.Name, def.Pattern)
		}

		if err != nil {
			return nil, err
		}
	}

	return b.Build(), nil
}
