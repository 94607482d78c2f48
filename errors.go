package snapparse

import "errors"

// Errors reported by the command line front end
var (
	// ErrNoGrammar is returned when neither a flag nor the configuration names a grammar.
	ErrNoGrammar = errors.New("no grammar configured")
	// ErrCheckFailed indicates that at least one grammar failed to compile.
	ErrCheckFailed = errors.New("grammar check failed")
)
