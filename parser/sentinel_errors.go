package parser

import "errors"

// Sentinel errors - Parser related
var (
	// Grammar authoring errors
	ErrInvalidPatternName = errors.New("invalid pattern name")
	ErrUnknownElem        = errors.New("unknown pattern element")
	ErrNameCollision      = errors.New("nonterminal name collides with terminal name")
	ErrMissingReducer     = errors.New("pattern has no reducer")

	// Input dependent errors
	ErrNotMatching    = errors.New("not matching")
	ErrPatternFunc    = errors.New("pattern function failed")
	ErrTokenRemaining = errors.New("tokens remaining")
	ErrMaxDepth       = errors.New("maximum resolution depth exceeded")
)
