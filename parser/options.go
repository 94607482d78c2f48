package parser

// Start is the nonterminal resolved by Parser.Parse.
const Start = "program"

// TraceFunc receives resolution events when tracing is enabled.
type TraceFunc func(format string, args ...any)

// Options controls optional parser behaviors.
type Options struct {
	// Trace, when non-nil, is called for every alternative tried, matched or rejected.
	Trace TraceFunc

	// MaxDepth limits nesting of nonterminal resolution. Zero means unlimited.
	// Left recursive grammars never terminate without it.
	MaxDepth int
}

// Option is a function that configures Options
type Option func(*Options)

// WithTrace sets the trace callback.
func WithTrace(trace TraceFunc) Option {
	return func(o *Options) {
		o.Trace = trace
	}
}

// WithMaxDepth sets the maximum resolution depth.
func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}
