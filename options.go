package goaml

import (
	"io"
	"log/slog"
)

// DefaultMaxDepth bounds attribute nesting during conversion. Schemas are
// finite documents, so the ceiling only trips on malformed input.
const DefaultMaxDepth = 64

// Option configures a Representation.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	maxDepth int
}

func defaultOptions() options {
	return options{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxDepth: DefaultMaxDepth,
	}
}

// WithLogger sets the logger used for load and conversion diagnostics.
// A nil logger keeps the default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxDepth sets the attribute nesting ceiling. Values <= 0 keep
// DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxDepth = n
		}
	}
}
