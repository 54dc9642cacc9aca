package outline

import "log/slog"

type options struct {
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*options)

// WithLogger sets the logger used for recoverable parse warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
