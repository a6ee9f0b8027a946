package kvfifo

import "log/slog"

type options struct {
	logger   *slog.Logger
	capacity int
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.DiscardHandler),
	}
}

// Option configures a Queue. Clones inherit the options of their source.
type Option func(*options)

// WithLogger sets the logger receiving debug records about detaches and
// staged commits.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCapacity preallocates room for n entries in new storage.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
