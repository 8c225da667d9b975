package phasechan

import "log/slog"

type Option func(*Channel)

// WithLogger sets a custom logger for the Channel instance.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) {
		c.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Channel instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Channel) {
		c.logger = slog.New(handler)
	}
}
