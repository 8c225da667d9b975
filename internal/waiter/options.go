package waiter

import (
	"context"
	"log/slog"
	"time"
)

type Option func(*Runner)

// WithLogger sets a custom logger for the Runner instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) {
		r.logger = slog.New(handler)
	}
}

// WithName sets a human readable name used in logs and String.
func WithName(name string) Option {
	return func(r *Runner) {
		r.name = name
	}
}

// WithCrossingTime sets how long the waiter is busy after each green before
// it waits again.
func WithCrossingTime(d time.Duration) Option {
	return func(r *Runner) {
		r.crossingTime = d
	}
}

// WithOnCross registers a hook called after every crossing.
func WithOnCross(fn func(crossings uint64)) Option {
	return func(r *Runner) {
		r.onCross = fn
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) {
		r.parentCtx = ctx
	}
}
