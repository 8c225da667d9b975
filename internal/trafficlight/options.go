package trafficlight

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/config"
	"github.com/atlanticdynamic/trafficlight/internal/phase"
)

type Option func(*Light)

// WithLogger sets a custom logger for the Light instance.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Light) {
		l.logger = logger
	}
}

// WithLogHandler sets a custom log handler for the Light instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(l *Light) {
		l.logger = slog.New(handler)
	}
}

// WithContext sets the parent context used by Simulate.
func WithContext(ctx context.Context) Option {
	return func(l *Light) {
		l.parentCtx = ctx
	}
}

// WithDwellRange sets the closed range from which each dwell is drawn. Both
// bounds are truncated to whole milliseconds.
func WithDwellRange(minDwell, maxDwell time.Duration) Option {
	return func(l *Light) {
		l.dwell.Store(&DwellRange{Min: minDwell, Max: maxDwell})
	}
}

// WithPollInterval sets how often the cycle loop checks the elapsed dwell.
func WithPollInterval(d time.Duration) Option {
	return func(l *Light) {
		l.pollInterval = d
	}
}

// WithOnPhaseChange registers a hook invoked from the cycle goroutine after
// every flip has been sent. The hook must not call Stop.
func WithOnPhaseChange(fn func(phase.Change)) Option {
	return func(l *Light) {
		l.onChange = fn
	}
}

// WithConfigCallback sets the source of configuration read on Reload.
func WithConfigCallback(fn func() *config.Config) Option {
	return func(l *Light) {
		l.configCallback = fn
	}
}

// WithHistoryLimit sets how many phase changes History keeps. Older changes
// are dropped first.
func WithHistoryLimit(n int) Option {
	return func(l *Light) {
		l.historyLimit = n
	}
}

// WithRand replaces the per-instance random source.
func WithRand(r *rand.Rand) Option {
	return func(l *Light) {
		l.rng = r
	}
}

// WithConfig applies the light section of a configuration.
func WithConfig(cfg *config.Config) Option {
	return func(l *Light) {
		if cfg == nil {
			return
		}
		WithDwellRange(cfg.Light.DwellMin.AsDuration(), cfg.Light.DwellMax.AsDuration())(l)
		WithPollInterval(cfg.Light.PollInterval.AsDuration())(l)
	}
}
