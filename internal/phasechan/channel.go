// Package phasechan provides a single-slot, latest-value channel for phase
// changes.
//
// A Channel holds at most one undelivered phase. Send replaces whatever is
// pending and wakes one blocked receiver; Receive blocks until a value is
// pending and then takes it. A slow receiver may therefore skip intermediate
// phases, and each sent value is delivered to exactly one receiver. This is
// not a queue and not a broadcast.
package phasechan

import (
	"context"
	"log/slog"
	"sync"

	"github.com/atlanticdynamic/trafficlight/internal/phase"
)

type Channel struct {
	mu      sync.Mutex
	cond    *sync.Cond
	slot    phase.Phase
	pending bool

	logger *slog.Logger
}

// New creates an empty Channel.
func New(opts ...Option) *Channel {
	c := &Channel{
		logger: slog.Default().WithGroup("phasechan.Channel"),
	}
	c.cond = sync.NewCond(&c.mu)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send stores p as the only pending value, dropping any value that has not
// been received yet, and wakes one waiting receiver. Send never blocks on
// receivers.
func (c *Channel) Send(p phase.Phase) {
	c.mu.Lock()
	c.slot = p
	c.pending = true
	c.mu.Unlock()
	c.cond.Signal()

	c.logger.Debug("Phase change queued", "phase", p)
}

// Receive blocks until a value is pending, then removes and returns it.
// There is no timeout; use ReceiveContext for a bounded wait.
func (c *Channel) Receive() phase.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.pending {
		c.cond.Wait()
	}
	return c.take()
}

// ReceiveContext is Receive bounded by ctx. A pending value always wins over
// cancellation, so a value is never dropped by a receiver that gives up.
func (c *Channel) ReceiveContext(ctx context.Context) (phase.Phase, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// Waking every waiter is harmless: each one re-checks its own predicate.
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.pending {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		c.cond.Wait()
	}
	return c.take(), nil
}

// Pending reports whether a value is waiting to be received.
func (c *Channel) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// take empties the slot. The caller must hold c.mu.
func (c *Channel) take() phase.Phase {
	p := c.slot
	c.slot = ""
	c.pending = false
	return p
}
