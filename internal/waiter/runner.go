// Package waiter runs observers that repeatedly block until a traffic light
// turns green, the way a queue of vehicles waits at a single light.
package waiter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/finitestate"
	"github.com/atlanticdynamic/trafficlight/internal/phase"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// GreenWaiter blocks until a light is green or ctx ends.
type GreenWaiter interface {
	WaitForGreenContext(ctx context.Context) error
}

// PhaseReader reports the current phase without blocking.
type PhaseReader interface {
	GetCurrentPhase() phase.Phase
}

// Light is everything a Runner needs from a traffic light.
type Light interface {
	GreenWaiter
	PhaseReader
}

type Runner struct {
	id           uuid.UUID
	name         string
	light        Light
	crossingTime time.Duration
	onCross      func(crossings uint64)
	crossings    atomic.Uint64

	logger *slog.Logger
	fsm    finitestate.Machine

	parentCtx context.Context
	stopOnce  sync.Once
	stopCh    chan struct{}
}

// NewRunner creates a waiter for light.
func NewRunner(light Light, opts ...Option) (*Runner, error) {
	if light == nil {
		return nil, errors.New("light is required")
	}

	r := &Runner{
		id:        uuid.Must(uuid.NewV6()),
		light:     light,
		logger:    slog.Default().WithGroup("waiter.Runner"),
		parentCtx: context.Background(),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.name == "" {
		r.name = r.id.String()
	}
	if r.crossingTime < 0 {
		return nil, fmt.Errorf("crossing time must not be negative: %s", r.crossingTime)
	}
	r.logger = r.logger.With("waiter", r.name)

	fsm, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = fsm

	return r, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return fmt.Sprintf("waiter.Runner{name=%s}", r.name)
}

// Crossings returns how many times the waiter has seen green.
func (r *Runner) Crossings() uint64 {
	return r.crossings.Load()
}

// Run implements the supervisor.Runnable interface
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The parent context and Stop both end the run.
	stopParent := context.AfterFunc(r.parentCtx, cancel)
	defer stopParent()
	go func() {
		select {
		case <-r.stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	err := r.loop(runCtx)

	if r.fsm.GetState() != finitestate.StatusStopping {
		if stateErr := r.fsm.Transition(finitestate.StatusStopping); stateErr != nil {
			r.logger.Error("Failed to transition to stopping state", "error", stateErr)
		}
	}
	if stateErr := r.fsm.Transition(finitestate.StatusStopped); stateErr != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", stateErr)
	}
	return err
}

func (r *Runner) loop(ctx context.Context) error {
	for {
		r.logger.Debug("Waiting for green", "phase", r.light.GetCurrentPhase())
		if err := r.light.WaitForGreenContext(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("wait for green failed: %w", err)
		}

		n := r.crossings.Add(1)
		r.logger.Info("Crossing on green", "crossings", n)
		if r.onCross != nil {
			r.onCross(n)
		}

		if r.crossingTime > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(r.crossingTime):
			}
		}
	}
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if r.fsm.GetState() == finitestate.StatusRunning {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// GetState returns the lifecycle state of the waiter.
func (r *Runner) GetState() string {
	return r.fsm.GetState()
}

// GetStateChan returns a channel of lifecycle state changes.
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

func (r *Runner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}
