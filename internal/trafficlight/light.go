// Package trafficlight drives a single traffic light through its red/green
// cycle and lets any number of observers block until it turns green.
package trafficlight

import (
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/config"
	"github.com/atlanticdynamic/trafficlight/internal/finitestate"
	"github.com/atlanticdynamic/trafficlight/internal/phase"
	"github.com/atlanticdynamic/trafficlight/internal/phasechan"
	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"
	"github.com/robbyt/go-supervisor/supervisor"
)

var (
	_ supervisor.Runnable   = (*Light)(nil)
	_ supervisor.Reloadable = (*Light)(nil)
	_ supervisor.Stateable  = (*Light)(nil)
)

const (
	// DefaultPollInterval is the sleep quantum of the cycle loop.
	DefaultPollInterval = time.Millisecond

	// DefaultHistoryLimit caps the phase changes kept for History.
	DefaultHistoryLimit = 1000
)

// Light is a traffic light that alternates between red and green on a
// randomized dwell. The cycle loop runs in exactly one goroutine, started by
// either Simulate or Run, and Stop waits for that goroutine to exit.
type Light struct {
	id      uuid.UUID
	channel *phasechan.Channel

	// phaseFSM is written only by the cycle goroutine; GetCurrentPhase reads
	// it without taking any lock of ours.
	phaseFSM finitestate.Machine
	fsm      finitestate.Machine

	dwell          atomic.Pointer[DwellRange]
	pollInterval   time.Duration
	rng            *rand.Rand
	onChange       func(phase.Change)
	configCallback func() *config.Config

	logger       *slog.Logger
	history      *loglater.LogCollector
	historyLimit int

	parentCtx context.Context
	started   atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	done      chan struct{}
}

// New creates a Light in the red phase. The cycle does not start until
// Simulate or Run is called.
func New(opts ...Option) (*Light, error) {
	l := &Light{
		id:           uuid.Must(uuid.NewV6()),
		pollInterval: DefaultPollInterval,
		logger:       slog.Default().WithGroup("trafficlight.Light"),
		historyLimit: DefaultHistoryLimit,
		parentCtx:    context.Background(),
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
	}
	dwell := DefaultDwellRange
	l.dwell.Store(&dwell)

	for _, opt := range opts {
		opt(l)
	}

	if err := l.dwell.Load().Validate(); err != nil {
		return nil, err
	}
	if l.pollInterval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPollInterval, l.pollInterval)
	}
	if l.historyLimit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHistoryLimit, l.historyLimit)
	}
	l.history = loglater.NewLogCollector(nil, loglater.WithStorage(
		storage.NewRecordStorage(storage.WithMaxSize(l.historyLimit)),
	))
	if l.rng == nil {
		l.rng = newRand()
	}

	l.logger = l.logger.With("id", l.id.String())
	l.channel = phasechan.New(phasechan.WithLogger(l.logger.WithGroup("channel")))

	fsmLogger := l.logger.WithGroup("fsm")
	lifecycle, err := finitestate.New(fsmLogger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	l.fsm = lifecycle

	phaseMachine, err := finitestate.NewPhase(fsmLogger.WithGroup("phase").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create phase state machine: %w", err)
	}
	l.phaseFSM = phaseMachine

	return l, nil
}

// newRand seeds a generator from the OS so two lights never cycle in step.
func newRand() *rand.Rand {
	var seed [32]byte
	_, _ = cryptorand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// String implements the supervisor.Runnable interface
func (l *Light) String() string {
	return fmt.Sprintf("trafficlight.Light{id=%s}", l.id)
}

// ID returns the light's unique identifier.
func (l *Light) ID() uuid.UUID {
	return l.id
}

// GetCurrentPhase returns the phase as of the latest flip. It never blocks and
// may be one flip stale while a flip is in progress.
func (l *Light) GetCurrentPhase() phase.Phase {
	return phase.Phase(l.phaseFSM.GetState())
}

// DwellRange returns the range used for the next dwell draw.
func (l *Light) DwellRange() DwellRange {
	return *l.dwell.Load()
}

// WaitForGreen blocks until a green phase is received from the light's
// channel. Red notifications are consumed and ignored. There is no timeout.
func (l *Light) WaitForGreen() {
	for l.channel.Receive() != phase.Green {
	}
}

// WaitForGreenContext is WaitForGreen bounded by ctx.
func (l *Light) WaitForGreenContext(ctx context.Context) error {
	for {
		p, err := l.channel.ReceiveContext(ctx)
		if err != nil {
			return err
		}
		if p == phase.Green {
			return nil
		}
	}
}

// Simulate starts the cycle loop in a new goroutine bound to the context set
// with WithContext. Starting a light twice is a programming error and panics.
func (l *Light) Simulate() {
	if !l.started.CompareAndSwap(false, true) {
		panic(ErrAlreadyStarted)
	}
	go func() {
		if err := l.run(l.parentCtx); err != nil {
			l.logger.Error("Cycle loop failed", "error", err)
		}
	}()
}

// Run implements the supervisor.Runnable interface. It runs the cycle loop
// in the calling goroutine until ctx is canceled or Stop is called.
func (l *Light) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	return l.run(ctx)
}

func (l *Light) run(ctx context.Context) error {
	defer close(l.done)
	l.logger.Debug("Starting Light")

	if err := l.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}
	if err := l.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	cycleErr := l.cycleThroughPhases(ctx)
	if cycleErr != nil {
		if stateErr := l.fsm.Transition(finitestate.StatusError); stateErr != nil {
			l.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		return cycleErr
	}

	l.logger.Info("Light shutting down", "phase", l.GetCurrentPhase())

	l.beginStopping()
	if err := l.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// Stop implements the supervisor.Runnable interface. It signals the cycle
// loop and blocks until the loop has exited. Calling Stop on a light that
// was never started returns immediately, and that light can no longer start.
func (l *Light) Stop() {
	l.logger.Debug("Stopping Light")
	l.stopOnce.Do(func() {
		l.beginStopping()
		close(l.stopCh)
	})

	if l.started.Load() {
		<-l.done
	}
}

// beginStopping moves Running to Stopping. Stop and the cycle goroutine may
// both call it; only the first one transitions.
func (l *Light) beginStopping() {
	err := l.fsm.TransitionIfCurrentState(finitestate.StatusRunning, finitestate.StatusStopping)
	if err != nil && l.fsm.GetState() == finitestate.StatusRunning {
		l.logger.Error("Failed to transition to stopping state", "error", err)
	}
}

// Reload implements the supervisor.Reloadable interface. The new dwell range
// applies from the next draw. An invalid range is rejected and the current
// one kept.
func (l *Light) Reload(ctx context.Context) error {
	l.logger.Debug("Starting Reload...")
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.configCallback == nil {
		l.logger.Warn("No config callback set, skipping reload")
		return nil
	}

	cfg := l.configCallback()
	if cfg == nil {
		l.logger.Warn("Config callback returned nil, skipping reload")
		return nil
	}

	next := DwellRange{Min: cfg.Light.DwellMin.AsDuration(), Max: cfg.Light.DwellMax.AsDuration()}
	if err := next.Validate(); err != nil {
		l.logger.Error("Rejected reloaded dwell range", "error", err)
		return fmt.Errorf("failed to reload dwell range: %w", err)
	}

	prev := l.dwell.Swap(&next)
	l.logger.Info("Dwell range reloaded", "previous", prev.String(), "current", next.String())
	return nil
}
