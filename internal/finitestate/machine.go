package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew      = fsm.StatusNew
	StatusBooting  = fsm.StatusBooting
	StatusRunning  = fsm.StatusRunning
	StatusStopping = fsm.StatusStopping
	StatusStopped  = fsm.StatusStopped
	StatusError    = fsm.StatusError
	StatusUnknown  = fsm.StatusUnknown
)

// TypicalTransitions is the set of lifecycle transitions used by every runnable.
var TypicalTransitions = fsm.TypicalTransitions

// SubscriberOption is a functional option for configuring state channel behavior
type SubscriberOption = fsm.SubscriberOption

// WithSyncTimeout sets a timeout for synchronous broadcast operations
var WithSyncTimeout = fsm.WithSyncTimeout

// Machine is the state machine behind both halves of a light: New builds the
// lifecycle machine (new, booting, running, stopping, stopped, error) that
// the supervisor observes, and NewPhase builds the red/green machine that
// only the cycle goroutine moves. Waiter runners use the lifecycle kind too.
type Machine interface {
	// Transition attempts to transition the state machine to the specified state.
	Transition(state string) error

	// TransitionBool attempts to transition the state machine to the specified state.
	TransitionBool(state string) bool

	// TransitionIfCurrentState attempts to transition the state machine to the specified state
	TransitionIfCurrentState(currentState, newState string) error

	// SetState sets the state of the state machine to the specified state.
	SetState(state string) error

	// GetState returns the current state of the state machine.
	GetState() string

	// GetStateChan returns a channel that emits the state machine's state whenever it changes.
	// The channel is closed when the provided context is canceled.
	GetStateChan(ctx context.Context) <-chan string

	// GetStateChanWithOptions returns a channel with custom configuration options.
	// The channel is closed when the provided context is canceled.
	GetStateChanWithOptions(ctx context.Context, opts ...SubscriberOption) <-chan string
}

// SyncFSM wraps fsm.Machine so state subscribers, such as the supervisor's
// state monitor, see every lifecycle step even during shutdown.
type SyncFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with 5-second timeout to ensure state updates are delivered during shutdown
func (m *SyncFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, WithSyncTimeout(5*time.Second))
}

// New creates a lifecycle state machine using the typical transitions.
func New(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, StatusNew, TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &SyncFSM{Machine: machine}, nil
}
