package finitestate

import (
	"log/slog"

	"github.com/atlanticdynamic/trafficlight/internal/phase"
	"github.com/robbyt/go-fsm"
)

// Phase state names, shared with the phase package values.
const (
	PhaseRed   = string(phase.Red)
	PhaseGreen = string(phase.Green)
)

// PhaseTransitions only allows a light to alternate. There is no terminal
// state.
var PhaseTransitions = map[string][]string{
	PhaseRed:   {PhaseGreen},
	PhaseGreen: {PhaseRed},
}

// NewPhase creates a phase state machine starting at red.
func NewPhase(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, PhaseRed, PhaseTransitions)
	if err != nil {
		return nil, err
	}
	return &SyncFSM{Machine: machine}, nil
}
