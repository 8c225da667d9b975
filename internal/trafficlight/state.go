package trafficlight

import (
	"context"

	"github.com/atlanticdynamic/trafficlight/internal/finitestate"
)

// GetState returns the lifecycle state of the cycle loop.
func (l *Light) GetState() string {
	return l.fsm.GetState()
}

// GetStateChan returns a channel of lifecycle state changes, closed when ctx ends.
func (l *Light) GetStateChan(ctx context.Context) <-chan string {
	return l.fsm.GetStateChan(ctx)
}

func (l *Light) IsRunning() bool {
	return l.fsm.GetState() == finitestate.StatusRunning
}
