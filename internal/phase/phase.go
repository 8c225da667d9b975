// Package phase defines the two phases of a traffic light.
package phase

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPhase is returned when a string does not name a known phase.
var ErrInvalidPhase = errors.New("invalid phase")

// Phase is one of the two traffic light states. The string values double as
// the state names of the phase state machine.
type Phase string

const (
	Red   Phase = "red"
	Green Phase = "green"
)

// All lists every phase, in cycle order starting from the initial phase.
var All = []Phase{Red, Green}

func (p Phase) String() string {
	return string(p)
}

// Valid reports whether p is Red or Green.
func (p Phase) Valid() bool {
	return p == Red || p == Green
}

// Next returns the phase that follows p. Anything that is not Green is
// treated as Red, so the result is always a valid phase.
func (p Phase) Next() Phase {
	if p == Green {
		return Red
	}
	return Green
}

// Parse converts a case-insensitive phase name into a Phase.
func Parse(s string) (Phase, error) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhase, s)
	}
	return p, nil
}

// Change records a single flip of the light.
type Change struct {
	From  Phase
	To    Phase
	At    time.Time
	Dwell time.Duration // how long From was held
}

func (c Change) String() string {
	return fmt.Sprintf("%s -> %s after %s", c.From, c.To, c.Dwell.Round(time.Millisecond))
}
