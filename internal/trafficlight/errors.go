package trafficlight

import "errors"

var (
	// ErrAlreadyStarted is returned by Run, and is the panic value of
	// Simulate, when the light's cycle loop was already started once.
	ErrAlreadyStarted = errors.New("traffic light already started")

	ErrInvalidDwellRange   = errors.New("invalid dwell range")
	ErrInvalidPollInterval = errors.New("invalid poll interval")
	ErrInvalidHistoryLimit = errors.New("invalid history limit")
)
