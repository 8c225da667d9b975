package trafficlight

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// DwellRange is the closed interval a phase is held for, drawn uniformly in
// whole milliseconds.
type DwellRange struct {
	Min time.Duration
	Max time.Duration
}

// DefaultDwellRange is 4 to 6 seconds.
var DefaultDwellRange = DwellRange{Min: 4 * time.Second, Max: 6 * time.Second}

func (r DwellRange) String() string {
	return fmt.Sprintf("[%s, %s]", r.Min, r.Max)
}

// Validate rejects empty or inverted ranges, and bounds that are not whole
// milliseconds.
func (r DwellRange) Validate() error {
	if r.Min%time.Millisecond != 0 || r.Max%time.Millisecond != 0 {
		return fmt.Errorf("%w: bounds %s must be whole milliseconds", ErrInvalidDwellRange, r)
	}
	if r.Min.Milliseconds() <= 0 {
		return fmt.Errorf("%w: minimum %s is below 1ms", ErrInvalidDwellRange, r.Min)
	}
	if r.Max.Milliseconds() < r.Min.Milliseconds() {
		return fmt.Errorf("%w: maximum %s is below minimum %s", ErrInvalidDwellRange, r.Max, r.Min)
	}
	return nil
}

// Draw picks a dwell uniformly from the range, both ends included.
func (r DwellRange) Draw(rng *rand.Rand) time.Duration {
	minMs := r.Min.Milliseconds()
	span := r.Max.Milliseconds() - minMs + 1
	return time.Duration(minMs+rng.Int64N(span)) * time.Millisecond
}

// Contains reports whether d lies within the range.
func (r DwellRange) Contains(d time.Duration) bool {
	return d >= r.Min && d <= r.Max
}
