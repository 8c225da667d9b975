package config

import (
	"fmt"
	"time"
)

// Duration wraps time.Duration so it can be written as "4s" or "1ms" in TOML.
type Duration time.Duration

// String returns the string representation of Duration
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Milliseconds returns the duration as milliseconds
func (d Duration) Milliseconds() int64 {
	return time.Duration(d).Milliseconds()
}

// AsDuration converts a config.Duration to a time.Duration
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDuration parses a duration string and returns a config.Duration
func ParseDuration(s string) (Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return Duration(d), nil
}
