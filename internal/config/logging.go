package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atlanticdynamic/trafficlight/internal/config/errz"
)

// LoggingConfig contains logging-related configuration options
type LoggingConfig struct {
	Format LogFormat `toml:"format"`
	Level  LogLevel  `toml:"level"`
	Output string    `toml:"output" env_interpolation:"yes"` // stderr, stdout or a file path
}

// LogFormat represents the logging output format
type LogFormat string

// LogLevel represents the logging verbosity level
type LogLevel string

// Constants for LogFormat
const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Constants for LogLevel
const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// String returns the string representation of LogFormat
func (f LogFormat) String() string {
	return string(f)
}

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	return string(l)
}

// IsValid checks if the LogFormat is valid
func (f LogFormat) IsValid() bool {
	switch f {
	case LogFormatText, LogFormatJSON:
		return true
	default:
		return false
	}
}

// IsValid checks if the LogLevel is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// UnmarshalText normalizes the case of the level, accepting "warning" as "warn".
func (l *LogLevel) UnmarshalText(text []byte) error {
	s := LogLevel(strings.ToLower(strings.TrimSpace(string(text))))
	if s == "warning" {
		s = LogLevelWarn
	}
	*l = s
	return nil
}

// UnmarshalText normalizes the case of the format.
func (f *LogFormat) UnmarshalText(text []byte) error {
	*f = LogFormat(strings.ToLower(strings.TrimSpace(string(text))))
	return nil
}

// Validate checks the logging section.
func (lc LoggingConfig) Validate() error {
	var errs []error
	if !lc.Level.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrInvalidLogLevel, lc.Level))
	}
	if !lc.Format.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %q", errz.ErrInvalidLogFormat, lc.Format))
	}
	return errors.Join(errs...)
}
