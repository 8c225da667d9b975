// Package errz provides shared error definitions for the config package.
package errz

import "errors"

// Top-level error categories
var (
	ErrFailedToLoadConfig     = errors.New("failed to load config")
	ErrFailedToValidateConfig = errors.New("failed to validate config")
	ErrUnsupportedConfigVer   = errors.New("unsupported config version")
	ErrUnsupportedFormat      = errors.New("unsupported config format")
)

// Validation specific errors
var (
	ErrInvalidValue      = errors.New("invalid value")
	ErrInvalidDwellRange = errors.New("invalid dwell range")
	ErrInvalidLogLevel   = errors.New("invalid log level")
	ErrInvalidLogFormat  = errors.New("invalid log format")
)
