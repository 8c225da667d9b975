// Package config holds the TOML configuration for the traffic light and its
// waiters.
package config

import (
	"fmt"
	"time"
)

const (
	VersionLatest  = "v1"
	VersionUnknown = "unknown"
)

// Defaults match the classic 4-6 second cycle polled every millisecond.
const (
	DefaultDwellMin     = 4 * time.Second
	DefaultDwellMax     = 6 * time.Second
	DefaultPollInterval = time.Millisecond
	DefaultWaiterCount  = 1
	DefaultCrossingTime = 500 * time.Millisecond
)

// Config is the root of the configuration file.
type Config struct {
	Version string        `toml:"version"`
	Logging LoggingConfig `toml:"logging"`
	Light   LightConfig   `toml:"light"`
	Waiters WaitersConfig `toml:"waiters"`
}

// LightConfig controls the phase cycle of the light.
type LightConfig struct {
	DwellMin     Duration `toml:"dwell_min"`
	DwellMax     Duration `toml:"dwell_max"`
	PollInterval Duration `toml:"poll_interval"`
}

// WaitersConfig controls the observers blocking on green.
type WaitersConfig struct {
	Count        int      `toml:"count"`
	CrossingTime Duration `toml:"crossing_time"`
}

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		Version: VersionLatest,
		Logging: LoggingConfig{
			Format: LogFormatText,
			Level:  LogLevelInfo,
			Output: "stderr",
		},
		Light: LightConfig{
			DwellMin:     Duration(DefaultDwellMin),
			DwellMax:     Duration(DefaultDwellMax),
			PollInterval: Duration(DefaultPollInterval),
		},
		Waiters: WaitersConfig{
			Count:        DefaultWaiterCount,
			CrossingTime: Duration(DefaultCrossingTime),
		},
	}
}

// NewConfig loads configuration from a TOML file
func NewConfig(filePath string) (*Config, error) {
	cfg, err := NewConfigFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return cfg, nil
}

// NewConfigFromBytes loads configuration from TOML bytes
func NewConfigFromBytes(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from bytes: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	return cfg, nil
}

// Equals reports whether two configs hold the same values.
func (c *Config) Equals(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}
	return *c == *other
}
