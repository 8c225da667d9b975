package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atlanticdynamic/trafficlight/internal/config/errz"
	"github.com/atlanticdynamic/trafficlight/internal/interpolation"
	"github.com/pelletier/go-toml/v2"
)

// NewConfigFromFile decodes a TOML file without validating it.
func NewConfigFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: config file does not exist: %s", errz.ErrFailedToLoadConfig, filePath)
	}

	if ext := filepath.Ext(filePath); ext != ".toml" {
		return nil, fmt.Errorf("%w: %s, only .toml is supported", errz.ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", errz.ErrFailedToLoadConfig, err)
	}

	return decode(data)
}

// NewConfigFromReader decodes TOML data from an io.Reader without validating it.
func NewConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read from reader: %w", errz.ErrFailedToLoadConfig, err)
	}
	return decode(data)
}

// decode overlays the TOML document on top of Default, so omitted keys keep
// their default values. Unknown keys are rejected.
func decode(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no source data provided", errz.ErrFailedToLoadConfig)
	}

	cfg := Default()
	cfg.Version = ""

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return nil, fmt.Errorf("%w: unknown keys:\n%s", errz.ErrFailedToLoadConfig, strictErr.String())
		}
		return nil, fmt.Errorf("%w: failed to parse TOML config: %w", errz.ErrFailedToLoadConfig, err)
	}

	if cfg.Version == "" {
		cfg.Version = VersionLatest
	}

	if err := interpolation.InterpolateStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errz.ErrFailedToLoadConfig, err)
	}
	return cfg, nil
}
