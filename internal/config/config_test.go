package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/config/errz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/valid.toml
var validTOML []byte

//go:embed testdata/partial.toml
var partialTOML []byte

//go:embed testdata/invalid_range.toml
var invalidRangeTOML []byte

//go:embed testdata/unknown_key.toml
var unknownKeyTOML []byte

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, VersionLatest, cfg.Version)
	assert.Equal(t, 4*time.Second, cfg.Light.DwellMin.AsDuration())
	assert.Equal(t, 6*time.Second, cfg.Light.DwellMax.AsDuration())
	assert.Equal(t, time.Millisecond, cfg.Light.PollInterval.AsDuration())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestNewConfigFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		cfg, err := NewConfigFromBytes(validTOML)
		require.NoError(t, err)

		assert.Equal(t, "v1", cfg.Version)
		assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
		assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
		assert.Equal(t, "stdout", cfg.Logging.Output)
		assert.Equal(t, 4*time.Second, cfg.Light.DwellMin.AsDuration())
		assert.Equal(t, 6*time.Second, cfg.Light.DwellMax.AsDuration())
		assert.Equal(t, 3, cfg.Waiters.Count)
		assert.Equal(t, 250*time.Millisecond, cfg.Waiters.CrossingTime.AsDuration())
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		cfg, err := NewConfigFromBytes(partialTOML)
		require.NoError(t, err)

		assert.Equal(t, VersionLatest, cfg.Version)
		assert.Equal(t, 40*time.Millisecond, cfg.Light.DwellMin.AsDuration())
		assert.Equal(t, 60*time.Millisecond, cfg.Light.DwellMax.AsDuration())
		assert.Equal(t, time.Millisecond, cfg.Light.PollInterval.AsDuration())
		assert.Equal(t, DefaultWaiterCount, cfg.Waiters.Count)
		assert.Equal(t, "stderr", cfg.Logging.Output)
	})

	t.Run("invalid dwell range", func(t *testing.T) {
		_, err := NewConfigFromBytes(invalidRangeTOML)
		require.Error(t, err)
		require.ErrorIs(t, err, errz.ErrInvalidDwellRange)
		require.ErrorIs(t, err, errz.ErrInvalidValue)
		assert.Contains(t, err.Error(), "dwell_max 4s is below dwell_min 6s")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := NewConfigFromBytes(unknownKeyTOML)
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
		assert.Contains(t, err.Error(), "dwell_minimum")
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := NewConfigFromBytes(nil)
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
	})

	t.Run("malformed duration", func(t *testing.T) {
		_, err := NewConfigFromBytes([]byte("[light]\ndwell_min = \"soon\"\n"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := NewConfigFromBytes([]byte(`version = "v2"`))
		require.ErrorIs(t, err, errz.ErrUnsupportedConfigVer)
	})
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	t.Run("reads file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "light.toml")
		require.NoError(t, os.WriteFile(path, validTOML, 0o644))

		cfg, err := NewConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Waiters.Count)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewConfig(filepath.Join(t.TempDir(), "missing.toml"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "light.yaml")
		require.NoError(t, os.WriteFile(path, validTOML, 0o644))

		_, err := NewConfig(path)
		require.ErrorIs(t, err, errz.ErrUnsupportedFormat)
	})
}

func TestNewConfigFromReader(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfigFromReader(strings.NewReader(string(validTOML)))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "equal bounds are valid",
			mutate: func(c *Config) { c.Light.DwellMax = c.Light.DwellMin },
		},
		{
			name:    "empty version",
			mutate:  func(c *Config) { c.Version = "" },
			wantErr: errz.ErrUnsupportedConfigVer,
		},
		{
			name:    "zero dwell",
			mutate:  func(c *Config) { c.Light.DwellMin = 0 },
			wantErr: errz.ErrInvalidDwellRange,
		},
		{
			name:    "sub-millisecond dwell",
			mutate:  func(c *Config) { c.Light.DwellMax = Duration(6*time.Second + time.Microsecond) },
			wantErr: errz.ErrInvalidDwellRange,
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Light.PollInterval = 0 },
			wantErr: errz.ErrInvalidValue,
		},
		{
			name:    "negative waiters",
			mutate:  func(c *Config) { c.Waiters.Count = -1 },
			wantErr: errz.ErrInvalidValue,
		},
		{
			name:    "negative crossing time",
			mutate:  func(c *Config) { c.Waiters.CrossingTime = Duration(-time.Second) },
			wantErr: errz.ErrInvalidValue,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: errz.ErrInvalidLogLevel,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: errz.ErrInvalidLogFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogLevel_UnmarshalText(t *testing.T) {
	t.Parallel()

	var l LogLevel
	require.NoError(t, l.UnmarshalText([]byte(" WARNING ")))
	assert.Equal(t, LogLevelWarn, l)

	require.NoError(t, l.UnmarshalText([]byte("Trace")))
	assert.Equal(t, LogLevelTrace, l)
}

func TestDuration_Text(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1500ms")))
	assert.Equal(t, 1500*time.Millisecond, d.AsDuration())
	assert.Equal(t, int64(1500), d.Milliseconds())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1.5s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("forever")))
}

func TestConfig_Equals(t *testing.T) {
	t.Parallel()

	a := Default()
	b := Default()
	assert.True(t, a.Equals(b))

	b.Light.DwellMax = Duration(7 * time.Second)
	assert.False(t, a.Equals(b))

	var nilCfg *Config
	assert.False(t, a.Equals(nilCfg))
	assert.True(t, nilCfg.Equals(nil))
}

func TestConfig_String(t *testing.T) {
	t.Parallel()

	out := Default().String()
	assert.Contains(t, out, "Traffic Light Config (v1)")
	assert.Contains(t, out, "Dwell Min: 4s")
	assert.Contains(t, out, "Dwell Max: 6s")
	assert.Contains(t, out, "Poll Interval: 1ms")
	assert.Contains(t, out, "Count: 1")
}

func TestNewConfigFromBytes_OutputInterpolation(t *testing.T) {
	t.Run("expands environment reference", func(t *testing.T) {
		t.Setenv("TL_LOG_DIR", "/var/log/tl")
		cfg, err := NewConfigFromBytes([]byte("[logging]\noutput = \"${TL_LOG_DIR}/light.log\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "/var/log/tl/light.log", cfg.Logging.Output)
	})

	t.Run("falls back to default", func(t *testing.T) {
		cfg, err := NewConfigFromBytes([]byte("[logging]\noutput = \"${TL_UNSET_LOG_OUTPUT:stdout}\"\n"))
		require.NoError(t, err)
		assert.Equal(t, "stdout", cfg.Logging.Output)
	})

	t.Run("missing variable fails to load", func(t *testing.T) {
		_, err := NewConfigFromBytes([]byte("[logging]\noutput = \"${TL_UNSET_LOG_OUTPUT}\"\n"))
		require.ErrorIs(t, err, errz.ErrFailedToLoadConfig)
	})
}
