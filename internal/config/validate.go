package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/config/errz"
)

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = VersionUnknown
	}

	switch c.Version {
	case VersionLatest:
		// Supported version
	default:
		return fmt.Errorf("%w: %s", errz.ErrUnsupportedConfigVer, c.Version)
	}

	var errs []error
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Light.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Waiters.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks that the dwell range is usable and that polling is finer
// than the shortest dwell.
func (lc LightConfig) Validate() error {
	var errs []error

	if lc.DwellMin <= 0 {
		errs = append(errs, fmt.Errorf("%w: dwell_min must be positive, got %s", errz.ErrInvalidDwellRange, lc.DwellMin))
	}
	if lc.DwellMax < lc.DwellMin {
		errs = append(errs, fmt.Errorf(
			"%w: dwell_max %s is below dwell_min %s", errz.ErrInvalidDwellRange, lc.DwellMax, lc.DwellMin))
	}
	if lc.DwellMin > 0 && lc.DwellMin.AsDuration()%time.Millisecond != 0 {
		errs = append(errs, fmt.Errorf(
			"%w: dwell_min %s must be a whole number of milliseconds", errz.ErrInvalidDwellRange, lc.DwellMin))
	}
	if lc.DwellMax > 0 && lc.DwellMax.AsDuration()%time.Millisecond != 0 {
		errs = append(errs, fmt.Errorf(
			"%w: dwell_max %s must be a whole number of milliseconds", errz.ErrInvalidDwellRange, lc.DwellMax))
	}

	switch {
	case lc.PollInterval <= 0:
		errs = append(errs, fmt.Errorf("%w: poll_interval must be positive, got %s", errz.ErrInvalidValue, lc.PollInterval))
	case lc.DwellMin > 0 && lc.PollInterval > lc.DwellMin:
		errs = append(errs, fmt.Errorf(
			"%w: poll_interval %s exceeds dwell_min %s", errz.ErrInvalidValue, lc.PollInterval, lc.DwellMin))
	}

	return errors.Join(errs...)
}

// Validate checks the waiters section.
func (wc WaitersConfig) Validate() error {
	var errs []error
	if wc.Count < 0 {
		errs = append(errs, fmt.Errorf("%w: waiter count must not be negative, got %d", errz.ErrInvalidValue, wc.Count))
	}
	if wc.CrossingTime < 0 {
		errs = append(errs, fmt.Errorf(
			"%w: crossing_time must not be negative, got %s", errz.ErrInvalidValue, wc.CrossingTime))
	}
	return errors.Join(errs...)
}
