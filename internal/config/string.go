package config

import (
	"fmt"

	"github.com/atlanticdynamic/trafficlight/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Traffic Light Config (%s)", cfg.Version)))

	loggingTree := t.Child(fancy.BranchNode("Logging", ""))
	loggingTree.Child(fmt.Sprintf("Format: %s", cfg.Logging.Format))
	loggingTree.Child(fmt.Sprintf("Level: %s", cfg.Logging.Level))
	loggingTree.Child(fmt.Sprintf("Output: %s", cfg.Logging.Output))

	lightTree := t.Child(fancy.BranchNode("Light", fmt.Sprintf("dwell %s-%s", cfg.Light.DwellMin, cfg.Light.DwellMax)))
	lightTree.Child(fmt.Sprintf("Dwell Min: %s", cfg.Light.DwellMin))
	lightTree.Child(fmt.Sprintf("Dwell Max: %s", cfg.Light.DwellMax))
	lightTree.Child(fmt.Sprintf("Poll Interval: %s", cfg.Light.PollInterval))

	waitersTree := t.Child(fancy.BranchNode("Waiters", fmt.Sprintf("(%d)", cfg.Waiters.Count)))
	waitersTree.Child(fmt.Sprintf("Count: %d", cfg.Waiters.Count))
	waitersTree.Child(fmt.Sprintf("Crossing Time: %s", cfg.Waiters.CrossingTime))

	return t.String()
}
