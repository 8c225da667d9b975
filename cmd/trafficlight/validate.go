package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/atlanticdynamic/trafficlight/internal/config"
	"github.com/urfave/cli/v3"
)

func newValidateCmd() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"lint"},
		Usage:   "Validate a configuration file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "tree",
				Aliases: []string{"t"},
				Usage:   "Show detailed tree view of the validated configuration",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
			},
		},
		Suggest: true,
		Action:  validateAction,
	}
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		if cmd.Args().Len() < 1 {
			return fmt.Errorf(
				"config file path required (use the --config flag, or provide the config file as positional argument)",
			)
		}
		configPath = cmd.Args().Get(0)
	}

	return validateFile(cmd.Root().Writer, configPath, cmd.Bool("tree"))
}

func validateFile(w io.Writer, configPath string, treeView bool) error {
	cfg, err := config.NewConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fmt.Fprintf(w, "Configuration file %s is valid\n", configPath)

	if treeView {
		fmt.Fprintln(w, cfg)
		return nil
	}

	fmt.Fprintln(w, renderConfigSummary(configPath, cfg))
	return nil
}

// renderConfigSummary creates a formatted summary string for the configuration
func renderConfigSummary(path string, cfg *config.Config) string {
	var summary strings.Builder

	summary.WriteString("\nConfig Summary:\n")
	fmt.Fprintf(&summary, "- Path: %s\n", path)
	fmt.Fprintf(&summary, "- Version: %s\n", cfg.Version)
	fmt.Fprintf(&summary, "- Dwell: %s to %s\n", cfg.Light.DwellMin, cfg.Light.DwellMax)
	fmt.Fprintf(&summary, "- Poll Interval: %s\n", cfg.Light.PollInterval)
	fmt.Fprintf(&summary, "- Waiters: %d\n", cfg.Waiters.Count)
	summary.WriteString("\nUse --tree for a more detailed view of the config.")

	return summary.String()
}
