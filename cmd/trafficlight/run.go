package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/atlanticdynamic/trafficlight/internal/config"
	"github.com/atlanticdynamic/trafficlight/internal/fancy"
	"github.com/atlanticdynamic/trafficlight/internal/phase"
	"github.com/atlanticdynamic/trafficlight/internal/trafficlight"
	"github.com/atlanticdynamic/trafficlight/internal/waiter"
	"github.com/robbyt/go-supervisor/supervisor"
	"github.com/urfave/cli/v3"
)

func newRunCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the traffic light until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to TOML configuration file",
				Aliases: []string{"c"},
				Sources: cli.EnvVars("TRAFFICLIGHT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("TRAFFICLIGHT_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (text, json)",
			},
			&cli.StringFlag{
				Name:  "log-output",
				Usage: "Log destination (stderr, stdout, or a file path)",
			},
			&cli.IntFlag{
				Name:    "waiters",
				Usage:   "Number of observers waiting for green",
				Aliases: []string{"w"},
			},
			&cli.DurationFlag{
				Name:    "duration",
				Usage:   "Stop after this long (0 runs until interrupted)",
				Aliases: []string{"d"},
			},
			&cli.BoolFlag{
				Name:  "history",
				Usage: "Print the phase history on shutdown",
			},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logCloser, err := setupLogger(cfg.Logging)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer func() { _ = logCloser.Close() }()

	if d := cmd.Duration("duration"); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	opts := runOptions{
		configPath:  cmd.String("config"),
		showHistory: cmd.Bool("history"),
		out:         cmd.Root().Writer,
	}
	if err := runLight(ctx, slog.Default(), cfg, opts); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

// loadRunConfig reads the config file, if any, and lets explicitly set flags
// override it.
func loadRunConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()
	if path := cmd.String("config"); path != "" {
		loaded, err := config.NewConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("log-level") {
		if err := cfg.Logging.Level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return nil, err
		}
	}
	if cmd.IsSet("log-format") {
		if err := cfg.Logging.Format.UnmarshalText([]byte(cmd.String("log-format"))); err != nil {
			return nil, err
		}
	}
	if cmd.IsSet("log-output") {
		cfg.Logging.Output = cmd.String("log-output")
	}
	if cmd.IsSet("waiters") {
		cfg.Waiters.Count = cmd.Int("waiters")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}
	return cfg, nil
}

type runOptions struct {
	configPath  string
	showHistory bool
	out         io.Writer
}

// runLight supervises one light and its waiters until ctx ends or a
// termination signal arrives.
func runLight(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts runOptions) error {
	logHandler := logger.Handler()

	light, err := trafficlight.New(
		trafficlight.WithLogger(logger.WithGroup("light")),
		trafficlight.WithContext(ctx),
		trafficlight.WithConfig(cfg),
		trafficlight.WithConfigCallback(reloadConfig(logger, opts.configPath)),
		trafficlight.WithOnPhaseChange(func(c phase.Change) {
			logger.Debug("Light is now " + fancy.PhaseBadge(c.To))
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create traffic light: %w", err)
	}

	// Order matters: the light stops last so waiters never block on a dead light.
	runnables := []supervisor.Runnable{light}
	for i := range cfg.Waiters.Count {
		w, err := waiter.NewRunner(light,
			waiter.WithName(fmt.Sprintf("waiter-%d", i+1)),
			waiter.WithLogger(logger.WithGroup("waiter")),
			waiter.WithCrossingTime(cfg.Waiters.CrossingTime.AsDuration()),
			waiter.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("failed to create waiter: %w", err)
		}
		runnables = append(runnables, w)
	}

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(logHandler),
		supervisor.WithRunnables(runnables...),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	started := time.Now()
	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run traffic light: %w", err)
	}
	logger.Info("Traffic light shutdown complete", "uptime", time.Since(started).Round(time.Millisecond))

	if opts.showHistory && opts.out != nil {
		fmt.Fprintln(opts.out, fancy.HistoryTree("Phase History", light.History()))
	}
	return nil
}

// reloadConfig returns the callback used on SIGHUP. Without a config file
// there is nothing to reload.
func reloadConfig(logger *slog.Logger, path string) func() *config.Config {
	return func() *config.Config {
		if path == "" {
			return nil
		}
		cfg, err := config.NewConfig(path)
		if err != nil {
			logger.Error("Failed to reload config", "path", path, "error", err)
			return nil
		}
		return cfg
	}
}
