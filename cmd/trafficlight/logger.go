package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/atlanticdynamic/trafficlight/internal/config"
	"github.com/atlanticdynamic/trafficlight/internal/logging"
)

// setupLogger installs the default logger described by the logging section.
// The returned closer releases a log file, if one was opened.
func setupLogger(lc config.LoggingConfig) (io.Closer, error) {
	out, err := logging.OpenOutput(lc.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output: %w", err)
	}
	handler := logging.SetupHandler(lc.Level.String(), lc.Format.String(), out)
	slog.SetDefault(slog.New(handler))
	return out, nil
}
