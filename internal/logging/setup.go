package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// levelOptions is the parsed form of a log level string. "trace" is debug
// with caller information attached.
type levelOptions struct {
	level           slog.Level
	reportCaller    bool
	reportTimestamp bool
}

func parseLevel(logLevel string) levelOptions {
	switch strings.ToLower(logLevel) {
	case "trace":
		return levelOptions{level: slog.LevelDebug, reportCaller: true, reportTimestamp: true}
	case "debug":
		return levelOptions{level: slog.LevelDebug, reportTimestamp: true}
	case "warn", "warning":
		return levelOptions{level: slog.LevelWarn}
	case "error":
		return levelOptions{level: slog.LevelError}
	default:
		return levelOptions{level: slog.LevelInfo}
	}
}

// SetupHandlerText configures a charmbracelet text handler with the provided writer and log level
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	opts := parseLevel(logLevel)
	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: opts.reportTimestamp,
		ReportCaller:    opts.reportCaller,
		Level:           log.Level(opts.level),
	})
}

// SetupHandlerJSON configures a JSON slog handler with the provided writer and log level
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}

	opts := parseLevel(logLevel)
	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     opts.level,
		AddSource: opts.reportCaller,
	})
}

// SetupHandler picks the text or JSON handler by format name. Unknown formats
// fall back to text.
func SetupHandler(logLevel, format string, writer io.Writer) slog.Handler {
	if strings.EqualFold(format, "json") {
		return SetupHandlerJSON(logLevel, writer)
	}
	return SetupHandlerText(logLevel, writer)
}

// SetupLogger configures the default logger based on provided log level
func SetupLogger(logLevel string) {
	slog.SetDefault(slog.New(SetupHandlerText(logLevel, nil)))
}
