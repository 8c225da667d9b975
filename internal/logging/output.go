package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputType represents where log output is written
type OutputType string

const (
	OutputStdout OutputType = "stdout"
	OutputStderr OutputType = "stderr"
	OutputFile   OutputType = "file"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// OpenOutput creates the log destination named by output:
//   - "stderr" or "" - os.Stderr
//   - "stdout" - os.Stdout
//   - "file:///path/to/file" or "/path/to/file" - appends to the file,
//     creating parent directories as needed
//
// Closing the result closes files only, never the standard streams.
func OpenOutput(output string) (io.WriteCloser, error) {
	switch {
	case output == "" || output == "stderr":
		return nopCloser{os.Stderr}, nil
	case output == "stdout":
		return nopCloser{os.Stdout}, nil
	case strings.HasPrefix(output, "file://"):
		return openFile(strings.TrimPrefix(output, "file://"))
	case isFilePath(output):
		return openFile(output)
	default:
		return nil, fmt.Errorf("unsupported log output: %s", output)
	}
}

// ParseOutputType determines the output type from an output string
func ParseOutputType(output string) OutputType {
	switch output {
	case "", "stderr":
		return OutputStderr
	case "stdout":
		return OutputStdout
	default:
		return OutputFile
	}
}

func isFilePath(path string) bool {
	if strings.Contains(path, "://") {
		return false
	}
	return strings.ContainsAny(path, `/\`)
}

func openFile(filePath string) (io.WriteCloser, error) {
	dir := filepath.Dir(filePath)
	if dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	return file, nil
}
