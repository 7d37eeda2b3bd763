package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Format represents the output format for logs
type Format int

const (
	// FormatJSON outputs logs in JSON format
	FormatJSON Format = iota
	// FormatText outputs logs in human-readable text format
	FormatText
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "json"
	}
}

// ParseFormat parses a string into a Format
func ParseFormat(s string) Format {
	switch s {
	case "json", "JSON":
		return FormatJSON
	case "text", "TEXT", "console":
		return FormatText
	default:
		return FormatJSON
	}
}

// Output represents where logs should be written
type Output struct {
	writer io.Writer
	closer io.Closer
}

// Writer returns the underlying io.Writer
func (o Output) Writer() io.Writer {
	return o.writer
}

// Close releases the underlying writer when it owns one (file outputs)
func (o Output) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer.Close()
}

// NewOutput creates an Output from an io.Writer
func NewOutput(w io.Writer) Output {
	return Output{writer: w}
}

// OutputStderr creates an Output that writes to stderr
func OutputStderr() Output {
	return Output{writer: os.Stderr}
}

// OutputFile creates an Output that appends to a log file. The TUI runs on the
// alternate screen, so interactive sessions must never log to the terminal.
func OutputFile(path string) (Output, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Output{}, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return Output{}, fmt.Errorf("open log file: %w", err)
	}
	return Output{writer: f, closer: f}, nil
}

// Config holds configuration for the logger
type Config struct {
	// Level is the minimum log level to output
	Level Level

	// Format is the output format (JSON or Text)
	Format Format

	// Output is where logs should be written
	Output Output

	// AddSource includes source file and line number in logs
	AddSource bool
}

// DefaultConfig returns a sensible default configuration
// Logs at INFO level in text format to stderr
func DefaultConfig() Config {
	return Config{
		Level:     LevelInfo,
		Format:    FormatText,
		Output:    OutputStderr(),
		AddSource: false,
	}
}

// InteractiveConfig returns the configuration for TUI sessions: JSON records
// appended to a file in the state directory, leaving the terminal untouched.
func InteractiveConfig(logPath string, level Level) (Config, error) {
	out, err := OutputFile(logPath)
	if err != nil {
		return Config{}, err
	}
	return Config{
		Level:  level,
		Format: FormatJSON,
		Output: out,
	}, nil
}
