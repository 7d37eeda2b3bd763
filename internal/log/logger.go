package log

import (
	"log/slog"

	"github.com/newsroomhq/newsroom/internal/errors"
)

// Logger provides structured logging with slog
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a new Logger with the given configuration
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level:     config.Level.ToSlogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case FormatText:
		handler = slog.NewTextHandler(config.Output.Writer(), opts)
	default:
		handler = slog.NewJSONHandler(config.Output.Writer(), opts)
	}

	return &Logger{
		slog:   slog.New(handler),
		config: config,
	}
}

// Default creates a logger with default configuration
func Default() *Logger {
	return New(DefaultConfig())
}

// With returns a new Logger with the given attributes added to all log entries
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}

// WithError adds error details to the logger
// If the error is a NewsroomError, it adds the error code as well
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	if nrErr, ok := err.(*errors.NewsroomError); ok {
		args := []any{
			"error", nrErr.Message,
			"error_code", string(nrErr.Code),
		}
		if nrErr.Cause != nil {
			args = append(args, "cause", nrErr.Cause.Error())
		}
		return l.With(args...)
	}

	return l.With("error", err.Error())
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// LogError logs a NewsroomError with full details
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	l.WithError(err).Error("operation failed")
}

// Close releases the logger's output when it owns one
func (l *Logger) Close() error {
	return l.config.Output.Close()
}

// Config returns the logger configuration
func (l *Logger) Config() Config {
	return l.config
}
