// Package logger provides the structured logger shared by every service layer
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// LoggerInterface defines the interface for logging operations
type LoggerInterface interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	DebugContext(ctx context.Context, msg string, args ...any)
	// With returns a logger that always carries the given key/value pairs
	With(args ...any) LoggerInterface
	// Slog exposes the underlying slog.Logger for libraries that want one
	Slog() *slog.Logger
}

// Logger wraps slog.Logger and satisfies LoggerInterface
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Output    io.Writer
	Format    string // "json" or "text"
	AddSource bool
	// Component is attached to every record when not empty
	Component string
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Output:    os.Stdout,
		Format:    "json",
		AddSource: false,
	}
}

// New creates a new logger instance with the given configuration
func New(config Config) LoggerInterface {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	switch config.Format {
	case "text":
		handler = slog.NewTextHandler(config.Output, opts)
	default:
		handler = slog.NewJSONHandler(config.Output, opts)
	}

	l := slog.New(handler)
	if config.Component != "" {
		l = l.With("component", config.Component)
	}

	return &Logger{Logger: l}
}

// NewWithOptions creates a new logger with options
func NewWithOptions(opts ...Option) LoggerInterface {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return New(config)
}

// NewJSON creates a new JSON logger
func NewJSON(output io.Writer, level slog.Level) LoggerInterface {
	return NewWithOptions(WithOutput(output), WithLevel(level), WithJSONFormat())
}

// NewText creates a new text logger
func NewText(output io.Writer, level slog.Level) LoggerInterface {
	return NewWithOptions(WithOutput(output), WithLevel(level), WithTextFormat())
}

// NewJSONDefault creates a new JSON logger with default settings
func NewJSONDefault() LoggerInterface {
	return New(DefaultConfig())
}

// ParseLevel maps a config string to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext returns a logger carrying the request id found in ctx, if any
func WithContext(ctx context.Context, logger LoggerInterface) LoggerInterface {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return logger.With("request_id", reqID)
	}
	return logger
}

// With returns a child logger with the given attributes
func (l *Logger) With(args ...any) LoggerInterface {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Slog returns the wrapped slog.Logger
func (l *Logger) Slog() *slog.Logger {
	return l.Logger
}

// InfoContext logs at the info level with context
func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.Logger.Log(ctx, slog.LevelInfo, msg, withRequestID(ctx, args)...)
}

// ErrorContext logs at the error level with context
func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.Logger.Log(ctx, slog.LevelError, msg, withRequestID(ctx, args)...)
}

// WarnContext logs at the warn level with context
func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.Logger.Log(ctx, slog.LevelWarn, msg, withRequestID(ctx, args)...)
}

// DebugContext logs at the debug level with context
func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.Logger.Log(ctx, slog.LevelDebug, msg, withRequestID(ctx, args)...)
}

func withRequestID(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		return args
	}
	return append([]any{"request_id", reqID}, args...)
}

// NoOpLogger returns a logger that does nothing - useful for testing
func NoOpLogger() LoggerInterface {
	return &Logger{
		Logger: slog.New(noOpHandler{}),
	}
}

// noOpHandler is a no-op implementation of slog.Handler
type noOpHandler struct{}

func (h noOpHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h noOpHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h noOpHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h noOpHandler) WithGroup(_ string) slog.Handler {
	return h
}
