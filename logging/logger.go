// Package logging sets up slog for console and rotating file output and
// exposes package-level helpers used across the service.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// LoggingService owns the process logger and its file writer
type LoggingService struct {
	Logger *slog.Logger
	writer *RotatingWriter
}

// Options configures InitLogger
type Options struct {
	LogDir         string
	Level          string
	RetentionDays  int
	MaxLogFileSize int64
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance. When the log directory
// cannot be used it falls back to console only.
func InitLogger(opts Options) *LoggingService {
	level := parseLogLevel(opts.Level)

	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})

	service := &LoggingService{}

	writer, err := NewRotatingWriter(opts.LogDir, opts.RetentionDays, opts.MaxLogFileSize)
	if err != nil {
		service.Logger = slog.New(consoleHandler)
		service.Logger.Error("Failed to initialize rotating log file, using console only", "error", err)
	} else {
		service.writer = writer
		// Console gets text, file gets JSON for parsing
		fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level})
		service.Logger = slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}})
	}

	DefaultLoggingService = service
	slog.SetDefault(service.Logger)
	return service
}

// Close flushes and closes the log file, if any
func (s *LoggingService) Close() error {
	if s == nil || s.writer == nil {
		return nil
	}
	return s.writer.Close()
}

func parseLogLevel(level string) slog.Level {
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

// Logger returns the process logger, or slog's default before InitLogger runs
func Logger() *slog.Logger {
	return logger()
}

func logger() *slog.Logger {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return slog.Default()
	}
	return DefaultLoggingService.Logger
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

// multiHandler implements slog.Handler to write to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
