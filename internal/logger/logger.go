// Package logger provides structured logging for the fulfillment service.
// It wraps log/slog with JSON output, enriches records with request tracing
// values from the context, and optionally ships logs to Better Stack.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Logger is the application logger.
type Logger struct {
	*slog.Logger
	level   slog.Level
	shipper *shipHandler
}

// Options configures optional log destinations.
type Options struct {
	// BetterStackToken enables remote shipping when non-empty.
	BetterStackToken string
	// BetterStackEndpoint overrides the default ingesting host.
	BetterStackEndpoint string
	// ShipBuffer is the number of records buffered for remote shipping.
	ShipBuffer int
}

// New creates a JSON logger writing to stdout.
func New(level string) *Logger {
	return NewWithOptions(level, os.Stdout, Options{})
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(level string, w io.Writer) *Logger {
	return NewWithOptions(level, w, Options{})
}

// NewWithOptions creates a logger writing JSON to w and, when a Better Stack
// token is configured, fanning out to the Better Stack handler as well.
func NewWithOptions(level string, w io.Writer, opts Options) *Logger {
	logLevel := ParseLevel(level)

	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       logLevel,
		ReplaceAttr: replaceAttr,
	})

	var shipper *shipHandler
	if opts.BetterStackToken != "" {
		remote := slogbetterstack.Option{
			Level:    logLevel,
			Token:    opts.BetterStackToken,
			Endpoint: opts.BetterStackEndpoint,
		}.NewBetterstackHandler()
		shipper = newShipHandler(remote, opts.ShipBuffer)
		handler = NewMultiHandler(handler, shipper)
	}

	return &Logger{
		Logger:  slog.New(NewContextHandler(handler)),
		level:   logLevel,
		shipper: shipper,
	}
}

// ParseLevel maps a configured level name onto a slog level. Unknown names mean info.
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

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.LevelKey:
		a.Key = "level"
		lvl := a.Value.String()
		if lvl == "WARN" {
			lvl = "warning"
		}
		a.Value = slog.StringValue(strings.ToLower(lvl))
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// Level returns the minimum level this logger emits.
func (l *Logger) Level() slog.Level {
	return l.level
}

func (l *Logger) derive(next *slog.Logger) *Logger {
	return &Logger{Logger: next, level: l.level, shipper: l.shipper}
}

// WithModule creates a new entry with module field
func (l *Logger) WithModule(module string) *Logger {
	return l.derive(l.With("module", module))
}

// WithRequestID creates a new entry with request ID field
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.derive(l.With("request_id", requestID))
}

// WithError creates a new entry with error field
func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.With("error", err))
}

// WithField creates a new entry with a single field
func (l *Logger) WithField(key string, value any) *Logger {
	return l.derive(l.With(key, value))
}

// WithFields creates a new entry with multiple fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.derive(l.With(args...))
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Dropped reports how many records remote shipping discarded because its
// buffer was full. Zero when shipping is disabled.
func (l *Logger) Dropped() uint64 {
	if l == nil || l.shipper == nil {
		return 0
	}
	return l.shipper.Dropped()
}

// Shutdown drains records queued for remote shipping.
func (l *Logger) Shutdown(ctx context.Context) error {
	if l == nil || l.shipper == nil {
		return nil
	}
	return l.shipper.drain(ctx)
}
