// Package sentry wraps the Sentry Go SDK: initialization from config and
// capture helpers that tag events with the request tracing values carried
// in the context.
package sentry

import (
	"context"
	"errors"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/anurag-chatbot/au-fulfillment/internal/ctxutil"
)

// Config holds Sentry configuration.
type Config struct {
	// DSN enables reporting when non-empty.
	DSN string

	// Environment identifies the deployment environment (e.g., "production", "staging").
	Environment string

	// Release identifies the application release version.
	Release string

	// SampleRate controls error sampling (0.0-1.0, default 1.0 = 100%).
	SampleRate float64

	// TracesSampleRate enables performance tracing when positive.
	TracesSampleRate float64

	// Debug enables Sentry SDK debug logging.
	Debug bool
}

// Initialize sets up the Sentry SDK. If DSN is empty, Sentry stays disabled
// and nil is returned.
func Initialize(cfg Config) error {
	if cfg.DSN == "" {
		return nil
	}
	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return errors.New("sentry sample rate must be within [0,1]")
	}

	sampleRate := cfg.SampleRate
	if sampleRate == 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events to be sent to the server.
// Returns true if all events were sent within the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled returns true if Sentry is initialized and active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureExceptionWithContext reports err on the request's hub (set by the
// gin middleware) or the global hub, tagged with request tracing values.
// It is a no-op when Sentry is disabled or err is nil.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range tracingTags(ctx) {
			scope.SetTag(k, v)
		}
		hub.CaptureException(err)
	})
}

func tracingTags(ctx context.Context) map[string]string {
	tags := make(map[string]string, 3)
	if id, ok := ctxutil.GetRequestID(ctx); ok && id != "" {
		tags["request_id"] = id
	}
	if ch := ctxutil.GetChannel(ctx); ch != "" {
		tags["channel"] = ch
	}
	if sid := ctxutil.GetSessionID(ctx); sid != "" {
		tags["session_id"] = sid
	}
	return tags
}
