package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/params"
	"github.com/anurag-chatbot/au-fulfillment/internal/sentry"
)

// Params is the parameter bag passed through the middleware chain.
type Params = params.Bag

// HandlerFunc invokes a handler.
type HandlerFunc func(ctx context.Context, h Handler, bag Params, text string) string

// Middleware decorates a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// PanicMessage is returned when a handler panics.
const PanicMessage = "I'm having trouble answering that right now. Please try again later."

// Chain composes middlewares around a direct handler call.
func Chain(middlewares ...Middleware) HandlerFunc {
	var fn HandlerFunc = func(ctx context.Context, h Handler, bag Params, text string) string {
		return h.Handle(ctx, bag, text)
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		fn = middlewares[i](fn)
	}
	return fn
}

// LoggingMiddleware logs handler execution with timing.
func LoggingMiddleware(log *logger.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		if log == nil {
			return next
		}
		return func(ctx context.Context, h Handler, bag Params, text string) string {
			start := time.Now()
			resp := next(ctx, h, bag, text)
			log.WithModule(h.Name()).DebugContext(ctx, "Handler completed",
				"intent", h.Intent(),
				"param_count", len(bag),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return resp
		}
	}
}

// RecoveryMiddleware turns a handler panic into PanicMessage and reports it.
func RecoveryMiddleware(log *logger.Logger, m *metrics.Metrics) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, h Handler, bag Params, text string) (resp string) {
			defer func() {
				if r := recover(); r != nil {
					if log != nil {
						log.WithModule(h.Name()).ErrorContext(ctx, "Handler panicked",
							"panic", r,
							"stack", string(debug.Stack()),
						)
					}
					sentry.CaptureExceptionWithContext(ctx, fmt.Errorf("handler %s panicked: %v", h.Name(), r))
					m.RecordHandlerOutcome(h.Intent(), OutcomeError)
					resp = PanicMessage
				}
			}()
			return next(ctx, h, bag, text)
		}
	}
}
