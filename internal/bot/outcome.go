package bot

import (
	"context"

	domerrors "github.com/anurag-chatbot/au-fulfillment/internal/errors"
	"github.com/anurag-chatbot/au-fulfillment/internal/logger"
	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
	"github.com/anurag-chatbot/au-fulfillment/internal/sentry"
)

// Handler outcomes recorded per intent.
const (
	OutcomeAnswered = "answered"
	OutcomeClarify  = "clarify"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Reporter records handler outcomes and converts store faults into their
// user-facing message. A nil logger or metrics is tolerated.
type Reporter struct {
	Intent  string
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Answer records outcome and returns text unchanged.
func (r Reporter) Answer(outcome, text string) string {
	r.Metrics.RecordHandlerOutcome(r.Intent, outcome)
	return text
}

// Fault logs and reports err, records an error outcome and returns the
// message carried by a wrapped error.
func (r Reporter) Fault(ctx context.Context, err error) string {
	if r.Logger != nil {
		r.Logger.WithError(err).ErrorContext(ctx, "Fact lookup failed", "intent", r.Intent)
	}
	sentry.CaptureExceptionWithContext(ctx, err)
	r.Metrics.RecordHandlerOutcome(r.Intent, OutcomeError)
	return domerrors.GetUserMessage(err)
}
