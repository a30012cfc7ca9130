package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
)

// FallbackDetector tries the primary detector and, when it fails, the
// fallback detector. Each call is bounded by its own timeout.
type FallbackDetector struct {
	primary  Detector
	fallback Detector
	timeout  time.Duration
	metrics  *metrics.Metrics
}

// NewFallbackDetector creates a fallback-enabled detector. fallback may be nil.
func NewFallbackDetector(primary, fallback Detector, timeout time.Duration, m *metrics.Metrics) *FallbackDetector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &FallbackDetector{
		primary:  primary,
		fallback: fallback,
		timeout:  timeout,
		metrics:  m,
	}
}

// Detect asks the primary provider, then the fallback provider.
func (f *FallbackDetector) Detect(ctx context.Context, text, languageCode string) (*Detection, error) {
	if f == nil || f.primary == nil {
		return nil, errors.New("intent detector not configured")
	}

	det, err := f.call(ctx, f.primary, text, languageCode)
	if err == nil {
		return det, nil
	}
	if f.fallback == nil || !ShouldFallback(err) || ctx.Err() != nil {
		return nil, err
	}

	slog.WarnContext(ctx, "primary intent detector failed, falling back",
		"from", f.primary.Provider(),
		"to", f.fallback.Provider(),
		"error", err)

	det, fbErr := f.call(ctx, f.fallback, text, languageCode)
	if fbErr != nil {
		return nil, fmt.Errorf("all providers failed: %w", errors.Join(err, fbErr))
	}
	return det, nil
}

func (f *FallbackDetector) call(ctx context.Context, d Detector, text, languageCode string) (*Detection, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	det, err := d.Detect(callCtx, text, languageCode)
	f.metrics.RecordNLU(d.Provider(), ClassifyError(err), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", d.Provider(), err)
	}
	return det, nil
}

// Provider returns the primary provider name.
func (f *FallbackDetector) Provider() string {
	if f == nil || f.primary == nil {
		return ""
	}
	return f.primary.Provider()
}

// Close closes both detectors.
func (f *FallbackDetector) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, d := range []Detector{f.primary, f.fallback} {
		if d == nil {
			continue
		}
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
