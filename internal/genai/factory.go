package genai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anurag-chatbot/au-fulfillment/internal/metrics"
)

// NewDetector builds a FallbackDetector from the first two configured
// providers. Returns nil, nil when no provider has an API key; callers then
// skip the NLU stage.
func NewDetector(ctx context.Context, cfg Config, m *metrics.Metrics) (Detector, error) {
	var chain []Detector
	for _, p := range cfg.ConfiguredProviders() {
		if len(chain) == 2 {
			break
		}
		d, err := newProviderDetector(ctx, p, *cfg.ProviderConfig(p))
		if err != nil {
			slog.WarnContext(ctx, "failed to create intent detector", "provider", p, "error", err)
			continue
		}
		if d != nil {
			chain = append(chain, d)
		}
	}

	if len(chain) == 0 {
		slog.InfoContext(ctx, "no LLM provider configured for intent detection")
		return nil, nil
	}

	var fallback Detector
	if len(chain) > 1 {
		fallback = chain[1]
		slog.InfoContext(ctx, "intent detector configured",
			"primary", chain[0].Provider(),
			"fallback", fallback.Provider())
	} else {
		slog.InfoContext(ctx, "intent detector configured", "primary", chain[0].Provider())
	}
	return NewFallbackDetector(chain[0], fallback, cfg.Timeout, m), nil
}

func newProviderDetector(ctx context.Context, p Provider, pc ProviderConfig) (Detector, error) {
	switch {
	case p == ProviderGemini:
		d, err := newGeminiDetector(ctx, pc.APIKey, pc.Model)
		if err != nil || d == nil {
			return nil, err
		}
		return d, nil
	case p.IsOpenAICompatible():
		d, err := newOpenAIDetector(p, pc.APIKey, pc.Model)
		if err != nil || d == nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", p)
	}
}
