// Package genai detects user intents with hosted LLMs (Gemini, Groq and
// Cerebras) and reports them the way an NLU agent would: an intent display
// name, a confidence, extracted parameters and an optional canned reply.
//
// Architecture:
//   - Gemini: google.golang.org/genai (official SDK)
//   - Groq/Cerebras: github.com/openai/openai-go/v3 (OpenAI-compatible API)
//
// Detection is forced function calling: every intent is one function and the
// model must call exactly one of them.
package genai

import (
	"context"
	"time"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini represents Google's Gemini API.
	ProviderGemini Provider = "gemini"
	// ProviderGroq represents Groq's OpenAI-compatible API.
	ProviderGroq Provider = "groq"
	// ProviderCerebras represents Cerebras's OpenAI-compatible API.
	ProviderCerebras Provider = "cerebras"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq:     "https://api.groq.com/openai/v1/",
	ProviderCerebras: "https://api.cerebras.ai/v1/",
}

// IsOpenAICompatible returns true if the provider uses OpenAI-compatible API.
func (p Provider) IsOpenAICompatible() bool {
	_, ok := ProviderEndpoint[p]
	return ok
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Detection is one intent detection result.
type Detection struct {
	// FulfillmentText is a reply the agent produced itself (small talk).
	// Empty for fact intents, which are answered by a handler.
	FulfillmentText string
	// Intent is the display name of the detected intent.
	Intent string
	// Confidence is the model's self-reported confidence in [0,1].
	Confidence float64
	// Parameters holds the extracted slots keyed by parameter name.
	Parameters map[string]any
}

// Detector detects the intent of one utterance.
type Detector interface {
	// Detect classifies text. languageCode is a BCP 47 hint and may be empty.
	Detect(ctx context.Context, text, languageCode string) (*Detection, error)
	// Provider names the backing provider for logs and metrics.
	Provider() string
	// Close releases any resources held by the detector.
	Close() error
}

// ProviderConfig holds configuration for a single provider.
type ProviderConfig struct {
	APIKey string
	// Model overrides the provider default when non-empty.
	Model string
}

// Config holds configuration for all providers.
type Config struct {
	// Providers is the ordered provider list. The first configured one is
	// primary, the second configured one is the fallback; the rest are ignored.
	Providers []Provider

	Gemini   ProviderConfig
	Groq     ProviderConfig
	Cerebras ProviderConfig

	// Timeout bounds a single provider call.
	Timeout time.Duration
}

// Default models per provider.
const (
	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGroqModel     = "llama-3.3-70b-versatile"
	DefaultCerebrasModel = "llama-3.3-70b"
)

// DefaultTimeout bounds one detection call when Config.Timeout is unset.
const DefaultTimeout = 10 * time.Second

// ProviderConfig returns the configuration for a specific provider.
func (c *Config) ProviderConfig(p Provider) *ProviderConfig {
	switch p {
	case ProviderGemini:
		return &c.Gemini
	case ProviderGroq:
		return &c.Groq
	case ProviderCerebras:
		return &c.Cerebras
	default:
		return nil
	}
}

// ConfiguredProviders returns the providers that have an API key, in the
// order of c.Providers, without duplicates.
func (c *Config) ConfiguredProviders() []Provider {
	result := make([]Provider, 0, len(c.Providers))
	seen := make(map[Provider]bool, len(c.Providers))
	for _, p := range c.Providers {
		pc := c.ProviderConfig(p)
		if pc == nil || pc.APIKey == "" || seen[p] {
			continue
		}
		seen[p] = true
		result = append(result, p)
	}
	return result
}

func defaultModel(p Provider) string {
	switch p {
	case ProviderGemini:
		return DefaultGeminiModel
	case ProviderGroq:
		return DefaultGroqModel
	case ProviderCerebras:
		return DefaultCerebrasModel
	}
	return ""
}
