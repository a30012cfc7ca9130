package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

// geminiDetector detects intents with Gemini function calling.
type geminiDetector struct {
	client *genai.Client
	model  string
	tools  []*genai.Tool
}

// newGeminiDetector creates a Gemini detector.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiDetector(ctx context.Context, apiKey, model string) (*geminiDetector, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiDetector{
		client: client,
		model:  model,
		tools: []*genai.Tool{{
			FunctionDeclarations: BuildIntentFunctions(),
		}},
	}, nil
}

// Detect classifies text. ANY mode forces the model to call a function.
func (d *geminiDetector) Detect(ctx context.Context, text, languageCode string) (*Detection, error) {
	if d == nil || d.client == nil {
		return nil, errors.New("gemini detector is nil")
	}

	config := &genai.GenerateContentConfig{
		Tools:             d.tools,
		SystemInstruction: genai.NewContentFromText(systemPrompt(languageCode), genai.RoleUser),
		ToolConfig: &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAny,
			},
		},
		Temperature:     genai.Ptr[float32](0.1),
		MaxOutputTokens: 256,
	}

	start := time.Now()
	result, err := d.client.Models.GenerateContent(ctx, d.model, genai.Text(text), config)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	det, err := parseGeminiResponse(result)
	if err == nil && result.UsageMetadata != nil {
		slog.DebugContext(ctx, "intent detection completed",
			"provider", ProviderGemini,
			"model", d.model,
			"input_tokens", result.UsageMetadata.PromptTokenCount,
			"output_tokens", result.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds(),
			"intent", det.Intent)
	}
	return det, err
}

func parseGeminiResponse(result *genai.GenerateContentResponse) (*Detection, error) {
	if result == nil || len(result.Candidates) == 0 {
		return nil, errors.New("empty response from model")
	}
	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, errors.New("no content in response")
	}
	for _, part := range candidate.Content.Parts {
		if part != nil && part.FunctionCall != nil {
			return detectionFromCall(part.FunctionCall.Name, part.FunctionCall.Args)
		}
	}
	return nil, errors.New("no function call in response (expected with ANY mode)")
}

// Provider returns the provider name.
func (d *geminiDetector) Provider() string {
	return ProviderGemini.String()
}

// Close releases resources. genai.Client holds none that need closing.
func (d *geminiDetector) Close() error {
	return nil
}
