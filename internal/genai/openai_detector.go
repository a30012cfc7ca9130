package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiDetector detects intents through an OpenAI-compatible chat API
// (Groq, Cerebras) with required tool calling.
type openaiDetector struct {
	client   openai.Client
	model    string
	tools    []openai.ChatCompletionToolUnionParam
	provider Provider
}

// newOpenAIDetector creates a detector for an OpenAI-compatible provider.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAIDetector(provider Provider, apiKey, model string, opts ...option.RequestOption) (*openaiDetector, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}
	baseURL, ok := ProviderEndpoint[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
	}
	if model == "" {
		model = defaultModel(provider)
	}

	reqOpts := append([]option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	return &openaiDetector{
		client:   openai.NewClient(reqOpts...),
		model:    model,
		tools:    buildOpenAITools(),
		provider: provider,
	}, nil
}

// buildOpenAITools converts the function declarations to OpenAI tool format.
// JSON Schema types are lowercase ("string", not "STRING").
func buildOpenAITools() []openai.ChatCompletionToolUnionParam {
	decls := BuildIntentFunctions()
	result := make([]openai.ChatCompletionToolUnionParam, 0, len(decls))
	for _, fd := range decls {
		properties := make(map[string]any, len(fd.Parameters.Properties))
		for name, schema := range fd.Parameters.Properties {
			properties[name] = map[string]string{
				"type":        strings.ToLower(string(schema.Type)),
				"description": schema.Description,
			}
		}
		result = append(result, openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        fd.Name,
			Description: openai.String(fd.Description),
			Parameters: openai.FunctionParameters{
				"type":       "object",
				"properties": properties,
				"required":   fd.Parameters.Required,
			},
		}))
	}
	return result
}

// Detect classifies text.
func (d *openaiDetector) Detect(ctx context.Context, text, languageCode string) (*Detection, error) {
	if d == nil {
		return nil, errors.New("openai detector is nil")
	}

	params := openai.ChatCompletionNewParams{
		Model: d.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(languageCode)),
			openai.UserMessage(text),
		},
		Tools: d.tools,
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String(string(openai.ChatCompletionToolChoiceOptionAutoRequired)),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(256),
	}

	start := time.Now()
	resp, err := d.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errors.New("empty response from model")
	}
	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		return nil, errors.New("no tool call in response (expected with required mode)")
	}
	if calls[0].Type != "function" {
		return nil, fmt.Errorf("unexpected tool type: %s", calls[0].Type)
	}

	det, err := detectionFromArguments(calls[0].Function.Name, calls[0].Function.Arguments)
	if err == nil {
		slog.DebugContext(ctx, "intent detection completed",
			"provider", d.provider,
			"model", d.model,
			"total_tokens", resp.Usage.TotalTokens,
			"duration_ms", duration.Milliseconds(),
			"intent", det.Intent)
	}
	return det, err
}

// detectionFromArguments decodes raw JSON tool arguments.
func detectionFromArguments(name, arguments string) (*Detection, error) {
	var args map[string]any
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, fmt.Errorf("failed to parse function arguments: %w", err)
		}
	}
	return detectionFromCall(name, args)
}

// Provider returns the provider name.
func (d *openaiDetector) Provider() string {
	if d == nil {
		return ""
	}
	return d.provider.String()
}

// Close releases resources. The openai client holds none that need closing.
func (d *openaiDetector) Close() error {
	return nil
}
