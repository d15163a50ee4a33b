package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrMissingAPIKey is returned when no Gemini key was configured.
var ErrMissingAPIKey = errors.New("API key is required (set GEMINI_API_KEY or gemini.api_key)")

// Client is the slice of the model API the drafting code needs.
type Client interface {
	// GenerateJSON asks for a JSON answer and returns it with code fences stripped.
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier, opts ...JSONOption) (string, error)
	// Close releases any resources held by the client
	Close() error
}

type jsonOptions struct {
	schema      *genai.Schema
	temperature float32
}

// JSONOption tunes a single GenerateJSON call.
type JSONOption func(*jsonOptions)

// WithResponseSchema constrains the answer to the given schema.
func WithResponseSchema(schema *genai.Schema) JSONOption {
	return func(o *jsonOptions) { o.schema = schema }
}

// WithTemperature overrides the default low sampling temperature.
func WithTemperature(t float32) JSONOption {
	return func(o *jsonOptions) { o.temperature = t }
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateJSON generates JSON content using the specified model tier
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, opts ...JSONOption) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	o := jsonOptions{temperature: 0.4}
	for _, opt := range opts {
		opt(&o)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(o.temperature)
	model.ResponseMIMEType = "application/json"
	if o.schema != nil {
		model.ResponseSchema = o.schema
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
