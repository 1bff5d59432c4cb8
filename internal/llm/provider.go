package llm

import (
	"context"
	"time"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate runs one completion and returns the raw model text
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Image is an inline image attached to a generation request
type Image struct {
	Data     []byte
	MimeType string // image/jpeg, image/png, ...
}

// GenerateRequest contains the input for one completion
type GenerateRequest struct {
	// System is an optional system prompt
	System string

	// Prompt is the user message
	Prompt string

	// Images are sent alongside the prompt to vision models
	Images []Image

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature overrides the configured temperature when > 0
	Temperature float64
}

// GenerateResponse contains the model output
type GenerateResponse struct {
	// Text is the concatenated text content of the reply
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "fireworks", "together", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for response generation
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:    "", // Disabled by default
		Timeout:     60,
		MaxTokens:   2048,
		Temperature: 0.1,
	}
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// resolve fills request fields left empty from the provider config
func (c Config) resolve(req GenerateRequest, defaultModel string) GenerateRequest {
	if req.Model == "" {
		req.Model = c.Model
	}
	if req.Model == "" {
		req.Model = defaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.MaxTokens
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = 2048
	}
	if req.Temperature <= 0 {
		req.Temperature = c.Temperature
	}
	return req
}
