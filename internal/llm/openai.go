package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/yksassistant/hakem/internal/util"
)

// OpenAI-compatible endpoints
const (
	FireworksBaseURL = "https://api.fireworks.ai/inference/v1"
	TogetherBaseURL  = "https://api.together.xyz/v1"

	FireworksVisionModel = "accounts/fireworks/models/qwen3-vl-235b-a22b-instruct"
)

// OpenAIProvider implements the Provider interface for OpenAI and any
// endpoint speaking the same chat completions protocol
type OpenAIProvider struct {
	client *openai.Client
	config Config
	name   string
}

// NewOpenAIProvider creates a new OpenAI-compatible provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", providerName(config.Provider, "openai"))
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	switch {
	case config.BaseURL != "":
		clientConfig.BaseURL = config.BaseURL
	case strings.EqualFold(config.Provider, "fireworks"):
		clientConfig.BaseURL = FireworksBaseURL
	case strings.EqualFold(config.Provider, "together"):
		clientConfig.BaseURL = TogetherBaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(config.timeout(), config.HTTPProxy, config.HTTPSProxy)

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		name:   providerName(config.Provider, "openai"),
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	if _, err := p.client.ListModels(ctx); err != nil {
		slog.Warn("provider check failed", "provider", p.name, "error", err)
		return false
	}
	return true
}

// Generate runs one chat completion; images are sent as data URLs
func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	req = p.config.resolve(req, p.defaultModel())

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, userMessage(req))

	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: float32(req.Temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

func (p *OpenAIProvider) defaultModel() string {
	switch p.name {
	case "fireworks":
		return FireworksVisionModel
	case "openai":
		return openai.GPT4oMini
	}
	return ""
}

func userMessage(req GenerateRequest) openai.ChatCompletionMessage {
	if len(req.Images) == 0 {
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt}
	}

	parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: req.Prompt}}
	for _, img := range req.Images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    dataURL(img),
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}
	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: parts}
}

func dataURL(img Image) string {
	return "data:" + mimeType(img) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func mimeType(img Image) string {
	if img.MimeType == "" {
		return "image/jpeg"
	}
	return img.MimeType
}

func providerName(configured, fallback string) string {
	if configured == "" {
		return fallback
	}
	return strings.ToLower(configured)
}
