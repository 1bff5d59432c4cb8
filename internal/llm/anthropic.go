package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/yksassistant/hakem/internal/util"
)

const defaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicProvider implements the Provider interface for Anthropic Claude models
type AnthropicProvider struct {
	client anthropic.Client
	config Config
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(util.NewHTTPClient(config.timeout(), config.HTTPProxy, config.HTTPSProxy)),
		// retries belong to the contract guard
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")+"/"))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable checks if the provider is properly configured
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.resolve(GenerateRequest{}, defaultAnthropicModel).Model),
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("Hi")),
		},
	})
	if err != nil {
		slog.Warn("provider check failed", "provider", "anthropic", "error", err)
		return false
	}
	return true
}

// Generate runs one Messages API call
func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	req = p.config.resolve(req, defaultAnthropicModel)

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Images)+1)
	for _, img := range req.Images {
		blocks = append(blocks, anthropic.NewImageBlockBase64(mimeType(img), base64.StdEncoding.EncodeToString(img.Data)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: param.NewOpt(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("no text content in Anthropic response")
	}

	return &GenerateResponse{
		Text:       strings.TrimSpace(text.String()),
		Model:      string(message.Model),
		TokensUsed: int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}, nil
}
